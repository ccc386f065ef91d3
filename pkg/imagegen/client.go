package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// IClient is the provider interface the generation service depends on.
// The provider is only considered successful once a completed result with
// at least one image URL has been fetched.
type IClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Client talks to a fal.ai style queue API: submit, poll, fetch result.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	model        string
	pollInterval time.Duration
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiKey:       apiKey,
		baseURL:      baseURL,
		model:        model,
		pollInterval: time.Second,
	}
}

// Generate submits the request and blocks until the job completes or ctx
// expires. Callers bound the total wait with a context deadline.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	status, err := c.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation timed out waiting for request %s: %w", status.RequestID, ctx.Err())
		case <-ticker.C:
		}

		current, err := c.pollStatus(ctx, status.StatusURL)
		if err != nil {
			return nil, err
		}

		if current.Status == StatusCompleted {
			return c.fetchResult(ctx, status.ResponseURL)
		}
	}
}

// Download fetches the raw bytes of a generated image so it can be re-hosted.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) submit(ctx context.Context, req GenerateRequest) (*QueueStatus, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to submit generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(data))
	}

	var status QueueStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode queue status: %w", err)
	}
	return &status, nil
}

func (c *Client) pollStatus(ctx context.Context, statusURL string) (*QueueStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to poll status: %w", err)
	}
	defer resp.Body.Close()

	var status QueueStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &status, nil
}

func (c *Client) fetchResult(ctx context.Context, responseURL string) (*GenerateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, responseURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider result returned status %d: %s", resp.StatusCode, string(data))
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	if len(result.Images) == 0 {
		return nil, fmt.Errorf("provider returned no images")
	}
	return &result, nil
}
