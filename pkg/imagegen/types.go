package imagegen

// GenerateRequest describes a single generation job sent to the provider.
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	ImageSize string `json:"image_size"`
	NumImages int    `json:"num_images"`
}

// GenerateResponse is the completed result fetched from the provider queue.
type GenerateResponse struct {
	Images []Image `json:"images"`
	Seed   int64   `json:"seed"`
	Prompt string  `json:"prompt"`
}

// Image is a single generated image.
type Image struct {
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ContentType string `json:"content_type"`
}

// QueueStatus is returned while a job sits in the provider queue.
type QueueStatus struct {
	Status        string `json:"status"`
	RequestID     string `json:"request_id"`
	ResponseURL   string `json:"response_url"`
	StatusURL     string `json:"status_url"`
	QueuePosition int    `json:"queue_position"`
}

const (
	StatusInQueue    = "IN_QUEUE"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)
