package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GenerateImageRequest struct {
	Prompt     string `json:"prompt" validate:"required,min=3"`
	Resolution string `json:"resolution" validate:"required"`
	NumImages  int    `json:"num_images" validate:"required,min=1,max=4"`
}

type GenerateImageResponse struct {
	GenerationId uuid.UUID       `json:"generation_id"`
	ImageURL     string          `json:"image_url"`
	CreditsUsed  int             `json:"credits_used"`
	NewBalance   decimal.Decimal `json:"new_balance"`
}

type CostEstimateResponse struct {
	Resolution string          `json:"resolution"`
	Credits    int             `json:"credits"`
	Rupees     decimal.Decimal `json:"rupees"`
}

type GeneratedImageResponse struct {
	Id             uuid.UUID `json:"id"`
	Prompt         string    `json:"prompt"`
	EnhancedPrompt string    `json:"enhanced_prompt,omitempty"`
	ImageURL       string    `json:"image_url"`
	Resolution     string    `json:"resolution"`
	GenerationType string    `json:"generation_type"`
	CreditsUsed    int       `json:"credits_used"`
	CreatedAt      time.Time `json:"created_at"`
}

// PersistImageMessage is the async job that re-hosts a provider image onto
// our own storage.
type PersistImageMessage struct {
	GenerationId uuid.UUID `json:"generation_id"`
	SourceURL    string    `json:"source_url"`
}

type GeneratedImageListResponse struct {
	Items []*GeneratedImageResponse `json:"items"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
