package entity

import (
	"time"

	"github.com/google/uuid"
)

type GeneratedImage struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Prompt         string
	EnhancedPrompt string
	ImageURL       string
	SourceURL      string
	Resolution     string
	GenerationType string
	CreditsUsed    int
	ProviderMeta   map[string]interface{}
	CreatedAt      time.Time
}
