package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GeneratedImage records one successful, paid-for generation. Created exactly
// once per debit; the accounting fields never change afterwards. SourceURL
// keeps the original provider URL, ImageURL is repointed to our own storage
// once the persist pipeline has re-hosted the asset.
type GeneratedImage struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index:idx_generated_images_user_created,priority:1"`
	Prompt         string         `gorm:"type:text;not null"`
	EnhancedPrompt string         `gorm:"type:text"`
	ImageURL       string         `gorm:"type:text;not null"`
	SourceURL      string         `gorm:"type:text"`
	Resolution     string         `gorm:"type:varchar(20);not null"`
	GenerationType string         `gorm:"type:varchar(50);not null;default:'product_photo'"`
	CreditsUsed    int            `gorm:"not null"`
	ProviderMeta   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;not null;index:idx_generated_images_user_created,priority:2"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
