package mapper

import (
	"encoding/json"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/model"

	"gorm.io/datatypes"
)

type ImageMapper struct{}

func NewImageMapper() *ImageMapper {
	return &ImageMapper{}
}

func (m *ImageMapper) ToEntity(img *model.GeneratedImage) *entity.GeneratedImage {
	if img == nil {
		return nil
	}

	var meta map[string]interface{}
	if len(img.ProviderMeta) > 0 {
		// Malformed metadata is not worth failing a read over.
		_ = json.Unmarshal(img.ProviderMeta, &meta)
	}

	return &entity.GeneratedImage{
		Id:             img.Id,
		UserId:         img.UserId,
		Prompt:         img.Prompt,
		EnhancedPrompt: img.EnhancedPrompt,
		ImageURL:       img.ImageURL,
		SourceURL:      img.SourceURL,
		Resolution:     img.Resolution,
		GenerationType: img.GenerationType,
		CreditsUsed:    img.CreditsUsed,
		ProviderMeta:   meta,
		CreatedAt:      img.CreatedAt,
	}
}

func (m *ImageMapper) ToEntities(imgs []*model.GeneratedImage) []*entity.GeneratedImage {
	entities := make([]*entity.GeneratedImage, 0, len(imgs))
	for _, img := range imgs {
		entities = append(entities, m.ToEntity(img))
	}
	return entities
}

func (m *ImageMapper) ToModel(img *entity.GeneratedImage) *model.GeneratedImage {
	if img == nil {
		return nil
	}

	var meta datatypes.JSON
	if img.ProviderMeta != nil {
		if raw, err := json.Marshal(img.ProviderMeta); err == nil {
			meta = raw
		}
	}

	return &model.GeneratedImage{
		Id:             img.Id,
		UserId:         img.UserId,
		Prompt:         img.Prompt,
		EnhancedPrompt: img.EnhancedPrompt,
		ImageURL:       img.ImageURL,
		SourceURL:      img.SourceURL,
		Resolution:     img.Resolution,
		GenerationType: img.GenerationType,
		CreditsUsed:    img.CreditsUsed,
		ProviderMeta:   meta,
		CreatedAt:      img.CreatedAt,
	}
}
