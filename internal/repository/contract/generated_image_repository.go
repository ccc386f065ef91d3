package contract

import (
	"context"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/repository/specification"
)

type GeneratedImageRepository interface {
	Create(ctx context.Context, image *entity.GeneratedImage) error
	Update(ctx context.Context, image *entity.GeneratedImage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GeneratedImage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
