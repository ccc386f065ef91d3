package implementation

import (
	"context"
	"errors"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/mapper"
	"ai-photostudio-be/internal/model"
	"ai-photostudio-be/internal/repository/contract"
	"ai-photostudio-be/internal/repository/specification"

	"gorm.io/gorm"
)

type GeneratedImageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ImageMapper
}

func NewGeneratedImageRepository(db *gorm.DB) contract.GeneratedImageRepository {
	return &GeneratedImageRepositoryImpl{
		db:     db,
		mapper: mapper.NewImageMapper(),
	}
}

func (r *GeneratedImageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GeneratedImageRepositoryImpl) Create(ctx context.Context, image *entity.GeneratedImage) error {
	m := r.mapper.ToModel(image)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*image = *r.mapper.ToEntity(m)
	return nil
}

func (r *GeneratedImageRepositoryImpl) Update(ctx context.Context, image *entity.GeneratedImage) error {
	m := r.mapper.ToModel(image)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *GeneratedImageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GeneratedImage, error) {
	var m model.GeneratedImage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *GeneratedImageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error) {
	var ms []*model.GeneratedImage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(ms), nil
}

func (r *GeneratedImageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GeneratedImage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
