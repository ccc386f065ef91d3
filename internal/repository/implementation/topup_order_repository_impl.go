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

type TopupOrderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WalletMapper
}

func NewTopupOrderRepository(db *gorm.DB) contract.TopupOrderRepository {
	return &TopupOrderRepositoryImpl{
		db:     db,
		mapper: mapper.NewWalletMapper(),
	}
}

func (r *TopupOrderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TopupOrderRepositoryImpl) Create(ctx context.Context, order *entity.TopupOrder) error {
	m := r.mapper.TopupOrderToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.TopupOrderToEntity(m)
	return nil
}

func (r *TopupOrderRepositoryImpl) Update(ctx context.Context, order *entity.TopupOrder) error {
	m := r.mapper.TopupOrderToModel(order)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.TopupOrderToEntity(m)
	return nil
}

func (r *TopupOrderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopupOrder, error) {
	var m model.TopupOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.TopupOrderToEntity(&m), nil
}
