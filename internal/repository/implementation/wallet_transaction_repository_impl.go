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

type WalletTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WalletMapper
}

func NewWalletTransactionRepository(db *gorm.DB) contract.WalletTransactionRepository {
	return &WalletTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewWalletMapper(),
	}
}

func (r *WalletTransactionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WalletTransactionRepositoryImpl) Create(ctx context.Context, tx *entity.WalletTransaction) error {
	m := r.mapper.ToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.ToEntity(m)
	return nil
}

func (r *WalletTransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WalletTransaction, error) {
	var m model.WalletTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *WalletTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error) {
	var ms []*model.WalletTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(ms), nil
}

func (r *WalletTransactionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WalletTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
