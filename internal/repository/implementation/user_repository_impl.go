package implementation

import (
	"context"
	"errors"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/mapper"
	"ai-photostudio-be/internal/model"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/repository/contract"
	"ai-photostudio-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) GetBalance(ctx context.Context, userId uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Select("wallet_balance").
		Scan(&balance)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, apperr.ErrNotFound
	}
	return balance, nil
}

func (r *UserRepositoryImpl) CreditBalance(ctx context.Context, userId uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, apperr.ErrNotFound
	}
	return r.GetBalance(ctx, userId)
}

// DebitBalance performs the sufficiency check and the decrement in one
// conditional UPDATE. Two concurrent debits that would jointly overdraw the
// wallet therefore cannot both succeed regardless of what either caller read
// beforehand.
func (r *UserRepositoryImpl) DebitBalance(ctx context.Context, userId uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND wallet_balance >= ?", userId, amount).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}

	if res.RowsAffected == 0 {
		current, err := r.GetBalance(ctx, userId)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, &apperr.InsufficientBalanceError{Required: amount, Current: current}
	}

	return r.GetBalance(ctx, userId)
}

func (r *UserRepositoryImpl) UpdateAutoRecharge(ctx context.Context, userId uuid.UUID, enabled bool, threshold, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).
		Updates(map[string]interface{}{
			"auto_recharge_enabled":   enabled,
			"auto_recharge_threshold": threshold,
			"auto_recharge_amount":    amount,
		}).Error
}

func (r *UserRepositoryImpl) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	m := r.mapper.UserProviderToModel(provider)
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO user_providers (id, user_id, provider_name, provider_user_id, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider_name, provider_user_id)
		DO UPDATE SET avatar_url = EXCLUDED.avatar_url`,
		m.Id, m.UserId, m.ProviderName, m.ProviderUserId, m.AvatarURL, m.CreatedAt,
	).Error
}
