package contract

import (
	"context"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// GetBalance reads the current wallet balance.
	GetBalance(ctx context.Context, userId uuid.UUID) (decimal.Decimal, error)

	// CreditBalance adds amount to the wallet and returns the new balance.
	CreditBalance(ctx context.Context, userId uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// DebitBalance subtracts amount if and only if the stored balance covers
	// it, re-checking inside the same statement so concurrent debits cannot
	// both pass a stale sufficiency check. Returns the new balance, or an
	// apperr.InsufficientBalanceError without mutating anything.
	DebitBalance(ctx context.Context, userId uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	UpdateAutoRecharge(ctx context.Context, userId uuid.UUID, enabled bool, threshold, amount decimal.Decimal) error
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
}
