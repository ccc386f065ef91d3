package contract

import (
	"context"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/repository/specification"
)

// WalletTransactionRepository is append-only: ledger rows are never updated
// or deleted once written.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx *entity.WalletTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WalletTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type TopupOrderRepository interface {
	Create(ctx context.Context, order *entity.TopupOrder) error
	Update(ctx context.Context, order *entity.TopupOrder) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopupOrder, error)
}
