package unitofwork

import (
	"context"

	"ai-photostudio-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	WalletTransactionRepository() contract.WalletTransactionRepository
	TopupOrderRepository() contract.TopupOrderRepository
	GeneratedImageRepository() contract.GeneratedImageRepository
}
