package service

import (
	"context"
	"time"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IWalletService interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error)
	ListTransactions(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.TransactionListResponse, error)
}

type walletService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWalletService(uowFactory unitofwork.RepositoryFactory) IWalletService {
	return &walletService{uowFactory: uowFactory}
}

func (s *walletService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	balance, err := uow.UserRepository().GetBalance(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{Balance: balance}, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.TransactionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.WalletTransactionRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	txs, err := uow.WalletTransactionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, &dto.TransactionResponse{
			Id:              tx.Id,
			TransactionType: string(tx.TransactionType),
			Amount:          tx.Amount,
			BalanceAfter:    tx.BalanceAfter,
			Description:     tx.Description,
			CreatedAt:       tx.CreatedAt,
		})
	}

	return &dto.TransactionListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// applyCredit adds amount to the user's balance and appends the matching
// journal row. Must run inside an open unit of work so the balance update
// and the ledger append commit together.
func applyCredit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount decimal.Decimal, txType entity.TransactionType, gatewayRef *string, description string) (decimal.Decimal, error) {
	newBalance, err := uow.UserRepository().CreditBalance(ctx, userId, amount)
	if err != nil {
		return decimal.Zero, err
	}

	tx := &entity.WalletTransaction{
		Id:              uuid.New(),
		UserId:          userId,
		TransactionType: txType,
		Amount:          amount,
		BalanceAfter:    newBalance,
		GatewayRef:      gatewayRef,
		Description:     description,
		CreatedAt:       time.Now(),
	}
	if err := uow.WalletTransactionRepository().Create(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// applyDebit subtracts amount if the balance covers it and appends the journal
// row. The sufficiency check happens inside the balance update itself, so a
// stale pre-check elsewhere can never overdraw the wallet.
func applyDebit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	newBalance, err := uow.UserRepository().DebitBalance(ctx, userId, amount)
	if err != nil {
		return decimal.Zero, err
	}

	tx := &entity.WalletTransaction{
		Id:              uuid.New(),
		UserId:          userId,
		TransactionType: entity.TransactionTypeDeduct,
		Amount:          amount,
		BalanceAfter:    newBalance,
		Description:     description,
		CreatedAt:       time.Now(),
	}
	if err := uow.WalletTransactionRepository().Create(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// findUserOrFail resolves a user or returns apperr.ErrNotFound.
func findUserOrFail(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}
