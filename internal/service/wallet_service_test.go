package service

import (
	"context"
	"testing"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreditAppendsLedger(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))

	ref := "evt-123"
	newBalance, err := applyCredit(ctx, uow, user.Id, decimal.NewFromInt(500), entity.TransactionTypeTopup, &ref, "Wallet topup")
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	assert.True(t, decimal.NewFromInt(500).Equal(newBalance))
	assert.True(t, decimal.NewFromInt(500).Equal(currentBalance(t, factory, user.Id)))

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeTopup, rows[0].TransactionType)
	assert.True(t, decimal.NewFromInt(500).Equal(rows[0].Amount))
	assert.True(t, decimal.NewFromInt(500).Equal(rows[0].BalanceAfter))
	require.NotNil(t, rows[0].GatewayRef)
	assert.Equal(t, "evt-123", *rows[0].GatewayRef)
}

func TestApplyDebitInsufficientLeavesStateUntouched(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(20))
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))

	_, err := applyDebit(ctx, uow, user.Id, decimal.NewFromInt(25), "Image generation")
	require.Error(t, err)
	uow.Rollback()

	ib, ok := apperr.IsInsufficientBalance(err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(25).Equal(ib.Required))
	assert.True(t, decimal.NewFromInt(20).Equal(ib.Current))

	assert.True(t, decimal.NewFromInt(20).Equal(currentBalance(t, factory, user.Id)))
	assert.Empty(t, ledgerRows(t, factory, user.Id))
}

func TestDebitsCannotOverdraw(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(60))
	ctx := context.Background()

	debit := func() error {
		uow := factory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()
		if _, err := applyDebit(ctx, uow, user.Id, decimal.NewFromInt(50), "Image generation"); err != nil {
			return err
		}
		return uow.Commit()
	}

	require.NoError(t, debit())
	err := debit()
	require.Error(t, err)
	_, ok := apperr.IsInsufficientBalance(err)
	assert.True(t, ok)

	assert.True(t, decimal.NewFromInt(10).Equal(currentBalance(t, factory, user.Id)))
	assert.Len(t, ledgerRows(t, factory, user.Id), 1)
}

func TestLedgerReplaysToBalance(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	ctx := context.Background()

	steps := []struct {
		credit bool
		amount int64
	}{
		{true, 1000},
		{false, 25},
		{false, 50},
		{true, 500},
		{false, 125},
	}

	for i, step := range steps {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		var err error
		if step.credit {
			ref := uuidRef(i)
			_, err = applyCredit(ctx, uow, user.Id, decimal.NewFromInt(step.amount), entity.TransactionTypeTopup, &ref, "topup")
		} else {
			_, err = applyDebit(ctx, uow, user.Id, decimal.NewFromInt(step.amount), "generation")
		}
		require.NoError(t, err)
		require.NoError(t, uow.Commit())
	}

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, len(steps))

	replayed := decimal.Zero
	for _, row := range rows {
		replayed = replayed.Add(row.TransactionType.SignedAmount(row.Amount))
	}

	balance := currentBalance(t, factory, user.Id)
	assert.True(t, replayed.Equal(balance), "replayed %s, balance %s", replayed, balance)
	assert.True(t, decimal.NewFromInt(1300).Equal(balance))
}

func TestListTransactionsPagination(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		ref := uuidRef(i)
		_, err := applyCredit(ctx, uow, user.Id, decimal.NewFromInt(100), entity.TransactionTypeTopup, &ref, "topup")
		require.NoError(t, err)
		require.NoError(t, uow.Commit())
	}

	svc := NewWalletService(factory)

	res, err := svc.ListTransactions(ctx, user.Id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Total)
	assert.Len(t, res.Items, 2)

	res, err = svc.ListTransactions(ctx, user.Id, 3, 2)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestGetBalance(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(250))

	svc := NewWalletService(factory)
	res, err := svc.GetBalance(context.Background(), user.Id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(res.Balance))
}

func TestGetBalanceUnknownUser(t *testing.T) {
	factory, _ := newTestFactory(t)

	svc := NewWalletService(factory)
	_, err := svc.GetBalance(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
