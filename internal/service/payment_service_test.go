package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/pkg/logger"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/pkg/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test-key"

func newPaymentService(t *testing.T, factory unitofwork.RepositoryFactory) IPaymentService {
	t.Helper()
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "payment_test.log"))
	return NewPaymentService(factory, nil, nil, log)
}

func seedTopupOrder(t *testing.T, factory unitofwork.RepositoryFactory, userId uuid.UUID, amount int64) *entity.TopupOrder {
	t.Helper()

	amt := decimal.NewFromInt(amount)
	order := &entity.TopupOrder{
		Id:           uuid.New(),
		UserId:       userId,
		Amount:       amt,
		BaseCredits:  pricing.CreditsForRupees(amt),
		BonusCredits: pricing.BonusCreditsForTopup(amt),
		Status:       entity.TopupOrderStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.TopupOrderRepository().Create(context.Background(), order))
	return order
}

func webhookFor(order *entity.TopupOrder, status string) *dto.MidtransWebhookRequest {
	statusCode := "200"
	grossAmount := order.Amount.StringFixed(2)
	input := order.Id.String() + statusCode + grossAmount + testServerKey
	return &dto.MidtransWebhookRequest{
		TransactionStatus: status,
		OrderId:           order.Id.String(),
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      fmt.Sprintf("%x", sha512.Sum512([]byte(input))),
	}
}

func fetchOrder(t *testing.T, factory unitofwork.RepositoryFactory, orderId uuid.UUID) *entity.TopupOrder {
	t.Helper()

	uow := factory.NewUnitOfWork(context.Background())
	order, err := uow.TopupOrderRepository().FindOne(context.Background(), specification.ByID{ID: orderId})
	require.NoError(t, err)
	require.NotNil(t, order)
	return order
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	order := seedTopupOrder(t, factory, user.Id, 500)
	svc := newPaymentService(t, factory)

	req := webhookFor(order, "settlement")
	req.SignatureKey = "deadbeef"

	err := svc.HandleNotification(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrInvalidSignature)

	assert.True(t, decimal.Zero.Equal(currentBalance(t, factory, user.Id)))
	assert.Empty(t, ledgerRows(t, factory, user.Id))
}

func TestHandleNotificationSettlesOrder(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	order := seedTopupOrder(t, factory, user.Id, 500)
	svc := newPaymentService(t, factory)

	err := svc.HandleNotification(context.Background(), webhookFor(order, "settlement"))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(500).Equal(currentBalance(t, factory, user.Id)))

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeTopup, rows[0].TransactionType)
	require.NotNil(t, rows[0].GatewayRef)
	assert.Equal(t, order.Id.String(), *rows[0].GatewayRef)

	assert.Equal(t, entity.TopupOrderStatusSettled, fetchOrder(t, factory, order.Id).Status)
}

func TestHandleNotificationCreditsBonusTier(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	// 2500 sits in the 15-bonus-credit tier, worth Rs 375.
	order := seedTopupOrder(t, factory, user.Id, 2500)
	svc := newPaymentService(t, factory)

	err := svc.HandleNotification(context.Background(), webhookFor(order, "capture"))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(2875).Equal(currentBalance(t, factory, user.Id)))

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, 2)

	byType := map[entity.TransactionType]*entity.WalletTransaction{}
	for _, row := range rows {
		byType[row.TransactionType] = row
	}

	topup := byType[entity.TransactionTypeTopup]
	require.NotNil(t, topup)
	assert.True(t, decimal.NewFromInt(2500).Equal(topup.Amount))

	bonus := byType[entity.TransactionTypeBonus]
	require.NotNil(t, bonus)
	assert.True(t, decimal.NewFromInt(375).Equal(bonus.Amount))
	require.NotNil(t, bonus.GatewayRef)
	assert.Equal(t, order.Id.String()+":bonus", *bonus.GatewayRef)
}

func TestHandleNotificationThousandTopup(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(200))
	// 1000 earns 5 bonus credits, worth Rs 125.
	order := seedTopupOrder(t, factory, user.Id, 1000)
	svc := newPaymentService(t, factory)

	err := svc.HandleNotification(context.Background(), webhookFor(order, "settlement"))
	require.NoError(t, err)

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, 2)
	assert.True(t, decimal.NewFromInt(1325).Equal(currentBalance(t, factory, user.Id)))

	types := []entity.TransactionType{rows[0].TransactionType, rows[1].TransactionType}
	assert.Contains(t, types, entity.TransactionTypeTopup)
	assert.Contains(t, types, entity.TransactionTypeBonus)
}

func TestHandleNotificationReplayIsNoOp(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	order := seedTopupOrder(t, factory, user.Id, 1000)
	svc := newPaymentService(t, factory)

	req := webhookFor(order, "settlement")
	require.NoError(t, svc.HandleNotification(context.Background(), req))

	balanceAfterFirst := currentBalance(t, factory, user.Id)
	rowsAfterFirst := len(ledgerRows(t, factory, user.Id))

	// Gateways redeliver; the second delivery must not double-credit.
	require.NoError(t, svc.HandleNotification(context.Background(), req))

	assert.True(t, balanceAfterFirst.Equal(currentBalance(t, factory, user.Id)))
	assert.Len(t, ledgerRows(t, factory, user.Id), rowsAfterFirst)
	assert.Equal(t, entity.TopupOrderStatusSettled, fetchOrder(t, factory, order.Id).Status)
}

func TestHandleNotificationExpireFailsOrder(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	order := seedTopupOrder(t, factory, user.Id, 500)
	svc := newPaymentService(t, factory)

	err := svc.HandleNotification(context.Background(), webhookFor(order, "expire"))
	require.NoError(t, err)

	assert.Equal(t, entity.TopupOrderStatusFailed, fetchOrder(t, factory, order.Id).Status)
	assert.True(t, decimal.Zero.Equal(currentBalance(t, factory, user.Id)))
	assert.Empty(t, ledgerRows(t, factory, user.Id))
}

func TestHandleNotificationPendingIsIgnored(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	order := seedTopupOrder(t, factory, user.Id, 500)
	svc := newPaymentService(t, factory)

	err := svc.HandleNotification(context.Background(), webhookFor(order, "pending"))
	require.NoError(t, err)

	assert.Equal(t, entity.TopupOrderStatusPending, fetchOrder(t, factory, order.Id).Status)
	assert.Empty(t, ledgerRows(t, factory, user.Id))
}

func TestGetTopupOptions(t *testing.T) {
	factory, _ := newTestFactory(t)
	svc := newPaymentService(t, factory)

	options := svc.GetTopupOptions(context.Background())
	require.Len(t, options, 4)

	// Largest preset lands in the top bonus tier.
	last := options[len(options)-1]
	assert.True(t, decimal.NewFromInt(5000).Equal(last.Amount))
	assert.Equal(t, 200, last.BaseCredits)
	assert.Equal(t, 50, last.BonusCredits)
}

func TestCreateTopupRejectsTinyAmount(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	svc := newPaymentService(t, factory)

	_, err := svc.CreateTopup(context.Background(), user.Id, &dto.TopupRequest{
		Amount: decimal.NewFromInt(10),
	})
	assert.Error(t, err)

	_, err = svc.CreateTopup(context.Background(), user.Id, &dto.TopupRequest{
		Amount: decimal.NewFromFloat(100.5),
	})
	assert.Error(t, err)
}
