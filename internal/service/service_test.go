package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/model"
	"ai-photostudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserProvider{},
		&model.WalletTransaction{},
		&model.TopupOrder{},
		&model.GeneratedImage{},
		&model.Notification{},
	))

	return db
}

func newTestFactory(t *testing.T) (unitofwork.RepositoryFactory, *gorm.DB) {
	db := newTestDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}

func seedUser(t *testing.T, factory unitofwork.RepositoryFactory, balance decimal.Decimal) *entity.User {
	t.Helper()

	user := &entity.User{
		Id:            uuid.New(),
		Email:         fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		FullName:      "Test User",
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusActive,
		WalletBalance: balance,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

// uuidRef makes a unique gateway ref per iteration so the unique index on
// wallet_transactions.gateway_ref does not trip across test inserts.
func uuidRef(i int) string {
	return fmt.Sprintf("%s-%d", uuid.NewString(), i)
}

func ledgerRows(t *testing.T, factory unitofwork.RepositoryFactory, userId uuid.UUID) []*entity.WalletTransaction {
	t.Helper()

	uow := factory.NewUnitOfWork(context.Background())
	txs, err := uow.WalletTransactionRepository().FindAll(context.Background())
	require.NoError(t, err)

	var owned []*entity.WalletTransaction
	for _, tx := range txs {
		if tx.UserId == userId {
			owned = append(owned, tx)
		}
	}
	return owned
}

func currentBalance(t *testing.T, factory unitofwork.RepositoryFactory, userId uuid.UUID) decimal.Decimal {
	t.Helper()

	uow := factory.NewUnitOfWork(context.Background())
	balance, err := uow.UserRepository().GetBalance(context.Background(), userId)
	require.NoError(t, err)
	return balance
}
