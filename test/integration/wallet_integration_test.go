package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/model"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletPostgres(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DB_DSN not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	require.NoError(t, gormDB.AutoMigrate(
		&model.User{},
		&model.UserProvider{},
		&model.WalletTransaction{},
		&model.TopupOrder{},
		&model.GeneratedImage{},
		&model.Notification{},
	))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	ctx := context.Background()

	sqlDB, _ := gormDB.DB()
	require.NoError(t, sqlDB.Ping())

	user := &entity.User{
		Id:            uuid.New(),
		Email:         "wallet-integration-" + uuid.NewString() + "@example.com",
		FullName:      "Integration Test User",
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusActive,
		WalletBalance: decimal.Zero,
	}
	uow := uowFactory.NewUnitOfWork(ctx)
	require.NoError(t, uow.UserRepository().Create(ctx, user))

	t.Run("Credit And Debit In Transaction", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		newBalance, err := uow.UserRepository().CreditBalance(ctx, user.Id, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(newBalance))

		ref := "integration-" + uuid.NewString()
		tx := &entity.WalletTransaction{
			Id:              uuid.New(),
			UserId:          user.Id,
			TransactionType: entity.TransactionTypeTopup,
			Amount:          decimal.NewFromInt(100),
			BalanceAfter:    newBalance,
			GatewayRef:      &ref,
			Description:     "integration topup",
		}
		require.NoError(t, uow.WalletTransactionRepository().Create(ctx, tx))

		newBalance, err = uow.UserRepository().DebitBalance(ctx, user.Id, decimal.NewFromInt(25))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(75).Equal(newBalance))

		require.NoError(t, uow.Commit())
		t.Log("Credit and debit committed together")
	})

	t.Run("Debit Refuses Overdraw", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		_, err := uow.UserRepository().DebitBalance(ctx, user.Id, decimal.NewFromInt(100000))
		assert.Error(t, err)
	})

	t.Run("Gateway Ref Is Unique", func(t *testing.T) {
		ref := "dup-" + uuid.NewString()
		mkTx := func() *entity.WalletTransaction {
			return &entity.WalletTransaction{
				Id:              uuid.New(),
				UserId:          user.Id,
				TransactionType: entity.TransactionTypeTopup,
				Amount:          decimal.NewFromInt(10),
				BalanceAfter:    decimal.NewFromInt(10),
				GatewayRef:      &ref,
				Description:     "dup check",
			}
		}

		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.WalletTransactionRepository().Create(ctx, mkTx()))

		err := uow.WalletTransactionRepository().Create(ctx, mkTx())
		assert.Error(t, err, "second insert with the same gateway ref must be rejected")
	})
}
