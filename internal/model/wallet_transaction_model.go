package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletTransaction is the append-only journal backing the wallet balance.
// Rows are never updated or deleted. GatewayRef carries the payment
// processor's event identifier; its unique index is what makes webhook
// replays a no-op even when two deliveries race.
type WalletTransaction struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_tx_user_created,priority:1"`
	TransactionType string          `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GatewayRef      *string         `gorm:"type:varchar(128);uniqueIndex"`
	Description     string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;not null;index:idx_wallet_tx_user_created,priority:2"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// TopupOrder records a checkout session created against the payment gateway.
// Its id doubles as the Midtrans order id, which is how webhook notifications
// are mapped back to a user and amount.
type TopupOrder struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BaseCredits  int             `gorm:"not null"`
	BonusCredits int             `gorm:"not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (TopupOrder) TableName() string {
	return "topup_orders"
}
