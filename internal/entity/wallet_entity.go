package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeTopup  TransactionType = "topup"
	TransactionTypeDeduct TransactionType = "deduct"
	TransactionTypeBonus  TransactionType = "bonus"
)

// SignedAmount returns the amount with the sign implied by the transaction
// type. Summing signed amounts over a user's journal in creation order must
// reproduce the current wallet balance.
func (t TransactionType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeDeduct {
		return amount.Neg()
	}
	return amount
}

type WalletTransaction struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	TransactionType TransactionType
	Amount          decimal.Decimal
	BalanceAfter    decimal.Decimal
	GatewayRef      *string
	Description     string
	CreatedAt       time.Time
}

type TopupOrderStatus string

const (
	TopupOrderStatusPending TopupOrderStatus = "pending"
	TopupOrderStatusSettled TopupOrderStatus = "settled"
	TopupOrderStatusFailed  TopupOrderStatus = "failed"
)

type TopupOrder struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Amount       decimal.Decimal
	BaseCredits  int
	BonusCredits int
	Status       TopupOrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
