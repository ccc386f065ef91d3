package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Wallet DTOs ---

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type TransactionResponse struct {
	Id              uuid.UUID       `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

type TransactionListResponse struct {
	Items []*TransactionResponse `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// --- Payment DTOs ---

type TopupRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type TopupOptionResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	BaseCredits  int             `json:"base_credits"`
	BonusCredits int             `json:"bonus_credits"`
}

type CheckoutResponse struct {
	OrderId         uuid.UUID `json:"order_id"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
	SnapToken       string    `json:"snap_token"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}
