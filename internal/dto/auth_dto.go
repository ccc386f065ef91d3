package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth DTOs ---

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterResponse struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// --- Profile DTOs ---

type ProfileResponse struct {
	Id                    uuid.UUID       `json:"id"`
	Email                 string          `json:"email"`
	FullName              string          `json:"full_name"`
	AvatarURL             *string         `json:"avatar_url,omitempty"`
	WalletBalance         decimal.Decimal `json:"wallet_balance"`
	AutoRechargeEnabled   bool            `json:"auto_recharge_enabled"`
	AutoRechargeThreshold decimal.Decimal `json:"auto_recharge_threshold"`
	AutoRechargeAmount    decimal.Decimal `json:"auto_recharge_amount"`
}

type UpdateAutoRechargeRequest struct {
	Enabled   bool            `json:"enabled"`
	Threshold decimal.Decimal `json:"threshold" validate:"omitempty"`
	Amount    decimal.Decimal `json:"amount" validate:"omitempty"`
}
