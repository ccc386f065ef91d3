package service

import (
	"context"
	"errors"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
	UpdateAutoRecharge(ctx context.Context, userId uuid.UUID, req *dto.UpdateAutoRechargeRequest) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := findUserOrFail(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		Id:                    user.Id,
		Email:                 user.Email,
		FullName:              user.FullName,
		AvatarURL:             user.AvatarURL,
		WalletBalance:         user.WalletBalance,
		AutoRechargeEnabled:   user.AutoRechargeEnabled,
		AutoRechargeThreshold: user.AutoRechargeThreshold,
		AutoRechargeAmount:    user.AutoRechargeAmount,
	}, nil
}

func (s *userService) UpdateAutoRecharge(ctx context.Context, userId uuid.UUID, req *dto.UpdateAutoRechargeRequest) error {
	if req.Enabled {
		if !req.Threshold.IsPositive() || !req.Amount.IsPositive() {
			return errors.New("threshold and amount must be positive when auto recharge is enabled")
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := findUserOrFail(ctx, uow, userId); err != nil {
		return err
	}

	return uow.UserRepository().UpdateAutoRecharge(ctx, userId, req.Enabled, req.Threshold, req.Amount)
}
