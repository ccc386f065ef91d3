package mapper

import (
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                    u.Id,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FullName:              u.FullName,
		Role:                  entity.UserRole(u.Role),
		Status:                entity.UserStatus(u.Status),
		EmailVerified:         u.EmailVerified,
		AvatarURL:             u.AvatarURL,
		WalletBalance:         u.WalletBalance,
		AutoRechargeEnabled:   u.AutoRechargeEnabled,
		AutoRechargeThreshold: u.AutoRechargeThreshold,
		AutoRechargeAmount:    u.AutoRechargeAmount,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(us []*model.User) []*entity.User {
	entities := make([]*entity.User, 0, len(us))
	for _, u := range us {
		entities = append(entities, m.ToEntity(u))
	}
	return entities
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                    u.Id,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FullName:              u.FullName,
		Role:                  string(u.Role),
		Status:                string(u.Status),
		EmailVerified:         u.EmailVerified,
		AvatarURL:             u.AvatarURL,
		WalletBalance:         u.WalletBalance,
		AutoRechargeEnabled:   u.AutoRechargeEnabled,
		AutoRechargeThreshold: u.AutoRechargeThreshold,
		AutoRechargeAmount:    u.AutoRechargeAmount,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (m *UserMapper) UserProviderToModel(p *entity.UserProvider) *model.UserProvider {
	if p == nil {
		return nil
	}
	return &model.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}
