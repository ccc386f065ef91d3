package mapper

import (
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/model"
)

type WalletMapper struct{}

func NewWalletMapper() *WalletMapper {
	return &WalletMapper{}
}

func (m *WalletMapper) ToEntity(t *model.WalletTransaction) *entity.WalletTransaction {
	if t == nil {
		return nil
	}
	return &entity.WalletTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		TransactionType: entity.TransactionType(t.TransactionType),
		Amount:          t.Amount,
		BalanceAfter:    t.BalanceAfter,
		GatewayRef:      t.GatewayRef,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *WalletMapper) ToEntities(ts []*model.WalletTransaction) []*entity.WalletTransaction {
	entities := make([]*entity.WalletTransaction, 0, len(ts))
	for _, t := range ts {
		entities = append(entities, m.ToEntity(t))
	}
	return entities
}

func (m *WalletMapper) ToModel(t *entity.WalletTransaction) *model.WalletTransaction {
	if t == nil {
		return nil
	}
	return &model.WalletTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		TransactionType: string(t.TransactionType),
		Amount:          t.Amount,
		BalanceAfter:    t.BalanceAfter,
		GatewayRef:      t.GatewayRef,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *WalletMapper) TopupOrderToEntity(o *model.TopupOrder) *entity.TopupOrder {
	if o == nil {
		return nil
	}
	return &entity.TopupOrder{
		Id:           o.Id,
		UserId:       o.UserId,
		Amount:       o.Amount,
		BaseCredits:  o.BaseCredits,
		BonusCredits: o.BonusCredits,
		Status:       entity.TopupOrderStatus(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (m *WalletMapper) TopupOrderToModel(o *entity.TopupOrder) *model.TopupOrder {
	if o == nil {
		return nil
	}
	return &model.TopupOrder{
		Id:           o.Id,
		UserId:       o.UserId,
		Amount:       o.Amount,
		BaseCredits:  o.BaseCredits,
		BonusCredits: o.BonusCredits,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
