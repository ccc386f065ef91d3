package specification

import "gorm.io/gorm"

// ByGatewayRef matches a ledger row by the payment processor's event
// identifier. Used for webhook idempotency checks.
type ByGatewayRef struct {
	Ref string
}

func (s ByGatewayRef) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("gateway_ref = ?", s.Ref)
}
