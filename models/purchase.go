package models

import "time"

// PaymentProvider identifies which gateway a purchase came through.
type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "stripe"
	ProviderEduzz  PaymentProvider = "eduzz"
)

// Grant kinds applied on confirmed payment.
const (
	GrantSubscription = "subscription"
	GrantModulePrefix = "module:" // e.g. "module:guardian"
)

// PurchaseRecord is the webhook idempotency ledger. SessionID is the dedup
// key: a replayed webhook for the same session inserts nothing and grants
// nothing a second time.
type PurchaseRecord struct {
	ID             string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Provider       PaymentProvider `gorm:"type:varchar(16);not null" json:"provider"`
	SessionID      string          `gorm:"uniqueIndex;not null" json:"session_id"`
	ExternalUserID string          `gorm:"index;not null" json:"external_user_id"`
	Grant          string          `gorm:"not null" json:"grant"` // "subscription" or "module:<id>"
	AmountCents    int64           `json:"amount_cents"`
	ProcessedAt    time.Time       `gorm:"autoCreateTime" json:"processed_at"`
}

// ProtectionModuleDef is an independently purchasable content module with its
// own guild channel and dashboard widget.
type ProtectionModuleDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

var protectionModuleList = []ProtectionModuleDef{
	{ID: "guardian", Name: "Guardian Protocol", Description: "Physical resilience track with exclusive guild channel.", PriceCents: 4900},
	{ID: "sentinel", Name: "Sentinel Protocol", Description: "Financial defense track and net-worth widget.", PriceCents: 4900},
	{ID: "warden", Name: "Warden Protocol", Description: "Focus and digital-hygiene track.", PriceCents: 3900},
}

// ProtectionModuleCatalog indexes modules by id.
var ProtectionModuleCatalog = func() map[string]ProtectionModuleDef {
	m := make(map[string]ProtectionModuleDef, len(protectionModuleList))
	for _, pm := range protectionModuleList {
		m[pm.ID] = pm
	}
	return m
}()

// ProtectionModuleList returns the catalog in definition order.
func ProtectionModuleList() []ProtectionModuleDef {
	return protectionModuleList
}
