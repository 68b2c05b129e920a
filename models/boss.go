package models

// BossKind is the reset cadence of a boss encounter.
type BossKind string

const (
	BossDaily   BossKind = "daily"
	BossWeekly  BossKind = "weekly"
	BossMonthly BossKind = "monthly"
)

// BossEncounter is a per-profile boss instance. HP resets when the boss's
// window rolls over; the monthly boss grows 1.5x tougher after each defeat.
// Attacks are rate-limited per kind via LastAttackAt (ms since epoch,
// 0 = never).
type BossEncounter struct {
	ID             string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string   `gorm:"index:idx_boss_user_kind,unique;not null" json:"external_user_id"`
	Kind           BossKind `gorm:"index:idx_boss_user_kind,unique;type:varchar(16);not null" json:"kind"`
	Name           string   `gorm:"not null" json:"name"`
	CurrentHP      int64    `gorm:"not null" json:"current_hp"`
	MaxHP          int64    `gorm:"not null" json:"max_hp"`
	Defeated       bool     `gorm:"default:false" json:"defeated"`
	LastAttackAt   int64    `gorm:"default:0" json:"last_attack_at"`
	LastResetAt    int64    `gorm:"default:0" json:"last_reset_at"`

	Timestamps
}

// BossDef is the static definition a fresh encounter is seeded from.
type BossDef struct {
	Kind     BossKind
	Name     string
	BaseHP   int64
	RewardXP int64 // granted on defeat
}

var BossDefs = map[BossKind]BossDef{
	BossDaily:   {Kind: BossDaily, Name: "Procrastination Imp", BaseHP: 100, RewardXP: 50},
	BossWeekly:  {Kind: BossWeekly, Name: "Doubt Hydra", BaseHP: 500, RewardXP: 250},
	BossMonthly: {Kind: BossMonthly, Name: "Comfort Zone Colossus", BaseHP: 2000, RewardXP: 1000},
}
