package models

import "time"

// JournalEntry is a free-form reflection. Analysis is filled in on demand by
// the content generator and requires an active subscription.
type JournalEntry struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string     `gorm:"index;not null" json:"external_user_id"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	Analysis       string     `gorm:"type:text" json:"analysis,omitempty"`
	AnalyzedAt     *time.Time `json:"analyzed_at,omitempty"`

	Timestamps
}
