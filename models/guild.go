package models

// GuildPost is a social feed entry. Reading and posting are core gameplay;
// module-exclusive channels are gated by the entitlement service.
type GuildPost struct {
	ID             string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string   `gorm:"index;not null" json:"external_user_id"`
	AuthorName     string   `json:"author_name"`
	Slug           string   `gorm:"uniqueIndex;not null" json:"slug"`
	Channel        string   `gorm:"type:varchar(24);default:'general';index" json:"channel"` // "general" or a protection-module id
	Body           string   `gorm:"type:text;not null" json:"body"`
	Likes          int      `gorm:"default:0" json:"likes"`
	LikedBy        []string `gorm:"type:jsonb;serializer:json" json:"-"`

	Timestamps
}

// MemberProfile mirrors display data from the profile service so the feed can
// render author names without a cross-service call per post. Kept fresh by the
// member directory sync worker.
type MemberProfile struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Username       string `gorm:"index" json:"username"`
	Email          string `json:"email"`
	AvatarURL      string `gorm:"type:text" json:"avatar_url"`

	Timestamps
}
