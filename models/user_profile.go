package models

import (
	"time"

	"gorm.io/gorm"
)

// Rank labels derived from level (and ascension). Stored on the profile so
// readers never recompute them — services keep rank and level in sync.
type Rank string

const (
	RankNovice     Rank = "novice"
	RankAdventurer Rank = "adventurer"
	RankChampion   Rank = "champion"
	RankPaladin    Rank = "paladin"
	RankLegendary  Rank = "legendary"
	RankDivine     Rank = "divine"
)

// GuidanceType categorizes the daily oracle message.
type GuidanceType string

const (
	GuidanceAlert    GuidanceType = "alert"
	GuidancePraise   GuidanceType = "praise"
	GuidanceStrategy GuidanceType = "strategy"
)

// UserProfile is the single aggregate for a player's progression state
// (denormalized for performance — one row per user, partial updates only).
// All refresh timestamps are milliseconds since epoch, 0 = never.
type UserProfile struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // id from the gateway's identity provider

	// Core progression
	Level      int   `json:"level" gorm:"default:1"`
	CurrentXP  int64 `json:"current_xp" gorm:"default:0"` // always < xpThreshold(Level)
	Rank       Rank  `json:"rank" gorm:"type:varchar(16);default:'novice'"`
	IsAscended bool  `json:"is_ascended" gorm:"default:false"` // one-way; pins rank to divine

	// Unlock currencies
	SkillPoints       int            `json:"skill_points" gorm:"default:0"`
	ParagonPoints     int            `json:"paragon_points" gorm:"default:0"`
	UnlockedSkillIDs  []string       `json:"unlocked_skill_ids" gorm:"type:jsonb;serializer:json"`
	ParagonPerkLevels map[string]int `json:"paragon_perk_levels" gorm:"type:jsonb;serializer:json"`

	// Per-category completed-mission counters, feed skill prerequisites
	CategoryMissionCounts map[string]int `json:"category_mission_counts" gorm:"type:jsonb;serializer:json"`

	// Recurring-content refresh stamps (ms since epoch, 0 = never)
	LastDailyMissionRefresh     int64 `json:"last_daily_mission_refresh" gorm:"default:0"`
	LastWeeklyMissionRefresh    int64 `json:"last_weekly_mission_refresh" gorm:"default:0"`
	LastMilestoneMissionRefresh int64 `json:"last_milestone_mission_refresh" gorm:"default:0"`

	// Lesson quota (max 3 per UTC day)
	LessonsCompletedToday  int   `json:"lessons_completed_today" gorm:"default:0"`
	LastLessonCompletionAt int64 `json:"last_lesson_completion_at" gorm:"default:0"`

	// Streak: consecutive UTC days with the full daily mission set cleared
	StreakDays           int   `json:"streak_days" gorm:"default:0"`
	LastDailyFullClearAt int64 `json:"last_daily_full_clear_at" gorm:"default:0"`

	// Entitlements
	HasSubscription bool     `json:"has_subscription" gorm:"default:false"`
	ActiveModules   []string `json:"active_modules" gorm:"type:jsonb;serializer:json"`

	// Onboarding outcome
	OnboardingCompleted bool           `json:"onboarding_completed" gorm:"default:false"`
	Archetype           string         `json:"archetype"`
	LifeWheelScores     map[string]int `json:"life_wheel_scores" gorm:"type:jsonb;serializer:json"` // 12 categories, 0–10 each

	AvatarURL string `json:"avatar_url" gorm:"type:text"`

	// Daily guidance ("oracle"): regenerated at most once per UTC day
	GuidanceDate    int64        `json:"guidance_date" gorm:"default:0"`
	GuidanceContent string       `json:"guidance_content" gorm:"type:text"`
	GuidanceKind    GuidanceType `json:"guidance_kind" gorm:"type:varchar(16)"`
	GuidanceFromAI  bool         `json:"guidance_from_ai" gorm:"default:false"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`
	LastRankUpAt  *time.Time `json:"last_rank_up_at,omitempty"`
	AscendedAt    *time.Time `json:"ascended_at,omitempty"`

	Timestamps
}

// HasModule reports whether a protection module is active on the profile.
func (p *UserProfile) HasModule(moduleID string) bool {
	for _, m := range p.ActiveModules {
		if m == moduleID {
			return true
		}
	}
	return false
}

// HasSkill reports whether a skill id is already unlocked.
func (p *UserProfile) HasSkill(skillID string) bool {
	for _, s := range p.UnlockedSkillIDs {
		if s == skillID {
			return true
		}
	}
	return false
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
