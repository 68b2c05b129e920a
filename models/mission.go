package models

// MissionType distinguishes the three refresh cadences.
type MissionType string

const (
	MissionDaily     MissionType = "daily"
	MissionWeekly    MissionType = "weekly"
	MissionMilestone MissionType = "milestone"
)

// Life-wheel categories. Missions, skills and lessons are all keyed on these.
const (
	CategoryHealth        = "health"
	CategoryMind          = "mind"
	CategoryCareer        = "career"
	CategoryFinances      = "finances"
	CategoryRelationships = "relationships"
	CategoryFamily        = "family"
	CategoryLeisure       = "leisure"
	CategorySpirit        = "spirit"
	CategoryEmotions      = "emotions"
	CategoryCreativity    = "creativity"
	CategoryEnvironment   = "environment"
	CategoryPurpose       = "purpose"
)

// LifeWheelCategories is the fixed 12-category wheel scored at onboarding.
var LifeWheelCategories = []string{
	CategoryHealth, CategoryMind, CategoryCareer, CategoryFinances,
	CategoryRelationships, CategoryFamily, CategoryLeisure, CategorySpirit,
	CategoryEmotions, CategoryCreativity, CategoryEnvironment, CategoryPurpose,
}

// Mission is one actionable quest owned by a profile. Daily and weekly
// missions are replaced wholesale when their window rolls over; milestone
// missions follow a rolling 30-day window.
type Mission struct {
	ID             string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string      `gorm:"index;not null" json:"external_user_id"`
	Title          string      `gorm:"not null" json:"title"`
	XP             int64       `gorm:"not null" json:"xp"` // always > 0
	Completed      bool        `gorm:"default:false" json:"completed"`
	Type           MissionType `gorm:"type:varchar(16);not null;index" json:"type"`
	Category       string      `gorm:"type:varchar(24);not null" json:"category"`
	FromAI         bool        `gorm:"default:false" json:"from_ai"` // false = static catalog fallback

	Timestamps
}

// MissionTemplate is a static catalog entry used whenever the content
// generator is unavailable or the user has no subscription.
type MissionTemplate struct {
	Title    string
	XP       int64
	Category string
}

// Fallback mission catalogs, keyed by mission type. Kept deliberately generic:
// AI-generated missions personalize these per archetype and level.
var FallbackMissionTemplates = map[MissionType][]MissionTemplate{
	MissionDaily: {
		{Title: "Drink two liters of water", XP: 25, Category: CategoryHealth},
		{Title: "Read ten pages of a book", XP: 25, Category: CategoryMind},
		{Title: "Write down three things you are grateful for", XP: 20, Category: CategoryEmotions},
		{Title: "Take a 20-minute walk outside", XP: 30, Category: CategoryHealth},
		{Title: "Message someone you care about", XP: 20, Category: CategoryRelationships},
	},
	MissionWeekly: {
		{Title: "Review your budget and log every expense", XP: 120, Category: CategoryFinances},
		{Title: "Finish one chapter of a course or book", XP: 100, Category: CategoryMind},
		{Title: "Plan next week on Sunday evening", XP: 80, Category: CategoryCareer},
		{Title: "Declutter one room or workspace", XP: 90, Category: CategoryEnvironment},
	},
	MissionMilestone: {
		{Title: "Complete a 30-day exercise streak", XP: 500, Category: CategoryHealth},
		{Title: "Build a one-month emergency fund contribution", XP: 500, Category: CategoryFinances},
		{Title: "Ship a personal project you have postponed", XP: 600, Category: CategoryPurpose},
	},
}
