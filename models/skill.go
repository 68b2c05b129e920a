package models

// SkillDef is a static skill-tree node. Unlocking costs skill points and
// requires a minimum number of completed missions in the skill's category.
type SkillDef struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	Cost               int    `json:"cost"` // skill points
	MissionCategoryReq string `json:"mission_category_req"`
	MissionCountReq    int    `json:"mission_count_req"`
}

var skillList = []SkillDef{
	{ID: "iron_body", Name: "Iron Body", Description: "Foundation of physical discipline.", Category: CategoryHealth, Cost: 1, MissionCategoryReq: CategoryHealth, MissionCountReq: 0},
	{ID: "marathon_mind", Name: "Marathon Mind", Description: "Endurance training unlocked.", Category: CategoryHealth, Cost: 2, MissionCategoryReq: CategoryHealth, MissionCountReq: 10},
	{ID: "deep_focus", Name: "Deep Focus", Description: "Sustain attention for long blocks.", Category: CategoryMind, Cost: 1, MissionCategoryReq: CategoryMind, MissionCountReq: 0},
	{ID: "speed_reader", Name: "Speed Reader", Description: "Double your reading throughput.", Category: CategoryMind, Cost: 2, MissionCategoryReq: CategoryMind, MissionCountReq: 8},
	{ID: "negotiator", Name: "Negotiator", Description: "Ask for what you are worth.", Category: CategoryCareer, Cost: 2, MissionCategoryReq: CategoryCareer, MissionCountReq: 5},
	{ID: "ladder_climber", Name: "Ladder Climber", Description: "Visible progress at work.", Category: CategoryCareer, Cost: 3, MissionCategoryReq: CategoryCareer, MissionCountReq: 15},
	{ID: "budget_keeper", Name: "Budget Keeper", Description: "Every expense accounted for.", Category: CategoryFinances, Cost: 1, MissionCategoryReq: CategoryFinances, MissionCountReq: 0},
	{ID: "investor", Name: "Investor", Description: "Money working while you sleep.", Category: CategoryFinances, Cost: 3, MissionCategoryReq: CategoryFinances, MissionCountReq: 12},
	{ID: "heartfelt", Name: "Heartfelt", Description: "Show up for the people who matter.", Category: CategoryRelationships, Cost: 1, MissionCategoryReq: CategoryRelationships, MissionCountReq: 0},
	{ID: "inner_calm", Name: "Inner Calm", Description: "A daily stillness practice.", Category: CategorySpirit, Cost: 2, MissionCategoryReq: CategorySpirit, MissionCountReq: 6},
	{ID: "storm_proof", Name: "Storm Proof", Description: "Feelings named, not obeyed.", Category: CategoryEmotions, Cost: 2, MissionCategoryReq: CategoryEmotions, MissionCountReq: 6},
	{ID: "maker", Name: "Maker", Description: "Create something weekly.", Category: CategoryCreativity, Cost: 2, MissionCategoryReq: CategoryCreativity, MissionCountReq: 4},
}

// SkillCatalog indexes skills by id (O(1) lookup, built once at startup).
var SkillCatalog = func() map[string]SkillDef {
	m := make(map[string]SkillDef, len(skillList))
	for _, s := range skillList {
		m[s.ID] = s
	}
	return m
}()

// SkillList returns the catalog in definition order for listing endpoints.
func SkillList() []SkillDef {
	return skillList
}
