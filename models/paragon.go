package models

// ParagonPerkDef is a post-ascension perk. Cost scales with the perk's
// current level, so it must be evaluated at the pre-increment level.
type ParagonPerkDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxLevel    int    `json:"max_level"`
	BaseCost    int    `json:"base_cost"`
	CostGrowth  int    `json:"cost_growth"` // added per owned level
}

// CostAt returns the paragon-point price of going from currentLevel to
// currentLevel+1.
func (p ParagonPerkDef) CostAt(currentLevel int) int {
	return p.BaseCost + currentLevel*p.CostGrowth
}

var paragonPerkList = []ParagonPerkDef{
	{ID: "xp_surge", Name: "XP Surge", Description: "+5% mission XP per level.", MaxLevel: 10, BaseCost: 1, CostGrowth: 1},
	{ID: "second_wind", Name: "Second Wind", Description: "One extra daily lesson per level.", MaxLevel: 3, BaseCost: 2, CostGrowth: 2},
	{ID: "boss_slayer", Name: "Boss Slayer", Description: "+10% boss damage per level.", MaxLevel: 5, BaseCost: 2, CostGrowth: 1},
	{ID: "oracle_sight", Name: "Oracle Sight", Description: "Sharper daily guidance.", MaxLevel: 1, BaseCost: 5, CostGrowth: 0},
}

// ParagonPerkCatalog indexes perks by id.
var ParagonPerkCatalog = func() map[string]ParagonPerkDef {
	m := make(map[string]ParagonPerkDef, len(paragonPerkList))
	for _, p := range paragonPerkList {
		m[p.ID] = p
	}
	return m
}()

// ParagonPerkList returns the catalog in definition order.
func ParagonPerkList() []ParagonPerkDef {
	return paragonPerkList
}
