package models

// ArchetypeDef is a persona assigned from the onboarding life-wheel scores.
type ArchetypeDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Categories whose combined score drives assignment toward this archetype.
	FocusCategories []string `json:"focus_categories"`
}

var archetypeList = []ArchetypeDef{
	{ID: "warrior", Name: "Warrior", Description: "Leads with the body. Strongest where discipline is physical.", FocusCategories: []string{CategoryHealth, CategoryEnvironment}},
	{ID: "sage", Name: "Sage", Description: "Leads with the mind. Learns, reflects, systematizes.", FocusCategories: []string{CategoryMind, CategoryCreativity}},
	{ID: "sovereign", Name: "Sovereign", Description: "Leads with ambition. Builds career and wealth.", FocusCategories: []string{CategoryCareer, CategoryFinances}},
	{ID: "guardian", Name: "Guardian", Description: "Leads with the heart. Anchored in people.", FocusCategories: []string{CategoryRelationships, CategoryFamily}},
	{ID: "mystic", Name: "Mystic", Description: "Leads with meaning. Purpose and inner life first.", FocusCategories: []string{CategorySpirit, CategoryPurpose, CategoryEmotions}},
}

// ArchetypeCatalog indexes archetypes by id.
var ArchetypeCatalog = func() map[string]ArchetypeDef {
	m := make(map[string]ArchetypeDef, len(archetypeList))
	for _, a := range archetypeList {
		m[a.ID] = a
	}
	return m
}()

// DetermineArchetype picks the archetype whose focus categories score lowest
// on the wheel: the product assigns the persona with the most room to grow.
// Ties break on catalog order. Defaults to the first archetype when scores
// are empty.
func DetermineArchetype(scores map[string]int) ArchetypeDef {
	best := archetypeList[0]
	bestAvg := -1.0
	for _, a := range archetypeList {
		total, n := 0, 0
		for _, c := range a.FocusCategories {
			if v, ok := scores[c]; ok {
				total += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		avg := float64(total) / float64(n)
		if bestAvg < 0 || avg < bestAvg {
			best = a
			bestAvg = avg
		}
	}
	return best
}
