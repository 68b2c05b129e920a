package models

import "testing"

func TestDetermineArchetype(t *testing.T) {
	// Every category strong except the sovereign focus pair.
	scores := map[string]int{}
	for _, c := range LifeWheelCategories {
		scores[c] = 9
	}
	scores[CategoryCareer] = 2
	scores[CategoryFinances] = 3

	if got := DetermineArchetype(scores); got.ID != "sovereign" {
		t.Errorf("archetype = %s, want sovereign (lowest focus average)", got.ID)
	}
}

func TestDetermineArchetypeTieBreaksOnCatalogOrder(t *testing.T) {
	scores := map[string]int{}
	for _, c := range LifeWheelCategories {
		scores[c] = 5
	}
	// All averages equal — the first catalog entry wins.
	if got := DetermineArchetype(scores); got.ID != archetypeList[0].ID {
		t.Errorf("archetype = %s, want first catalog entry %s", got.ID, archetypeList[0].ID)
	}
}

func TestDetermineArchetypeEmptyScores(t *testing.T) {
	got := DetermineArchetype(nil)
	if got.ID != archetypeList[0].ID {
		t.Errorf("archetype = %s, want default %s", got.ID, archetypeList[0].ID)
	}
}

func TestArchetypeFocusCategoriesAreOnWheel(t *testing.T) {
	wheel := map[string]bool{}
	for _, c := range LifeWheelCategories {
		wheel[c] = true
	}
	for _, a := range archetypeList {
		if len(a.FocusCategories) == 0 {
			t.Errorf("archetype %s has no focus categories", a.ID)
		}
		for _, c := range a.FocusCategories {
			if !wheel[c] {
				t.Errorf("archetype %s focuses on unknown category %q", a.ID, c)
			}
		}
	}
}
