package services

import (
	"testing"

	"life-quest-system/models"
)

var testSkills = map[string]models.SkillDef{
	"iron_body":     {ID: "iron_body", Cost: 1, MissionCategoryReq: models.CategoryHealth, MissionCountReq: 0},
	"marathon_mind": {ID: "marathon_mind", Cost: 2, MissionCategoryReq: models.CategoryHealth, MissionCountReq: 10},
}

func TestUnlockSkill(t *testing.T) {
	p := &models.UserProfile{
		SkillPoints:           3,
		CategoryMissionCounts: map[string]int{models.CategoryHealth: 10},
	}

	if err := unlockSkill(p, "iron_body", testSkills); err != nil {
		t.Fatalf("unlockSkill failed: %v", err)
	}
	if p.SkillPoints != 2 {
		t.Errorf("skill points = %d, want 2", p.SkillPoints)
	}
	if !p.HasSkill("iron_body") {
		t.Error("skill not recorded as unlocked")
	}
}

func TestUnlockSkillAlreadyUnlocked(t *testing.T) {
	p := &models.UserProfile{
		SkillPoints:      5,
		UnlockedSkillIDs: []string{"iron_body"},
	}
	if err := unlockSkill(p, "iron_body", testSkills); err != ErrAlreadyUnlocked {
		t.Fatalf("err = %v, want ErrAlreadyUnlocked", err)
	}
	if p.SkillPoints != 5 {
		t.Errorf("failed unlock spent points: %d", p.SkillPoints)
	}
}

func TestUnlockSkillPrerequisiteNotMet(t *testing.T) {
	p := &models.UserProfile{
		SkillPoints:           5,
		CategoryMissionCounts: map[string]int{models.CategoryHealth: 9},
	}
	if err := unlockSkill(p, "marathon_mind", testSkills); err != ErrPrerequisiteNotMet {
		t.Fatalf("err = %v, want ErrPrerequisiteNotMet", err)
	}
	if p.SkillPoints != 5 || len(p.UnlockedSkillIDs) != 0 {
		t.Error("failed unlock mutated profile")
	}
}

func TestUnlockSkillInsufficientFunds(t *testing.T) {
	p := &models.UserProfile{
		SkillPoints:           1,
		CategoryMissionCounts: map[string]int{models.CategoryHealth: 10},
	}
	if err := unlockSkill(p, "marathon_mind", testSkills); err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if p.SkillPoints != 1 {
		t.Errorf("failed unlock spent points: %d", p.SkillPoints)
	}
}

func TestUnlockSkillUnknown(t *testing.T) {
	p := &models.UserProfile{SkillPoints: 5}
	if err := unlockSkill(p, "does_not_exist", testSkills); err == nil {
		t.Fatal("expected error for unknown skill id")
	}
}

var testPerks = map[string]models.ParagonPerkDef{
	"xp_surge": {ID: "xp_surge", MaxLevel: 3, BaseCost: 1, CostGrowth: 1},
}

func TestSpendParagonPointCostAtCurrentLevel(t *testing.T) {
	p := &models.UserProfile{ParagonPoints: 10}

	// Level 0→1 costs BaseCost(1), 1→2 costs 2, 2→3 costs 3.
	wantCosts := []int{1, 2, 3}
	for i, cost := range wantCosts {
		before := p.ParagonPoints
		if err := spendParagonPoint(p, "xp_surge", testPerks); err != nil {
			t.Fatalf("spend #%d failed: %v", i+1, err)
		}
		if spent := before - p.ParagonPoints; spent != cost {
			t.Errorf("spend #%d cost %d points, want %d", i+1, spent, cost)
		}
		if p.ParagonPerkLevels["xp_surge"] != i+1 {
			t.Errorf("perk level = %d after spend #%d, want %d", p.ParagonPerkLevels["xp_surge"], i+1, i+1)
		}
	}

	if err := spendParagonPoint(p, "xp_surge", testPerks); err != ErrMaxLevelReached {
		t.Fatalf("err at max level = %v, want ErrMaxLevelReached", err)
	}
}

func TestSpendParagonPointInsufficientFunds(t *testing.T) {
	p := &models.UserProfile{
		ParagonPoints:     1,
		ParagonPerkLevels: map[string]int{"xp_surge": 1}, // next level costs 2
	}
	if err := spendParagonPoint(p, "xp_surge", testPerks); err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if p.ParagonPoints != 1 || p.ParagonPerkLevels["xp_surge"] != 1 {
		t.Error("failed spend mutated profile")
	}
}

func TestSpendParagonPointUnknownPerk(t *testing.T) {
	p := &models.UserProfile{ParagonPoints: 10}
	if err := spendParagonPoint(p, "does_not_exist", testPerks); err == nil {
		t.Fatal("expected error for unknown perk id")
	}
}

func TestParagonCatalogCostAt(t *testing.T) {
	perk := models.ParagonPerkCatalog["boss_slayer"]
	if perk.ID == "" {
		t.Fatal("boss_slayer missing from catalog")
	}
	if got := perk.CostAt(0); got != perk.BaseCost {
		t.Errorf("CostAt(0) = %d, want base cost %d", got, perk.BaseCost)
	}
	if got := perk.CostAt(3); got != perk.BaseCost+3*perk.CostGrowth {
		t.Errorf("CostAt(3) = %d, want %d", got, perk.BaseCost+3*perk.CostGrowth)
	}
}
