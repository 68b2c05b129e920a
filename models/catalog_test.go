package models

import "testing"

func TestSkillCatalogIntegrity(t *testing.T) {
	if len(SkillCatalog) != len(skillList) {
		t.Fatalf("catalog has %d entries for %d skills — duplicate ids", len(SkillCatalog), len(skillList))
	}
	wheel := map[string]bool{}
	for _, c := range LifeWheelCategories {
		wheel[c] = true
	}
	for _, s := range skillList {
		if s.Cost <= 0 {
			t.Errorf("skill %s has non-positive cost %d", s.ID, s.Cost)
		}
		if s.MissionCountReq < 0 {
			t.Errorf("skill %s has negative mission requirement", s.ID)
		}
		if !wheel[s.MissionCategoryReq] {
			t.Errorf("skill %s requires unknown category %q", s.ID, s.MissionCategoryReq)
		}
	}
}

func TestParagonPerkCatalogIntegrity(t *testing.T) {
	if len(ParagonPerkCatalog) != len(paragonPerkList) {
		t.Fatal("duplicate paragon perk ids")
	}
	for _, p := range paragonPerkList {
		if p.MaxLevel <= 0 {
			t.Errorf("perk %s has non-positive max level", p.ID)
		}
		if p.BaseCost <= 0 {
			t.Errorf("perk %s has non-positive base cost", p.ID)
		}
		if p.CostGrowth < 0 {
			t.Errorf("perk %s has negative cost growth", p.ID)
		}
	}
}

func TestFallbackMissionTemplates(t *testing.T) {
	wheel := map[string]bool{}
	for _, c := range LifeWheelCategories {
		wheel[c] = true
	}
	for _, kind := range []MissionType{MissionDaily, MissionWeekly, MissionMilestone} {
		templates := FallbackMissionTemplates[kind]
		if len(templates) == 0 {
			t.Errorf("no fallback templates for %s missions", kind)
		}
		for _, tpl := range templates {
			if tpl.XP <= 0 {
				t.Errorf("%s template %q has non-positive XP", kind, tpl.Title)
			}
			if !wheel[tpl.Category] {
				t.Errorf("%s template %q has unknown category %q", kind, tpl.Title, tpl.Category)
			}
		}
	}
}

func TestBossDefs(t *testing.T) {
	for _, kind := range []BossKind{BossDaily, BossWeekly, BossMonthly} {
		def, ok := BossDefs[kind]
		if !ok {
			t.Fatalf("no boss definition for %s", kind)
		}
		if def.BaseHP <= 0 || def.RewardXP <= 0 {
			t.Errorf("boss %s (%s) has non-positive HP or reward", def.Name, kind)
		}
	}
}

func TestProtectionModuleCatalog(t *testing.T) {
	if len(ProtectionModuleCatalog) != len(protectionModuleList) {
		t.Fatal("duplicate protection module ids")
	}
	for _, m := range protectionModuleList {
		if m.PriceCents <= 0 {
			t.Errorf("module %s has non-positive price", m.ID)
		}
	}
}

func TestHasModuleAndHasSkill(t *testing.T) {
	p := &UserProfile{
		ActiveModules:    []string{"guardian"},
		UnlockedSkillIDs: []string{"iron_body"},
	}
	if !p.HasModule("guardian") || p.HasModule("sentinel") {
		t.Error("HasModule membership check wrong")
	}
	if !p.HasSkill("iron_body") || p.HasSkill("deep_focus") {
		t.Error("HasSkill membership check wrong")
	}
}
