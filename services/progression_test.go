package services

import (
	"testing"

	"life-quest-system/models"
)

func TestXPThresholdCurve(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 100},
		{2, 282},  // floor(100 * 2^1.5)
		{4, 800},  // 4^1.5 = 8
		{9, 2700}, // 9^1.5 = 27
		{0, 100},  // clamped to level 1
	}
	for _, tc := range cases {
		if got := xpThreshold(tc.level); got != tc.want {
			t.Errorf("xpThreshold(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestApplyExperienceSingleLevelUp(t *testing.T) {
	p := &models.UserProfile{Level: 1, CurrentXP: 90}

	gained, err := applyExperience(p, 20)
	if err != nil {
		t.Fatalf("applyExperience failed: %v", err)
	}
	if gained != 1 {
		t.Errorf("levels gained = %d, want 1", gained)
	}
	if p.Level != 2 || p.CurrentXP != 10 || p.SkillPoints != 1 {
		t.Errorf("got level=%d xp=%d sp=%d, want level=2 xp=10 sp=1", p.Level, p.CurrentXP, p.SkillPoints)
	}
}

func TestApplyExperienceMultiLevelUp(t *testing.T) {
	p := &models.UserProfile{Level: 1, CurrentXP: 0}

	// 100 (L1) + 282 (L2) = 382 clears two levels with 18 left over
	gained, err := applyExperience(p, 400)
	if err != nil {
		t.Fatalf("applyExperience failed: %v", err)
	}
	if gained != 2 {
		t.Errorf("levels gained = %d, want 2", gained)
	}
	if p.Level != 3 || p.CurrentXP != 18 || p.SkillPoints != 2 {
		t.Errorf("got level=%d xp=%d sp=%d, want level=3 xp=18 sp=2", p.Level, p.CurrentXP, p.SkillPoints)
	}
}

func TestApplyExperienceInvariant(t *testing.T) {
	p := &models.UserProfile{Level: 1}
	amounts := []int64{1, 99, 100, 250, 37, 1000, 12345, 3, 500}

	for _, amt := range amounts {
		if _, err := applyExperience(p, amt); err != nil {
			t.Fatalf("applyExperience(%d) failed: %v", amt, err)
		}
		if p.CurrentXP < 0 || p.CurrentXP >= xpThreshold(p.Level) {
			t.Fatalf("invariant violated after +%d: xp=%d level=%d threshold=%d",
				amt, p.CurrentXP, p.Level, xpThreshold(p.Level))
		}
	}
}

func TestApplyExperienceLevelMonotonic(t *testing.T) {
	p := &models.UserProfile{Level: 1}
	prev := p.Level
	for _, amt := range []int64{10, 500, 1, 9999, 42} {
		if _, err := applyExperience(p, amt); err != nil {
			t.Fatalf("applyExperience failed: %v", err)
		}
		if p.Level < prev {
			t.Fatalf("level decreased: %d → %d", prev, p.Level)
		}
		prev = p.Level
	}
}

func TestApplyExperienceRejectsNonPositive(t *testing.T) {
	p := &models.UserProfile{Level: 1, CurrentXP: 50}
	for _, amt := range []int64{0, -1, -100} {
		if _, err := applyExperience(p, amt); err != ErrInvalidAmount {
			t.Errorf("applyExperience(%d) err = %v, want ErrInvalidAmount", amt, err)
		}
	}
	if p.CurrentXP != 50 || p.Level != 1 {
		t.Errorf("failed call mutated profile: level=%d xp=%d", p.Level, p.CurrentXP)
	}
}

func TestApplyExperienceUpdatesRank(t *testing.T) {
	p := &models.UserProfile{Level: 4, CurrentXP: 0, Rank: models.RankNovice}
	// xpThreshold(4) = 800 → clears into level 5
	if _, err := applyExperience(p, 800); err != nil {
		t.Fatalf("applyExperience failed: %v", err)
	}
	if p.Level != 5 || p.Rank != models.RankAdventurer {
		t.Errorf("got level=%d rank=%s, want level=5 rank=adventurer", p.Level, p.Rank)
	}
	if p.LastRankUpAt == nil {
		t.Error("LastRankUpAt not stamped on rank-up")
	}
}

func TestDeductExperienceClampsAtZero(t *testing.T) {
	p := &models.UserProfile{Level: 7, CurrentXP: 30}

	if err := deductExperience(p, 100); err != nil {
		t.Fatalf("deductExperience failed: %v", err)
	}
	if p.CurrentXP != 0 {
		t.Errorf("xp = %d, want 0 (clamped)", p.CurrentXP)
	}
	if p.Level != 7 {
		t.Errorf("level changed to %d — penalties must never level down", p.Level)
	}

	if err := deductExperience(p, 0); err != ErrInvalidAmount {
		t.Errorf("deductExperience(0) err = %v, want ErrInvalidAmount", err)
	}
}

func TestResolveRankThresholds(t *testing.T) {
	cases := []struct {
		level    int
		ascended bool
		want     models.Rank
	}{
		{1, false, models.RankNovice},
		{4, false, models.RankNovice},
		{5, false, models.RankAdventurer},
		{14, false, models.RankAdventurer},
		{15, false, models.RankChampion},
		{29, false, models.RankChampion},
		{30, false, models.RankPaladin},
		{49, false, models.RankPaladin},
		{50, false, models.RankLegendary},
		{120, false, models.RankLegendary},
		{1, true, models.RankDivine},
		{50, true, models.RankDivine},
	}
	for _, tc := range cases {
		if got := resolveRank(tc.level, tc.ascended); got != tc.want {
			t.Errorf("resolveRank(%d, %t) = %s, want %s", tc.level, tc.ascended, got, tc.want)
		}
		// Pure: same inputs, same output
		if again := resolveRank(tc.level, tc.ascended); again != resolveRank(tc.level, tc.ascended) {
			t.Errorf("resolveRank(%d, %t) not deterministic", tc.level, tc.ascended)
		}
	}
}

func TestApplyAscension(t *testing.T) {
	p := &models.UserProfile{
		Level:            50,
		CurrentXP:        2500,
		SkillPoints:      7,
		ParagonPoints:    3,
		UnlockedSkillIDs: []string{"iron_body", "deep_focus"},
		Rank:             models.RankLegendary,
	}

	if err := applyAscension(p); err != nil {
		t.Fatalf("applyAscension failed: %v", err)
	}
	if p.ParagonPoints != 6 { // 3 + floor(2500/1000) + 1
		t.Errorf("paragon points = %d, want 6", p.ParagonPoints)
	}
	if p.Level != 1 || p.CurrentXP != 0 || p.SkillPoints != 0 {
		t.Errorf("reset incomplete: level=%d xp=%d sp=%d", p.Level, p.CurrentXP, p.SkillPoints)
	}
	if len(p.UnlockedSkillIDs) != 0 {
		t.Errorf("unlocked skills not wiped: %v", p.UnlockedSkillIDs)
	}
	if !p.IsAscended || p.Rank != models.RankDivine {
		t.Errorf("ascended=%t rank=%s, want true/divine", p.IsAscended, p.Rank)
	}
}

func TestApplyAscensionLevelTooLow(t *testing.T) {
	p := &models.UserProfile{Level: 49, CurrentXP: 5000, ParagonPoints: 1}

	if err := applyAscension(p); err != ErrLevelTooLow {
		t.Fatalf("err = %v, want ErrLevelTooLow", err)
	}
	if p.Level != 49 || p.CurrentXP != 5000 || p.ParagonPoints != 1 || p.IsAscended {
		t.Error("failed ascension mutated profile")
	}
}
