package services

import (
	"testing"

	"life-quest-system/models"
)

func TestCanAccessSubscriptionGated(t *testing.T) {
	free := &models.UserProfile{OnboardingCompleted: true}
	premium := &models.UserProfile{OnboardingCompleted: true, HasSubscription: true}

	for _, feature := range []string{FeatureMentorChat, FeatureAIMissions, FeatureAIGuidance, FeatureJournalAnalysis} {
		if ok, err := CanAccess(free, feature); err != nil || ok {
			t.Errorf("free profile CanAccess(%s) = %t, %v; want false, nil", feature, ok, err)
		}
		if ok, err := CanAccess(premium, feature); err != nil || !ok {
			t.Errorf("premium profile CanAccess(%s) = %t, %v; want true, nil", feature, ok, err)
		}
	}
}

func TestCanAccessOnboardingGated(t *testing.T) {
	fresh := &models.UserProfile{}
	onboarded := &models.UserProfile{OnboardingCompleted: true}

	for _, feature := range []string{FeatureMissions, FeatureSkillTree, FeatureLessons, FeatureGuildFeed} {
		if ok, _ := CanAccess(fresh, feature); ok {
			t.Errorf("pre-onboarding profile granted %s", feature)
		}
		if ok, _ := CanAccess(onboarded, feature); !ok {
			t.Errorf("onboarded profile denied %s", feature)
		}
	}
}

func TestCanAccessLessonCap(t *testing.T) {
	p := &models.UserProfile{OnboardingCompleted: true}

	for p.LessonsCompletedToday = 0; p.LessonsCompletedToday < DailyLessonCap; p.LessonsCompletedToday++ {
		if ok, _ := CanAccess(p, FeatureLessonComplete); !ok {
			t.Fatalf("denied at %d/%d lessons", p.LessonsCompletedToday, DailyLessonCap)
		}
	}
	if ok, _ := CanAccess(p, FeatureLessonComplete); ok {
		t.Errorf("granted at cap (%d lessons today)", p.LessonsCompletedToday)
	}
}

func TestLessonCapSecondWind(t *testing.T) {
	p := &models.UserProfile{
		OnboardingCompleted: true,
		ParagonPerkLevels:   map[string]int{"second_wind": 2},
	}
	if got := LessonCap(p); got != DailyLessonCap+2 {
		t.Fatalf("LessonCap = %d, want %d", got, DailyLessonCap+2)
	}

	p.LessonsCompletedToday = DailyLessonCap
	if ok, _ := CanAccess(p, FeatureLessonComplete); !ok {
		t.Error("denied at base cap despite second_wind extension")
	}
	p.LessonsCompletedToday = DailyLessonCap + 2
	if ok, _ := CanAccess(p, FeatureLessonComplete); ok {
		t.Error("granted past the extended cap")
	}
}

func TestCanAccessModules(t *testing.T) {
	p := &models.UserProfile{OnboardingCompleted: true, ActiveModules: []string{"guardian"}}

	if ok, err := CanAccess(p, "module:guardian"); err != nil || !ok {
		t.Errorf("owned module denied: %t, %v", ok, err)
	}
	if ok, err := CanAccess(p, "module:sentinel"); err != nil || ok {
		t.Errorf("unowned module granted: %t, %v", ok, err)
	}
	if _, err := CanAccess(p, "module:bogus"); err != ErrUnknownFeature {
		t.Errorf("unknown module err = %v, want ErrUnknownFeature", err)
	}
}

func TestCanAccessUnknownFeature(t *testing.T) {
	p := &models.UserProfile{OnboardingCompleted: true, HasSubscription: true}
	if _, err := CanAccess(p, "teleportation"); err != ErrUnknownFeature {
		t.Errorf("err = %v, want ErrUnknownFeature", err)
	}
}

func TestCanAccessIsPure(t *testing.T) {
	p := &models.UserProfile{OnboardingCompleted: true, LessonsCompletedToday: 1}
	before := *p
	for i := 0; i < 3; i++ {
		if _, err := CanAccess(p, FeatureLessonComplete); err != nil {
			t.Fatalf("CanAccess failed: %v", err)
		}
	}
	if p.LessonsCompletedToday != before.LessonsCompletedToday || p.OnboardingCompleted != before.OnboardingCompleted {
		t.Error("CanAccess mutated the profile")
	}
}
