package services

import (
	"strings"

	"life-quest-system/models"
)

// Feature ids checked through CanAccess. Module-exclusive content uses the
// "module:<id>" form.
const (
	FeatureMentorChat      = "mentor.chat"
	FeatureAIMissions      = "missions.ai"
	FeatureAIGuidance      = "guidance.ai"
	FeatureJournalAnalysis = "journal.analysis"
	FeatureMissions        = "missions"
	FeatureSkillTree       = "skills"
	FeatureLessons         = "lessons"
	FeatureLessonComplete  = "lessons.complete"
	FeatureGuildFeed       = "guild.feed"
)

// DailyLessonCap limits codex lesson completions per UTC day, independent of
// subscription tier.
const DailyLessonCap = 3

// LessonCap is the profile's effective daily lesson limit: the base cap plus
// one per second_wind paragon level.
func LessonCap(p *models.UserProfile) int {
	return DailyLessonCap + p.ParagonPerkLevels["second_wind"]
}

// CanAccess decides whether the profile may use a feature. Pure, no side
// effects; "not entitled" is a stable false, never an error. Only a
// malformed feature id errors.
func CanAccess(prof *models.UserProfile, featureID string) (bool, error) {
	if moduleID, ok := strings.CutPrefix(featureID, "module:"); ok {
		if _, exists := models.ProtectionModuleCatalog[moduleID]; !exists {
			return false, ErrUnknownFeature
		}
		return prof.HasModule(moduleID), nil
	}

	switch featureID {
	case FeatureMentorChat, FeatureAIMissions, FeatureAIGuidance, FeatureJournalAnalysis:
		return prof.HasSubscription, nil
	case FeatureMissions, FeatureSkillTree, FeatureLessons, FeatureGuildFeed:
		return prof.OnboardingCompleted, nil
	case FeatureLessonComplete:
		return prof.OnboardingCompleted && prof.LessonsCompletedToday < LessonCap(prof), nil
	default:
		return false, ErrUnknownFeature
	}
}
