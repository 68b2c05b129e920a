package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"life-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All recurring-content windows are evaluated on the UTC calendar. The
// reference calendar is deliberately uniform across every call site: a day
// boundary means a UTC day boundary, a week is an ISO-8601 week, a month is
// a UTC calendar month.

const milestoneWindow = 30 * 24 * time.Hour

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func sameCalendarDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.UTC().ISOWeek()
	by, bw := b.UTC().ISOWeek()
	return ay == by && aw == bw
}

func sameCalendarMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// isStale reports whether content last refreshed at lastMillis (0 = never)
// has crossed the window boundary relative to now.
func isStale(lastMillis int64, now time.Time, sameWindow func(a, b time.Time) bool) bool {
	if lastMillis == 0 {
		return true
	}
	return !sameWindow(fromMillis(lastMillis), now)
}

// milestoneStale uses a rolling 30-day window rather than a calendar boundary.
func milestoneStale(lastMillis int64, now time.Time) bool {
	if lastMillis == 0 {
		return true
	}
	return now.Sub(fromMillis(lastMillis)) >= milestoneWindow
}

// RefreshService rebuilds stale recurring content: mission sets, boss HP,
// the daily lesson quota and the daily guidance. Generation failures fall
// back to the static catalogs — the refresh stamp is written either way, so
// a failed generator call never leaves content permanently stale or causes
// a second regeneration in the same window.
type RefreshService struct {
	DB        *gorm.DB
	Generator ContentGenerator
}

func NewRefreshService(db *gorm.DB, gen ContentGenerator) *RefreshService {
	return &RefreshService{DB: db, Generator: gen}
}

// RefreshProfile evaluates every window with a single reading of now and
// rebuilds whatever went stale. Idempotent within a window: a second call
// on the same UTC day/week/month is a no-op.
func (s *RefreshService) RefreshProfile(ctx context.Context, externalUserID string, now time.Time) (*models.UserProfile, error) {
	now = now.UTC()
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}

		if isStale(prof.LastDailyMissionRefresh, now, sameCalendarDay) {
			if err := s.regenerateMissions(ctx, tx, &prof, models.MissionDaily); err != nil {
				return err
			}
			prof.LastDailyMissionRefresh = now.UnixMilli()
		}
		if isStale(prof.LastWeeklyMissionRefresh, now, sameISOWeek) {
			if err := s.regenerateMissions(ctx, tx, &prof, models.MissionWeekly); err != nil {
				return err
			}
			prof.LastWeeklyMissionRefresh = now.UnixMilli()
		}
		if milestoneStale(prof.LastMilestoneMissionRefresh, now) {
			if err := s.regenerateMissions(ctx, tx, &prof, models.MissionMilestone); err != nil {
				return err
			}
			prof.LastMilestoneMissionRefresh = now.UnixMilli()
		}

		// Lesson quota resets on the day boundary.
		if prof.LessonsCompletedToday > 0 && isStale(prof.LastLessonCompletionAt, now, sameCalendarDay) {
			prof.LessonsCompletedToday = 0
		}

		// Streak breaks when a full day passed without a full clear.
		if prof.StreakDays > 0 && prof.LastDailyFullClearAt != 0 {
			last := fromMillis(prof.LastDailyFullClearAt)
			if !sameCalendarDay(last, now) && !sameCalendarDay(last, now.AddDate(0, 0, -1)) {
				prof.StreakDays = 0
			}
		}

		if isStale(prof.GuidanceDate, now, sameCalendarDay) {
			s.regenerateGuidance(ctx, &prof, now)
		}

		if err := s.resetBosses(tx, &prof, now); err != nil {
			return err
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// regenerateMissions replaces all missions of one type. AI generation is
// subscription-gated; on any generator failure the static template catalog
// is used instead.
func (s *RefreshService) regenerateMissions(ctx context.Context, tx *gorm.DB, prof *models.UserProfile, kind models.MissionType) error {
	if err := tx.Where("external_user_id = ? AND type = ?", prof.ExternalUserID, kind).
		Delete(&models.Mission{}).Error; err != nil {
		return err
	}

	var missions []models.Mission
	if prof.HasSubscription && s.Generator != nil {
		generated, err := s.Generator.GenerateMissions(ctx, kind, prof.Level, prof.Rank)
		if err != nil {
			log.Printf("mission generation failed for %s (%s), using static catalog: %v",
				prof.ExternalUserID, kind, err)
		} else {
			missions = generated
		}
	}
	if len(missions) == 0 {
		for _, tpl := range models.FallbackMissionTemplates[kind] {
			missions = append(missions, models.Mission{
				Title:    tpl.Title,
				XP:       tpl.XP,
				Category: tpl.Category,
			})
		}
	}

	for i := range missions {
		missions[i].ID = uuid.NewString()
		missions[i].ExternalUserID = prof.ExternalUserID
		missions[i].Type = kind
		missions[i].Completed = false
		if missions[i].XP <= 0 {
			missions[i].XP = 10
		}
		if err := tx.Create(&missions[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("Missions regenerated: %s %s ×%d (ai=%t)", prof.ExternalUserID, kind, len(missions), len(missions) > 0 && missions[0].FromAI)
	return nil
}

// regenerateGuidance rebuilds the daily oracle message. Falls back to a
// static line when the generator is unavailable; the date is stamped in
// both cases so guidance is never regenerated intra-day.
func (s *RefreshService) regenerateGuidance(ctx context.Context, prof *models.UserProfile, now time.Time) {
	content, kind := "", models.GuidanceStrategy
	fromAI := false
	if prof.HasSubscription && s.Generator != nil {
		g, err := s.Generator.GenerateGuidance(ctx, prof)
		if err != nil {
			log.Printf("guidance generation failed for %s, using static line: %v", prof.ExternalUserID, err)
		} else {
			content, kind, fromAI = g.Content, g.Kind, true
		}
	}
	if content == "" {
		content, kind = staticGuidance(prof)
	}
	prof.GuidanceDate = now.UnixMilli()
	prof.GuidanceContent = content
	prof.GuidanceKind = kind
	prof.GuidanceFromAI = fromAI
}

// resetBosses rolls each encounter when its window lapses. A defeated
// monthly boss comes back 1.5x tougher.
func (s *RefreshService) resetBosses(tx *gorm.DB, prof *models.UserProfile, now time.Time) error {
	windows := map[models.BossKind]func(a, b time.Time) bool{
		models.BossDaily:   sameCalendarDay,
		models.BossWeekly:  sameISOWeek,
		models.BossMonthly: sameCalendarMonth,
	}

	for kind, def := range models.BossDefs {
		var boss models.BossEncounter
		err := tx.Where("external_user_id = ? AND kind = ?", prof.ExternalUserID, kind).First(&boss).Error
		if err == gorm.ErrRecordNotFound {
			boss = models.BossEncounter{
				ID:             uuid.NewString(),
				ExternalUserID: prof.ExternalUserID,
				Kind:           kind,
				Name:           def.Name,
				CurrentHP:      def.BaseHP,
				MaxHP:          def.BaseHP,
				LastResetAt:    now.UnixMilli(),
			}
			if err := tx.Create(&boss).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if !isStale(boss.LastResetAt, now, windows[kind]) {
			continue
		}
		maxHP := boss.MaxHP
		if kind == models.BossMonthly && boss.Defeated {
			maxHP = maxHP * 3 / 2
		}
		boss.MaxHP = maxHP
		boss.CurrentHP = maxHP
		boss.Defeated = false
		boss.LastResetAt = now.UnixMilli()
		if err := tx.Save(&boss).Error; err != nil {
			return err
		}
	}
	return nil
}

// weakestCategory returns the lowest-scoring life-wheel category, walking the
// wheel in fixed order so ties are deterministic. Empty string when no scores
// were recorded.
func weakestCategory(scores map[string]int) string {
	weakest, lowest := "", 0
	for _, c := range models.LifeWheelCategories {
		v, ok := scores[c]
		if !ok {
			continue
		}
		if weakest == "" || v < lowest {
			weakest, lowest = c, v
		}
	}
	return weakest
}

// staticGuidance derives a deterministic fallback message from the profile.
// oracle_sight sharpens it to the player's weakest life-wheel category.
func staticGuidance(prof *models.UserProfile) (string, models.GuidanceType) {
	if prof.ParagonPerkLevels["oracle_sight"] > 0 {
		if cat := weakestCategory(prof.LifeWheelScores); cat != "" {
			return fmt.Sprintf("Your %s score trails the rest of the wheel. Aim today's effort there.", cat), models.GuidanceStrategy
		}
	}
	switch {
	case prof.StreakDays >= 7:
		return fmt.Sprintf("%d days without breaking the chain. Protect the streak today.", prof.StreakDays), models.GuidancePraise
	case prof.StreakDays == 0 && prof.LastDailyFullClearAt != 0:
		return "The streak broke. Start again with the smallest mission on the board.", models.GuidanceAlert
	default:
		return "Pick your hardest mission and do it first, before the day decides for you.", models.GuidanceStrategy
	}
}
