package services

import (
	"fmt"
	"log"
	"time"

	"life-quest-system/models"

	"gorm.io/gorm"
)

// MissionService owns mission completion, the daily lesson quota and boss
// attacks. Completion awards XP through the same leveling core as every
// other XP source.
type MissionService struct {
	DB *gorm.DB
}

func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{DB: db}
}

// ListMissions returns the profile's current mission board.
func (s *MissionService) ListMissions(externalUserID string) ([]models.Mission, error) {
	var missions []models.Mission
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("type ASC, created_at ASC").
		Find(&missions).Error
	return missions, err
}

// CompleteMission marks a mission done, bumps the category counter, awards
// its XP and advances the daily streak when the full daily set is cleared.
// One transaction; a validation failure changes nothing.
func (s *MissionService) CompleteMission(externalUserID, missionID string, now time.Time) (*models.UserProfile, error) {
	now = now.UTC()
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var mission models.Mission
		if err := tx.Where("id = ? AND external_user_id = ?", missionID, externalUserID).
			First(&mission).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrMissionNotFound
			}
			return err
		}
		if mission.Completed {
			return ErrAlreadyCompleted
		}

		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}

		mission.Completed = true
		if err := tx.Save(&mission).Error; err != nil {
			return err
		}

		if prof.CategoryMissionCounts == nil {
			prof.CategoryMissionCounts = map[string]int{}
		}
		prof.CategoryMissionCounts[mission.Category]++

		if _, err := applyExperience(&prof, missionXP(&prof, mission.XP)); err != nil {
			return err
		}

		if mission.Type == models.MissionDaily {
			var remaining int64
			if err := tx.Model(&models.Mission{}).
				Where("external_user_id = ? AND type = ? AND completed = false", externalUserID, models.MissionDaily).
				Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				advanceStreak(&prof, now)
			}
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("Mission completed: %s → %q (+%d XP, %s/%s)",
			externalUserID, mission.Title, mission.XP, mission.Type, mission.Category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// missionXP applies the xp_surge paragon bonus: +5% mission XP per level.
func missionXP(p *models.UserProfile, base int64) int64 {
	if lvl := p.ParagonPerkLevels["xp_surge"]; lvl > 0 {
		base += base * int64(5*lvl) / 100
	}
	return base
}

// advanceStreak runs when the last daily mission of the set is cleared.
// Consecutive UTC days extend the streak; a same-day repeat is a no-op.
func advanceStreak(p *models.UserProfile, now time.Time) {
	if p.LastDailyFullClearAt != 0 {
		last := fromMillis(p.LastDailyFullClearAt)
		if sameCalendarDay(last, now) {
			return
		}
		if sameCalendarDay(last, now.AddDate(0, 0, -1)) {
			p.StreakDays++
		} else {
			p.StreakDays = 1
		}
	} else {
		p.StreakDays = 1
	}
	p.LastDailyFullClearAt = now.UnixMilli()
}

// CompleteLesson records a codex lesson completion against the daily cap
// and awards a flat XP reward.
const lessonXP = 40

func (s *MissionService) CompleteLesson(externalUserID string, now time.Time) (*models.UserProfile, error) {
	now = now.UTC()
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}

		// Quota belongs to "today": stale counters reset before the check.
		if isStale(prof.LastLessonCompletionAt, now, sameCalendarDay) {
			prof.LessonsCompletedToday = 0
		}
		if prof.LessonsCompletedToday >= LessonCap(&prof) {
			return ErrLessonCapReached
		}

		prof.LessonsCompletedToday++
		prof.LastLessonCompletionAt = now.UnixMilli()
		if _, err := applyExperience(&prof, lessonXP); err != nil {
			return err
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("Lesson completed: %s (%d/%d today)", externalUserID, prof.LessonsCompletedToday, LessonCap(&prof))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Attack cooldowns per boss kind. Sized so each boss is beatable within its
// reset window at low level: 24 daily attacks cover 100 HP from level 1, and
// the monthly colossus falls to a mid-level player attacking every 6 hours.
var bossAttackCooldowns = map[models.BossKind]time.Duration{
	models.BossDaily:   1 * time.Hour,
	models.BossWeekly:  3 * time.Hour,
	models.BossMonthly: 6 * time.Hour,
}

// bossOnCooldown reports whether the last attack is still too recent
// (lastAttackMillis 0 = never attacked).
func bossOnCooldown(lastAttackMillis int64, cooldown time.Duration, now time.Time) bool {
	if lastAttackMillis == 0 {
		return false
	}
	return now.Sub(fromMillis(lastAttackMillis)) < cooldown
}

// AttackBoss lands one attack on the given boss, subject to the kind's
// cooldown. Damage scales with level and the boss_slayer paragon perk;
// defeating the boss pays its reward XP in the same transaction.
func (s *MissionService) AttackBoss(externalUserID string, kind models.BossKind, now time.Time) (*models.BossEncounter, *models.UserProfile, error) {
	now = now.UTC()
	var (
		updatedBoss *models.BossEncounter
		updatedProf *models.UserProfile
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}

		var boss models.BossEncounter
		if err := tx.Where("external_user_id = ? AND kind = ?", externalUserID, kind).
			First(&boss).Error; err != nil {
			return fmt.Errorf("boss encounter not found for %s/%s", externalUserID, kind)
		}
		if boss.Defeated {
			return ErrBossDefeated
		}
		if bossOnCooldown(boss.LastAttackAt, bossAttackCooldowns[kind], now) {
			return ErrBossOnCooldown
		}

		damage := attackDamage(&prof)
		boss.CurrentHP -= damage
		boss.LastAttackAt = now.UnixMilli()
		if boss.CurrentHP <= 0 {
			boss.CurrentHP = 0
			boss.Defeated = true
		}
		if err := tx.Save(&boss).Error; err != nil {
			return err
		}

		if boss.Defeated {
			if _, err := applyExperience(&prof, models.BossDefs[kind].RewardXP); err != nil {
				return err
			}
			if err := tx.Save(&prof).Error; err != nil {
				return err
			}
		}

		updatedBoss = &models.BossEncounter{}
		*updatedBoss = boss
		updatedProf = &models.UserProfile{}
		*updatedProf = prof
		log.Printf("Boss attack: %s → %s -%d HP (%d/%d, defeated=%t)",
			externalUserID, boss.Name, damage, boss.CurrentHP, boss.MaxHP, boss.Defeated)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updatedBoss, updatedProf, nil
}

// attackDamage: base 10, +2 per level, +10% per boss_slayer paragon level.
func attackDamage(p *models.UserProfile) int64 {
	damage := int64(10 + 2*p.Level)
	if lvl := p.ParagonPerkLevels["boss_slayer"]; lvl > 0 {
		damage += damage * int64(lvl) / 10
	}
	return damage
}
