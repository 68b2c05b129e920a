package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"life-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// xpThreshold returns the XP needed to clear the given level.
// L_n = floor(100 * n^1.5), so CurrentXP always lives in [0, xpThreshold(Level)).
func xpThreshold(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// XPThreshold exposes the leveling curve to read surfaces (progress bars).
func XPThreshold(level int) int64 {
	return xpThreshold(level)
}

// rankThresholds: minimum level per rank, checked high to low.
var rankThresholds = []struct {
	level int
	rank  models.Rank
}{
	{50, models.RankLegendary},
	{30, models.RankPaladin},
	{15, models.RankChampion},
	{5, models.RankAdventurer},
}

// resolveRank maps (level, ascended) to a rank label. Pure and total.
// Ascension pins the rank to divine regardless of level.
func resolveRank(level int, isAscended bool) models.Rank {
	if isAscended {
		return models.RankDivine
	}
	for _, t := range rankThresholds {
		if level >= t.level {
			return t.rank
		}
	}
	return models.RankNovice
}

// applyExperience mutates the profile in place: adds XP, carries overflow
// into level-ups (one skill point per level gained, loop supports multiple
// level-ups per call) and re-derives the rank. Returns levels gained.
func applyExperience(p *models.UserProfile, amount int64) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	p.CurrentXP += amount
	levelsGained := 0
	for p.CurrentXP >= xpThreshold(p.Level) {
		p.CurrentXP -= xpThreshold(p.Level)
		p.Level++
		levelsGained++
	}
	if levelsGained > 0 {
		p.SkillPoints += levelsGained
		now := time.Now()
		p.LastLevelUpAt = &now
	}
	oldRank := p.Rank
	p.Rank = resolveRank(p.Level, p.IsAscended)
	if p.Rank != oldRank {
		now := time.Now()
		p.LastRankUpAt = &now
	}
	return levelsGained, nil
}

// deductExperience removes XP as a penalty, clamped at zero. Level never
// decreases; only a full ascension reset can lower it.
func deductExperience(p *models.UserProfile, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.CurrentXP -= amount
	if p.CurrentXP < 0 {
		p.CurrentXP = 0
	}
	return nil
}

// applyAscension performs the prestige reset: level 50+ required, paragon
// points credited from leftover XP, progression currencies wiped, rank pinned
// to divine. Irreversible — there is no descend.
func applyAscension(p *models.UserProfile) error {
	if p.Level < 50 {
		return ErrLevelTooLow
	}
	p.ParagonPoints += int(p.CurrentXP/1000) + 1
	p.Level = 1
	p.CurrentXP = 0
	p.SkillPoints = 0
	p.UnlockedSkillIDs = []string{}
	p.IsAscended = true
	p.Rank = resolveRank(p.Level, p.IsAscended)
	now := time.Now()
	p.AscendedAt = &now
	return nil
}

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProfile ensures a UserProfile row exists for the user (idempotent).
func (s *ProgressionService) EnsureProfile(externalUserID string) (*models.UserProfile, error) {
	var prof models.UserProfile
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&prof).Error
	if err == gorm.ErrRecordNotFound {
		prof = models.UserProfile{
			ID:                    uuid.NewString(),
			ExternalUserID:        externalUserID,
			Level:                 1,
			Rank:                  models.RankNovice,
			UnlockedSkillIDs:      []string{},
			ParagonPerkLevels:     map[string]int{},
			CategoryMissionCounts: map[string]int{},
			ActiveModules:         []string{},
		}
		if err := s.DB.Create(&prof).Error; err != nil {
			return nil, err
		}
		return &prof, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// AwardXP atomically applies experience to the profile — level-ups, skill
// points and rank included — and returns the updated row.
func (s *ProgressionService) AwardXP(externalUserID string, amount int64, reason string) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}

		levelsGained, err := applyExperience(&prof, amount)
		if err != nil {
			return err
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}

		// Copy for return (avoid aliasing the tx-scoped value)
		updated = &models.UserProfile{}
		*updated = prof

		log.Printf("XP awarded: %s +%d → lvl=%d xp=%d rank=%s (+%d levels, reason: %s)",
			externalUserID, amount, prof.Level, prof.CurrentXP, prof.Rank, levelsGained, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeductXP applies an XP penalty (protocol violations). Clamped at zero,
// level untouched.
func (s *ProgressionService) DeductXP(externalUserID string, amount int64, reason string) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}
		if err := deductExperience(&prof, amount); err != nil {
			return err
		}
		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("XP deducted: %s -%d → xp=%d (reason: %s)", externalUserID, amount, prof.CurrentXP, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Ascend performs the prestige reset for a level-50 profile.
func (s *ProgressionService) Ascend(externalUserID string) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}
		if err := applyAscension(&prof); err != nil {
			return err
		}
		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("Ascension: %s → paragon=%d rank=%s", externalUserID, prof.ParagonPoints, prof.Rank)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteOnboarding records the life-wheel scores, assigns an archetype and
// opens core gameplay. Re-running it overwrites the scores but keeps
// progression state untouched.
func (s *ProgressionService) CompleteOnboarding(externalUserID string, scores map[string]int) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}
		arch := models.DetermineArchetype(scores)
		prof.LifeWheelScores = scores
		prof.Archetype = arch.ID
		prof.OnboardingCompleted = true
		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("Onboarding completed: %s → archetype=%s", externalUserID, arch.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
