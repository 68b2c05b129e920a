package services

import (
	"fmt"
	"log"

	"life-quest-system/models"

	"gorm.io/gorm"
)

// unlockSkill spends skill points on a catalog skill. All checks pass before
// anything mutates, so a failure leaves the profile untouched.
func unlockSkill(p *models.UserProfile, skillID string, catalog map[string]models.SkillDef) error {
	skill, ok := catalog[skillID]
	if !ok {
		return fmt.Errorf("unknown skill %q", skillID)
	}
	if p.HasSkill(skillID) {
		return ErrAlreadyUnlocked
	}
	if p.CategoryMissionCounts[skill.MissionCategoryReq] < skill.MissionCountReq {
		return ErrPrerequisiteNotMet
	}
	if p.SkillPoints < skill.Cost {
		return ErrInsufficientFunds
	}
	p.SkillPoints -= skill.Cost
	p.UnlockedSkillIDs = append(p.UnlockedSkillIDs, skillID)
	return nil
}

// spendParagonPoint raises one perk by exactly one level. The price is the
// cost at the pre-increment level.
func spendParagonPoint(p *models.UserProfile, perkID string, catalog map[string]models.ParagonPerkDef) error {
	perk, ok := catalog[perkID]
	if !ok {
		return fmt.Errorf("unknown perk %q", perkID)
	}
	current := p.ParagonPerkLevels[perkID]
	if current >= perk.MaxLevel {
		return ErrMaxLevelReached
	}
	cost := perk.CostAt(current)
	if p.ParagonPoints < cost {
		return ErrInsufficientFunds
	}
	p.ParagonPoints -= cost
	if p.ParagonPerkLevels == nil {
		p.ParagonPerkLevels = map[string]int{}
	}
	p.ParagonPerkLevels[perkID] = current + 1
	return nil
}

// UnlockService persists skill and paragon-perk unlocks.
type UnlockService struct {
	DB *gorm.DB
}

func NewUnlockService(db *gorm.DB) *UnlockService {
	return &UnlockService{DB: db}
}

// UnlockSkill atomically spends skill points on a skill-tree node.
func (s *UnlockService) UnlockSkill(externalUserID, skillID string) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}
		if err := unlockSkill(&prof, skillID, models.SkillCatalog); err != nil {
			return err
		}
		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("Skill unlocked: %s → %s (points left: %d)", externalUserID, skillID, prof.SkillPoints)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SpendParagonPoint atomically raises a paragon perk by one level.
func (s *UnlockService) SpendParagonPoint(externalUserID, perkID string) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}
		if err := spendParagonPoint(&prof, perkID, models.ParagonPerkCatalog); err != nil {
			return err
		}
		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		updated = &models.UserProfile{}
		*updated = prof
		log.Printf("Paragon perk raised: %s → %s lvl %d (points left: %d)",
			externalUserID, perkID, prof.ParagonPerkLevels[perkID], prof.ParagonPoints)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
