// handlers/profile_routes.go
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"life-quest-system/middleware"
	"life-quest-system/models"
	"life-quest-system/services"
	"life-quest-system/utils"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps engine validation errors to HTTP statuses. Everything else
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrUnknownFeature):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrMissionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyUnlocked),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrPrerequisiteNotMet),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrMaxLevelReached),
		errors.Is(err, services.ErrLevelTooLow),
		errors.Is(err, services.ErrLessonCapReached),
		errors.Is(err, services.ErrBossOnCooldown),
		errors.Is(err, services.ErrBossDefeated):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func engineError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// upsell is the stable "not entitled" response: never an error, always an
// upgrade path.
func upsell(c *fiber.Ctx, featureID string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":   services.ErrNotEntitled.Error(),
		"feature": featureID,
		"upsell":  true,
	})
}

// gateFeature enforces an entitlement check, writing the denial response
// itself. Returns false when the request must stop — callers return nil
// immediately so no gated work runs after a denial.
func gateFeature(c *fiber.Ctx, prof *models.UserProfile, featureID string) bool {
	ok, err := services.CanAccess(prof, featureID)
	if err != nil {
		_ = engineError(c, err)
		return false
	}
	if !ok {
		_ = upsell(c, featureID)
		return false
	}
	return true
}

func rankName(rank models.Rank) string {
	switch rank {
	case models.RankNovice:
		return "Novice"
	case models.RankAdventurer:
		return "Adventurer"
	case models.RankChampion:
		return "Champion"
	case models.RankPaladin:
		return "Paladin"
	case models.RankLegendary:
		return "Legendary"
	case models.RankDivine:
		return "Divine"
	default:
		return "Novice"
	}
}

func SetupProfileRoutes(app *fiber.App, progression *services.ProgressionService, refresh *services.RefreshService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if _, err := progression.EnsureProfile(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create profile",
				"cause": err.Error(),
			})
		}

		// One refresh pass per read keeps recurring content current.
		prof, err := refresh.RefreshProfile(c.Context(), userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to refresh profile",
				"cause": err.Error(),
			})
		}

		threshold := services.XPThreshold(prof.Level)
		return c.JSON(fiber.Map{
			"id":                      prof.ID,
			"level":                   prof.Level,
			"current_xp":              prof.CurrentXP,
			"xp_threshold":            threshold,
			"progress_pct":            float64(prof.CurrentXP) * 100 / float64(threshold),
			"rank":                    prof.Rank,
			"rank_name":               rankName(prof.Rank),
			"is_ascended":             prof.IsAscended,
			"skill_points":            prof.SkillPoints,
			"paragon_points":          prof.ParagonPoints,
			"unlocked_skill_ids":      prof.UnlockedSkillIDs,
			"paragon_perk_levels":     prof.ParagonPerkLevels,
			"category_mission_counts": prof.CategoryMissionCounts,
			"streak_days":             prof.StreakDays,
			"lessons_completed_today": prof.LessonsCompletedToday,
			"has_subscription":        prof.HasSubscription,
			"active_modules":          prof.ActiveModules,
			"onboarding_completed":    prof.OnboardingCompleted,
			"archetype":               prof.Archetype,
			"life_wheel_scores":       prof.LifeWheelScores,
			"avatar_url":              prof.AvatarURL,
			"last_level_up_at":        prof.LastLevelUpAt,
			"last_rank_up_at":         prof.LastRankUpAt,
			"ascended_at":             prof.AscendedAt,
		})
	})

	securedGroup.Post("/user/onboarding", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Scores map[string]int `json:"scores"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		for cat, score := range req.Scores {
			if score < 0 || score > 10 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": fmt.Sprintf("score for %q out of range 0-10", cat),
				})
			}
		}

		if _, err := progression.EnsureProfile(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create profile", "cause": err.Error()})
		}
		prof, err := progression.CompleteOnboarding(userID, req.Scores)
		if err != nil {
			return engineError(c, err)
		}

		arch := models.ArchetypeCatalog[prof.Archetype]
		return c.JSON(fiber.Map{
			"archetype":         arch,
			"life_wheel_scores": prof.LifeWheelScores,
		})
	})

	securedGroup.Post("/user/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file missing"})
		}

		var url string
		if utils.R2Configured() {
			url, err = utils.UploadAvatarToR2(fileHeader, fmt.Sprintf("avatars/%s", userID))
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed", "cause": err.Error()})
			}
		} else {
			filename := fmt.Sprintf("avatar-%s%s", userID, filepath.Ext(fileHeader.Filename))
			if err := utils.SaveFile(fileHeader, utils.GetUploadPath(filename)); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed", "cause": err.Error()})
			}
			url = "/uploads/" + filename
		}

		if err := progression.DB.Model(&models.UserProfile{}).
			Where("external_user_id = ?", userID).
			Update("avatar_url", url).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store avatar URL", "cause": err.Error()})
		}

		return c.JSON(fiber.Map{"avatar_url": url})
	})

	securedGroup.Post("/user/ascend", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progression.Ascend(userID)
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"level":          prof.Level,
			"current_xp":     prof.CurrentXP,
			"rank":           prof.Rank,
			"rank_name":      rankName(prof.Rank),
			"is_ascended":    prof.IsAscended,
			"paragon_points": prof.ParagonPoints,
		})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		if !middleware.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}

		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		prof, err := progression.AwardXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"level":   prof.Level,
			"xp":      prof.CurrentXP,
		})
	})

	adminGroup.Post("/xp/deduct", func(c *fiber.Ctx) error {
		if !middleware.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}

		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		prof, err := progression.DeductXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "XP deducted",
			"user_id": req.UserID,
			"level":   prof.Level,
			"xp":      prof.CurrentXP,
		})
	})
}
