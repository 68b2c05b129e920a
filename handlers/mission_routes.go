// handlers/mission_routes.go
package handlers

import (
	"time"

	"life-quest-system/middleware"
	"life-quest-system/models"
	"life-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, missions *services.MissionService, progression *services.ProgressionService, refresh *services.RefreshService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// requireCore guards core-gameplay routes on onboarding completion. The
	// denial response is already written when ok is false — callers must
	// return nil without doing the gated work.
	requireCore := func(c *fiber.Ctx, featureID string) (*models.UserProfile, bool) {
		userID := c.Locals("user_id").(string)
		prof, err := progression.EnsureProfile(userID)
		if err != nil {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
			return nil, false
		}
		if !gateFeature(c, prof, featureID) {
			return nil, false
		}
		return prof, true
	}

	securedGroup.Get("/user/missions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if _, ok := requireCore(c, services.FeatureMissions); !ok {
			return nil
		}

		// Stale windows regenerate before listing
		if _, err := refresh.RefreshProfile(c.Context(), userID, time.Now()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to refresh missions", "cause": err.Error()})
		}

		list, err := missions.ListMissions(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list missions", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"missions": list})
	})

	securedGroup.Post("/user/missions/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if _, ok := requireCore(c, services.FeatureMissions); !ok {
			return nil
		}

		prof, err := missions.CompleteMission(userID, c.Params("id"), time.Now())
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"level":        prof.Level,
			"current_xp":   prof.CurrentXP,
			"rank":         prof.Rank,
			"skill_points": prof.SkillPoints,
			"streak_days":  prof.StreakDays,
		})
	})

	securedGroup.Post("/user/lessons/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		prof, err := progression.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
		}
		ok, err := services.CanAccess(prof, services.FeatureLessonComplete)
		if err != nil {
			return engineError(c, err)
		}
		if !ok {
			if !prof.OnboardingCompleted {
				return upsell(c, services.FeatureLessonComplete)
			}
			// Cap reached: stable denial, no upgrade path fixes it today
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": services.ErrLessonCapReached.Error(),
				"cap":   services.LessonCap(prof),
			})
		}

		updated, err := missions.CompleteLesson(userID, time.Now())
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"lessons_completed_today": updated.LessonsCompletedToday,
			"cap":                     services.LessonCap(updated),
			"level":                   updated.Level,
			"current_xp":              updated.CurrentXP,
		})
	})

	securedGroup.Get("/user/bosses", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if _, ok := requireCore(c, services.FeatureMissions); !ok {
			return nil
		}
		if _, err := refresh.RefreshProfile(c.Context(), userID, time.Now()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to refresh bosses", "cause": err.Error()})
		}

		var bosses []models.BossEncounter
		if err := missions.DB.Where("external_user_id = ?", userID).
			Order("kind ASC").Find(&bosses).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list bosses", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"bosses": bosses})
	})

	securedGroup.Post("/user/bosses/:kind/attack", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if _, ok := requireCore(c, services.FeatureMissions); !ok {
			return nil
		}

		kind := models.BossKind(c.Params("kind"))
		if _, known := models.BossDefs[kind]; !known {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown boss kind"})
		}

		boss, prof, err := missions.AttackBoss(userID, kind, time.Now())
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"boss":       boss,
			"level":      prof.Level,
			"current_xp": prof.CurrentXP,
		})
	})
}
