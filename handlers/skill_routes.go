// handlers/skill_routes.go
package handlers

import (
	"life-quest-system/middleware"
	"life-quest-system/models"
	"life-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSkillRoutes(app *fiber.App, unlocks *services.UnlockService, progression *services.ProgressionService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/skills", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"skills": models.SkillList()})
	})

	securedGroup.Get("/paragon/perks", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"perks": models.ParagonPerkList()})
	})

	securedGroup.Post("/user/skills/:id/unlock", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progression.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
		}
		ok, err := services.CanAccess(prof, services.FeatureSkillTree)
		if err != nil {
			return engineError(c, err)
		}
		if !ok {
			return upsell(c, services.FeatureSkillTree)
		}

		updated, err := unlocks.UnlockSkill(userID, c.Params("id"))
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"skill_points":       updated.SkillPoints,
			"unlocked_skill_ids": updated.UnlockedSkillIDs,
		})
	})

	securedGroup.Post("/user/paragon/:id/spend", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		updated, err := unlocks.SpendParagonPoint(userID, c.Params("id"))
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"paragon_points":      updated.ParagonPoints,
			"paragon_perk_levels": updated.ParagonPerkLevels,
		})
	})
}
