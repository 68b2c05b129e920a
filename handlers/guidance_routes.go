// handlers/guidance_routes.go
package handlers

import (
	"time"

	"life-quest-system/middleware"
	"life-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGuidanceRoutes(app *fiber.App, mentor *services.MentorService, progression *services.ProgressionService, refresh *services.RefreshService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/guidance", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if _, err := progression.EnsureProfile(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
		}

		prof, err := refresh.RefreshProfile(c.Context(), userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to refresh guidance", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{
			"date":    prof.GuidanceDate,
			"content": prof.GuidanceContent,
			"kind":    prof.GuidanceKind,
			"from_ai": prof.GuidanceFromAI,
		})
	})

	securedGroup.Post("/user/mentor/chat", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progression.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
		}
		ok, err := services.CanAccess(prof, services.FeatureMentorChat)
		if err != nil {
			return engineError(c, err)
		}
		if !ok {
			return upsell(c, services.FeatureMentorChat)
		}

		var req struct {
			Message string   `json:"message" validate:"required"`
			History []string `json:"history"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Message == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
		}

		reply := mentor.Chat(c.Context(), prof, req.History, req.Message)
		return c.JSON(fiber.Map{"reply": reply})
	})

	securedGroup.Get("/user/journal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		entries, err := mentor.ListEntries(userID, c.QueryInt("limit", 20))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list journal", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	securedGroup.Post("/user/journal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Body string `json:"body" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Body == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
		}

		entry, err := mentor.CreateEntry(userID, req.Body)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create entry", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	securedGroup.Post("/user/journal/:id/analyze", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progression.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
		}
		ok, err := services.CanAccess(prof, services.FeatureJournalAnalysis)
		if err != nil {
			return engineError(c, err)
		}
		if !ok {
			return upsell(c, services.FeatureJournalAnalysis)
		}

		entry, err := mentor.AnalyzeEntry(c.Context(), userID, c.Params("id"))
		if err != nil {
			// Generator failures are transient — the entry stays unanalyzed
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "analysis unavailable", "cause": err.Error()})
		}
		return c.JSON(entry)
	})
}
