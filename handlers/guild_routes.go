// handlers/guild_routes.go
package handlers

import (
	"life-quest-system/middleware"
	"life-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGuildRoutes(app *fiber.App, guild *services.GuildService, progression *services.ProgressionService, authClient *services.AuthServiceClient) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// requireChannel gates module-exclusive channels; "general" only needs
	// completed onboarding. The denial response is already written when it
	// returns false — callers return nil without touching the feed.
	requireChannel := func(c *fiber.Ctx, channel string) bool {
		userID := c.Locals("user_id").(string)
		prof, err := progression.EnsureProfile(userID)
		if err != nil {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
			return false
		}

		featureID := services.FeatureGuildFeed
		if channel != "" && channel != "general" {
			featureID = "module:" + channel
		}
		return gateFeature(c, prof, featureID)
	}

	securedGroup.Get("/guild/feed", func(c *fiber.Ctx) error {
		channel := c.Query("channel", "general")
		if !requireChannel(c, channel) {
			return nil
		}

		posts, err := guild.ListPosts(channel, c.QueryInt("limit", 50))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list feed", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{
			"channel":      channel,
			"channel_name": services.ChannelName(channel),
			"posts":        posts,
		})
	})

	securedGroup.Post("/guild/feed", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Channel string `json:"channel"`
			Body    string `json:"body" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Body == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
		}
		if !requireChannel(c, req.Channel) {
			return nil
		}

		post, err := guild.CreatePost(userID, req.Channel, req.Body)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create post", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	securedGroup.Post("/guild/feed/:id/like", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		post, err := guild.LikePost(userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to like post", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"id": post.ID, "likes": post.Likes})
	})

	// SSE cannot carry gateway headers — query-param token auth instead.
	app.Get("/guild/feed/stream", middleware.SSEAuthMiddleware(authClient), guild.StreamFeedSSE)
}
