// handlers/payment_routes.go
package handlers

import (
	"encoding/json"
	"log"
	"time"

	"life-quest-system/middleware"
	"life-quest-system/models"
	"life-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

const stripeSignatureTolerance = 5 * time.Minute

func SetupPaymentRoutes(app *fiber.App, payments *services.PaymentService, progression *services.ProgressionService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/checkout", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Grant string `json:"grant" validate:"required"` // "subscription" or "module:<id>"
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		if _, err := progression.EnsureProfile(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile", "cause": err.Error()})
		}

		sessionID, url, err := payments.CreateCheckoutSession(userID, req.Grant)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "checkout unavailable", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"session_id": sessionID, "checkout_url": url})
	})

	// Webhooks authenticate by signature, not gateway user context.
	app.Post("/webhooks/stripe", func(c *fiber.Ctx) error {
		payload := c.Body()

		if err := services.VerifyStripeSignature(payload, c.Get("Stripe-Signature"),
			payments.StripeWebhookSecret(), time.Now(), stripeSignatureTolerance); err != nil {
			log.Printf("[Webhook] Stripe signature rejected: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
		}

		var event struct {
			Type string `json:"type"`
			Data struct {
				Object struct {
					ID                string `json:"id"`
					ClientReferenceID string `json:"client_reference_id"`
					AmountTotal       int64  `json:"amount_total"`
					Metadata          struct {
						Grant string `json:"grant"`
					} `json:"metadata"`
				} `json:"object"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed event"})
		}

		if event.Type != "checkout.session.completed" {
			// Acknowledge everything else so Stripe stops retrying
			return c.SendStatus(fiber.StatusOK)
		}

		obj := event.Data.Object
		if err := payments.ApplyPurchase(models.ProviderStripe, obj.ID, obj.ClientReferenceID,
			obj.Metadata.Grant, obj.AmountTotal); err != nil {
			log.Printf("[Webhook] Stripe purchase apply failed for %s: %v", obj.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "apply failed"})
		}
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/webhooks/eduzz", func(c *fiber.Ctx) error {
		payload := c.Body()

		if err := services.VerifyEduzzSignature(payload, c.Get("X-Signature"),
			payments.EduzzWebhookSecret()); err != nil {
			log.Printf("[Webhook] Eduzz signature rejected: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
		}

		var event struct {
			Event       string `json:"event"` // "invoice_paid"
			InvoiceID   string `json:"invoice_id"`
			BuyerID     string `json:"buyer_id"`
			Grant       string `json:"grant"`
			AmountCents int64  `json:"amount_cents"`
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed event"})
		}

		if event.Event != "invoice_paid" {
			return c.SendStatus(fiber.StatusOK)
		}

		if err := payments.ApplyPurchase(models.ProviderEduzz, event.InvoiceID, event.BuyerID,
			event.Grant, event.AmountCents); err != nil {
			log.Printf("[Webhook] Eduzz purchase apply failed for %s: %v", event.InvoiceID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "apply failed"})
		}
		return c.SendStatus(fiber.StatusOK)
	})
}
