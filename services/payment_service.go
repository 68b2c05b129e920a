package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"life-quest-system/models"
	"life-quest-system/utils"

	"gorm.io/gorm"
)

// PaymentService talks to the payment providers (Stripe and Eduzz) and
// applies confirmed purchases to profiles. Webhooks are verified by HMAC
// signature and deduplicated on the checkout-session id: a replayed webhook
// grants nothing twice.
type PaymentService struct {
	DB *gorm.DB

	stripeSecretKey     string
	stripeWebhookSecret string
	eduzzWebhookSecret  string
	checkoutSuccessURL  string
	checkoutCancelURL   string
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{
		DB:                  db,
		stripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		stripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		eduzzWebhookSecret:  os.Getenv("EDUZZ_WEBHOOK_SECRET"),
		checkoutSuccessURL:  os.Getenv("CHECKOUT_SUCCESS_URL"),
		checkoutCancelURL:   os.Getenv("CHECKOUT_CANCEL_URL"),
	}
}

// CreateCheckoutSession opens a Stripe-hosted checkout for a subscription or
// a protection module and returns the redirect URL.
func (s *PaymentService) CreateCheckoutSession(externalUserID, grant string) (sessionID, checkoutURL string, err error) {
	priceCents := int64(2900) // monthly subscription
	name := "Premium Subscription"
	mode := "subscription"
	if moduleID, ok := strings.CutPrefix(grant, models.GrantModulePrefix); ok {
		mod, exists := models.ProtectionModuleCatalog[moduleID]
		if !exists {
			return "", "", fmt.Errorf("unknown protection module %q", moduleID)
		}
		priceCents = mod.PriceCents
		name = mod.Name
		mode = "payment"
	} else if grant != models.GrantSubscription {
		return "", "", fmt.Errorf("unknown grant %q", grant)
	}

	form := url.Values{}
	form.Set("mode", mode)
	form.Set("success_url", s.checkoutSuccessURL)
	form.Set("cancel_url", s.checkoutCancelURL)
	form.Set("client_reference_id", externalUserID)
	form.Set("metadata[grant]", grant)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(priceCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", name)
	if mode == "subscription" {
		form.Set("line_items[0][price_data][recurring][interval]", "month")
	}

	req, err := http.NewRequest("POST", "https://api.stripe.com/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.stripeSecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", "", fmt.Errorf("checkout session rejected (%d): %s", resp.StatusCode, string(body))
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", "", fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return session.ID, session.URL, nil
}

// VerifyStripeSignature checks the "t=<ts>,v1=<sig>" header scheme: the
// signature is HMAC-SHA256 of "<ts>.<payload>" under the webhook secret.
// Timestamps older than the tolerance are rejected to stop replays.
func VerifyStripeSignature(payload []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp")
	}
	if diff := now.Sub(time.Unix(tsInt, 0)); diff > tolerance || diff < -tolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

// VerifyEduzzSignature checks the hex HMAC-SHA256 digest of the raw body.
func VerifyEduzzSignature(payload []byte, signature, secret string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("no matching signature")
	}
	return nil
}

// ApplyPurchase flips the granted entitlement exactly once per session id.
// The unique index on purchase_records.session_id backs the check inside the
// same transaction as the profile update, so even concurrent webhook
// deliveries cannot double-apply.
func (s *PaymentService) ApplyPurchase(provider models.PaymentProvider, sessionID, externalUserID, grant string, amountCents int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.PurchaseRecord
		err := tx.Where("session_id = ?", sessionID).First(&existing).Error
		if err == nil {
			log.Printf("Purchase replayed, ignoring: %s/%s", provider, sessionID)
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", externalUserID)
		}

		if moduleID, ok := strings.CutPrefix(grant, models.GrantModulePrefix); ok {
			if _, exists := models.ProtectionModuleCatalog[moduleID]; !exists {
				return fmt.Errorf("unknown protection module %q", moduleID)
			}
			if !prof.HasModule(moduleID) {
				prof.ActiveModules = append(prof.ActiveModules, moduleID)
			}
		} else if grant == models.GrantSubscription {
			prof.HasSubscription = true
		} else {
			return fmt.Errorf("unknown grant %q", grant)
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PurchaseRecord{
			Provider:       provider,
			SessionID:      sessionID,
			ExternalUserID: externalUserID,
			Grant:          grant,
			AmountCents:    amountCents,
		}).Error; err != nil {
			return err
		}
		log.Printf("Purchase applied: %s/%s → %s gets %s", provider, sessionID, externalUserID, grant)
		return nil
	})
}

// RevokeSubscription clears the subscription flag (cancellation/expiry from
// the provider). One-time module purchases are never revoked.
func (s *PaymentService) RevokeSubscription(externalUserID string) error {
	return s.DB.Model(&models.UserProfile{}).
		Where("external_user_id = ? AND has_subscription = true", externalUserID).
		Update("has_subscription", false).Error
}

// StripeWebhookSecret exposes the configured secret for the handler layer.
func (s *PaymentService) StripeWebhookSecret() string { return s.stripeWebhookSecret }

// EduzzWebhookSecret exposes the configured secret for the handler layer.
func (s *PaymentService) EduzzWebhookSecret() string { return s.eduzzWebhookSecret }
