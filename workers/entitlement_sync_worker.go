package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"life-quest-system/services"

	"gorm.io/gorm"
)

// SubscriptionState is one row of the billing service's reconciliation feed.
type SubscriptionState struct {
	ExternalUserID string `json:"external_user_id"`
	Status         string `json:"status"` // active | canceled | past_due
}

// EntitlementSyncClient polls the billing service for subscription changes.
// Webhooks are the primary path; this poller is the safety net that catches
// missed deliveries and expirations. Module purchases are one-time grants
// and are never revoked here.
type EntitlementSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
	Payments   *services.PaymentService
}

func NewEntitlementSyncClient(db *gorm.DB, payments *services.PaymentService) *EntitlementSyncClient {
	baseURL := os.Getenv("BILLING_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("BILLING_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("QUEST_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("QUEST_SERVICE_TOKEN environment variable is required for entitlement sync")
	}

	return &EntitlementSyncClient{
		BaseURL:  baseURL,
		Token:    token,
		DB:       db,
		Payments: payments,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetChangedSubscriptions fetches subscription states changed since the mark.
func (c *EntitlementSyncClient) GetChangedSubscriptions(ctx context.Context, since time.Time) ([]SubscriptionState, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/subscriptions/changes", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call billing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("billing service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Subscriptions []SubscriptionState `json:"subscriptions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode billing service response: %w", err)
	}
	return response.Subscriptions, nil
}

// PollSubscriptions reconciles hasSubscription against the billing service.
func PollSubscriptions(ctx context.Context, client *EntitlementSyncClient, pollInterval time.Duration) {
	log.Println("Starting subscription reconciliation polling...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Subscription polling stopped.")
			return
		case <-ticker.C:
			logTime := time.Now().UTC()

			states, err := client.GetChangedSubscriptions(ctx, lastSyncTime)
			if err != nil {
				log.Printf("Error polling subscriptions: %v", err)
				continue
			}
			if len(states) == 0 {
				continue
			}

			failed := false
			for _, st := range states {
				switch st.Status {
				case "active":
					err = client.DB.Table("user_profiles").
						Where("external_user_id = ?", st.ExternalUserID).
						Update("has_subscription", true).Error
				default: // canceled, past_due
					err = client.Payments.RevokeSubscription(st.ExternalUserID)
				}
				if err != nil {
					log.Printf("Failed to reconcile subscription for %s: %v", st.ExternalUserID, err)
					failed = true
				}
			}

			// Do NOT advance the mark on failure — retry same window next tick
			if !failed {
				lastSyncTime = logTime
				log.Printf("Reconciled %d subscription state(s)", len(states))
			}
		}
	}
}
