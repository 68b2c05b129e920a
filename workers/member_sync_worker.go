// workers/member_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"life-quest-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredMember matches the JSON the profile service returns for changed
// accounts. Only the display fields the guild feed needs are mirrored.
type MirroredMember struct {
	ExternalID        string    `json:"external_id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type GetMemberChangesResponse struct {
	Users []MirroredMember `json:"users"`
}

// MemberSyncWorker mirrors display data from the profile service into the
// member_profiles table so feed rendering never makes a cross-service call.
type MemberSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewMemberSyncWorker(db *gorm.DB, profileServiceBaseURL, endpointPath, serviceToken string) *MemberSyncWorker {
	return &MemberSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      profileServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *MemberSyncWorker) Start(ctx context.Context) {
	log.Println("Starting member directory sync (profile service → member_profiles)…")
	go w.run(ctx)
}

func (w *MemberSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("Initial member sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("Member sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("Member directory sync stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt in the local mirror.
func (w *MemberSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM member_profiles WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches changed accounts and upserts them into member_profiles.
func (w *MemberSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid profile service URL '%s': %w", w.baseURL, err)
	}
	endpoint, err := url.Parse(w.endpointPath)
	if err != nil {
		return fmt.Errorf("invalid endpoint path '%s': %w", w.endpointPath, err)
	}
	u := base.ResolveReference(endpoint)

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call profile service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("profile service returned %d: %s", resp.StatusCode, string(body))
	}

	var changes GetMemberChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		return fmt.Errorf("failed to decode profile service response: %w", err)
	}
	if len(changes.Users) == 0 {
		return nil
	}

	members := make([]models.MemberProfile, 0, len(changes.Users))
	for _, u := range changes.Users {
		m := models.MemberProfile{
			ExternalUserID: u.ExternalID,
			Username:       u.Username,
			Email:          u.Email,
		}
		if u.ProfilePictureURL != nil {
			m.AvatarURL = *u.ProfilePictureURL
		}
		members = append(members, m)
	}

	// Bulk upsert in one statement (PostgreSQL ON CONFLICT)
	if err := w.db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "avatar_url", "updated_at"}),
		},
	).Create(&members).Error; err != nil {
		return fmt.Errorf("failed to upsert %d member(s): %w", len(members), err)
	}

	log.Printf("[SYNC] Upserted %d member profile(s)", len(members))
	return nil
}
