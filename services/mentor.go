package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"life-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MentorService backs the AI-mentor chat and journal analysis. Both are
// subscription-gated; generation failures degrade to fixed fallbacks rather
// than errors, so a flaky generator never breaks the user flow.
type MentorService struct {
	DB        *gorm.DB
	Generator ContentGenerator
}

func NewMentorService(db *gorm.DB, gen ContentGenerator) *MentorService {
	return &MentorService{DB: db, Generator: gen}
}

// Chat produces a mentor reply for the message. The caller has already
// passed the entitlement gate.
func (s *MentorService) Chat(ctx context.Context, prof *models.UserProfile, history []string, message string) string {
	if s.Generator == nil {
		return FallbackChatReply
	}
	reply, err := s.Generator.GenerateChatReply(ctx, prof, history, message)
	if err != nil {
		log.Printf("chat generation failed for %s: %v", prof.ExternalUserID, err)
		return FallbackChatReply
	}
	return reply
}

// CreateEntry stores a journal entry without analysis.
func (s *MentorService) CreateEntry(externalUserID, body string) (*models.JournalEntry, error) {
	entry := models.JournalEntry{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Body:           body,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns the user's journal, newest first.
func (s *MentorService) ListEntries(externalUserID string, limit int) ([]models.JournalEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var entries []models.JournalEntry
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// AnalyzeEntry runs AI analysis over one entry and persists the result.
// Unlike chat there is no static fallback worth storing, so a generator
// failure is returned to the caller as a transient error.
func (s *MentorService) AnalyzeEntry(ctx context.Context, externalUserID, entryID string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := s.DB.Where("id = ? AND external_user_id = ?", entryID, externalUserID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	if s.Generator == nil {
		return nil, fmt.Errorf("analysis unavailable: no generator configured")
	}
	analysis, err := s.Generator.GenerateAnalysis(ctx, &entry)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	now := time.Now()
	entry.Analysis = analysis
	entry.AnalyzedAt = &now
	if err := s.DB.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
