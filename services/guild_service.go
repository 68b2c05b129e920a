package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"life-quest-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var titleCaser = cases.Title(language.English)

// ChannelName returns the display name of a feed channel ("general" or a
// protection-module channel).
func ChannelName(channel string) string {
	if mod, ok := models.ProtectionModuleCatalog[channel]; ok {
		return mod.Name
	}
	return titleCaser.String(channel)
}

// postSlug derives a unique feed slug from the post body. The excerpt is
// clipped on a rune boundary so multi-byte text never produces an invalid
// UTF-8 sequence.
func postSlug(body string) string {
	excerpt := []rune(body)
	if len(excerpt) > 40 {
		excerpt = excerpt[:40]
	}
	return fmt.Sprintf("%s-%s", slug.Make(string(excerpt)), uuid.NewString()[:8])
}

type GuildService struct {
	DB *gorm.DB
}

func NewGuildService(db *gorm.DB) *GuildService {
	return &GuildService{DB: db}
}

// ListPosts returns the newest posts of a channel, newest first.
func (s *GuildService) ListPosts(channel string, limit int) ([]models.GuildPost, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var posts []models.GuildPost
	err := s.DB.Where("channel = ?", channel).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CreatePost publishes to the feed. Author display name comes from the
// member directory mirror when available.
func (s *GuildService) CreatePost(externalUserID, channel, body string) (*models.GuildPost, error) {
	if channel == "" {
		channel = "general"
	}

	authorName := externalUserID
	var member models.MemberProfile
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&member).Error; err == nil && member.Username != "" {
		authorName = member.Username
	}

	post := models.GuildPost{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		AuthorName:     authorName,
		Slug:           postSlug(body),
		Channel:        channel,
		Body:           body,
		LikedBy:        []string{},
	}
	if err := s.DB.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// LikePost toggles nothing — one like per user, repeat likes are no-ops.
func (s *GuildService) LikePost(externalUserID, postID string) (*models.GuildPost, error) {
	var updated *models.GuildPost
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var post models.GuildPost
		if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}
		for _, u := range post.LikedBy {
			if u == externalUserID {
				updated = &post
				return nil
			}
		}
		post.LikedBy = append(post.LikedBy, externalUserID)
		post.Likes = len(post.LikedBy)
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		updated = &post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// StreamFeedSSE streams new posts in a channel to the client as server-sent
// events, polling the table on a short ticker.
func (s *GuildService) StreamFeedSSE(c *fiber.Ctx) error {
	channel := c.Query("channel", "general")

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastMaxCreatedAt time.Time
		var latest models.GuildPost
		if err := s.DB.Where("channel = ?", channel).
			Order("created_at DESC").
			First(&latest).Error; err == nil {
			lastMaxCreatedAt = latest.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for channel %s: %v", channel, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var newPosts []models.GuildPost
				err := s.DB.Where("channel = ? AND created_at > ?", channel, lastMaxCreatedAt).
					Order("created_at ASC").
					Find(&newPosts).Error
				if err != nil {
					log.Printf("SSE query error for channel %s: %v", channel, err)
					continue
				}
				if len(newPosts) == 0 {
					continue
				}

				lastMaxCreatedAt = newPosts[len(newPosts)-1].CreatedAt

				for _, p := range newPosts {
					payload, _ := json.Marshal(p)
					fmt.Fprintf(w, "event: post\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
