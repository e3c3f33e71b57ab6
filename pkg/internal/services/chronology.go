package services

import (
	"time"

	"github.com/publicador/server/pkg/internal/models"
	"gorm.io/gorm"
)

// CalcEffectiveAt derives the single sortable timestamp of a publication:
// the latest publish time among its published posts, else its schedule,
// else its creation time. Expects Posts to be loaded.
func CalcEffectiveAt(item models.Publication) time.Time {
	var latest *time.Time
	for _, post := range item.Posts {
		if post.Status != models.PostStatusPublished || post.PublishedAt == nil {
			continue
		}
		if latest == nil || post.PublishedAt.After(*latest) {
			latest = post.PublishedAt
		}
	}
	if latest != nil {
		return *latest
	}
	if item.ScheduledAt != nil {
		return *item.ScheduledAt
	}
	return item.CreatedAt
}

// RefreshEffectiveAt recomputes and persists the effective time so list
// views can sort on one indexed column instead of aggregating posts.
func RefreshEffectiveAt(tx *gorm.DB, item *models.Publication) error {
	var posts []models.Post
	if err := tx.Where("publication_id = ?", item.ID).Find(&posts).Error; err != nil {
		return err
	}
	item.Posts = posts

	item.EffectiveAt = CalcEffectiveAt(*item)
	return tx.Model(&models.Publication{}).
		Where("id = ?", item.ID).
		Update("effective_at", item.EffectiveAt).Error
}
