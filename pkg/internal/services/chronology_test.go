package services

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/publicador/server/pkg/internal/models"
)

func TestCalcEffectiveAt(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	scheduled := created.Add(24 * time.Hour)
	early := created.Add(2 * time.Hour)
	late := created.Add(6 * time.Hour)

	base := models.Publication{}
	base.CreatedAt = created

	t.Run("falls back to creation time", func(t *testing.T) {
		assert.Equal(t, created, CalcEffectiveAt(base))
	})

	t.Run("prefers the schedule over creation", func(t *testing.T) {
		item := base
		item.ScheduledAt = &scheduled
		assert.Equal(t, scheduled, CalcEffectiveAt(item))
	})

	t.Run("prefers the latest publish time over everything", func(t *testing.T) {
		item := base
		item.ScheduledAt = &scheduled
		item.Posts = []models.Post{
			{Status: models.PostStatusPublished, PublishedAt: &late},
			{Status: models.PostStatusPublished, PublishedAt: &early},
			{Status: models.PostStatusFailed},
		}
		assert.Equal(t, late, CalcEffectiveAt(item))
	})

	t.Run("ignores publish times on non-published posts", func(t *testing.T) {
		item := base
		item.Posts = []models.Post{
			{Status: models.PostStatusPending, PublishedAt: lo.ToPtr(late)},
		}
		assert.Equal(t, created, CalcEffectiveAt(item))
	})
}
