package services

import (
	"time"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type FanOutOptions struct {
	ScheduledAt *time.Time

	// SignatureID selects a named signature whose variants are resolved per
	// channel; Overrides wins over it for the channels it names.
	SignatureID *uint
	Overrides   map[uint]string
}

// CreatePosts fans a publication out into one pending post per channel.
// The channel set is all-or-nothing: a single foreign or unknown id rejects
// the whole call. Channels that already carry a post for this publication
// are refreshed instead of duplicated.
func CreatePosts(item models.Publication, channelIDs []uint, opts FanOutOptions) ([]models.Post, error) {
	var posts []models.Post
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var err error
		posts, err = createPostsTx(tx, item, channelIDs, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func createPostsTx(tx *gorm.DB, item models.Publication, channelIDs []uint, opts FanOutOptions) ([]models.Post, error) {
	if len(channelIDs) == 0 {
		return nil, NewBadRequest("at least one channel is required")
	}

	channels, err := ListChannelsByIDs(tx, channelIDs, item.ProjectID)
	if err != nil {
		return nil, err
	}

	scheduledAt := opts.ScheduledAt
	if scheduledAt == nil {
		scheduledAt = item.ScheduledAt
	}

	var existing []models.Post
	if err := tx.
		Where("publication_id = ? AND channel_id IN ?", item.ID, lo.Map(channels, func(c models.Channel, _ int) uint {
			return c.ID
		})).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	existingByChannel := lo.SliceToMap(existing, func(post models.Post) (uint, models.Post) {
		return post.ChannelID, post
	})

	var posts []models.Post
	for _, channel := range channels {
		signature, err := resolveChannelSignature(item, channel, opts)
		if err != nil {
			return nil, err
		}

		if post, ok := existingByChannel[channel.ID]; ok {
			// Refresh only while the dispatch cycle has not picked the
			// post up; anything else needs an explicit schedule pass.
			if post.Status == models.PostStatusPending {
				post.ScheduledAt = scheduledAt
				post.Signature = signature
				if err := tx.Save(&post).Error; err != nil {
					return nil, err
				}
			}
			posts = append(posts, post)
			continue
		}

		post := models.Post{
			PublicationID: item.ID,
			ChannelID:     channel.ID,
			Platform:      channel.Platform,
			Status:        models.PostStatusPending,
			ScheduledAt:   scheduledAt,
			Signature:     signature,
		}
		if err := tx.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	log.Debug().
		Uint("publication", item.ID).
		Int("posts", len(posts)).
		Msg("Fanned publication out onto channels.")

	return posts, nil
}

func resolveChannelSignature(item models.Publication, channel models.Channel, opts FanOutOptions) (*string, error) {
	if override, ok := opts.Overrides[channel.ID]; ok && len(override) > 0 {
		return &override, nil
	}
	if opts.SignatureID != nil {
		return ResolveSignature(*opts.SignatureID, item.ProjectID, channel.ID, item.Language)
	}
	return nil, nil
}
