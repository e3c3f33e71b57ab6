package services

import (
	"errors"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func GetMedia(id uint, projectID uint) (models.Media, error) {
	var media models.Media
	if err := database.C.Where("id = ? AND project_id = ?", id, projectID).First(&media).Error; err != nil {
		return media, err
	}
	return media, nil
}

// RegisterMedia records the descriptor handed back by the media store; the
// bytes themselves never pass through here.
func RegisterMedia(item models.Media) (models.Media, error) {
	if len(item.StorageRef) == 0 {
		return item, NewBadRequest("a storage reference is required")
	}
	if !lo.Contains([]models.MediaType{
		models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeAudio, models.MediaTypeDocument,
	}, item.Type) {
		return item, NewBadRequest("unknown media type %s", item.Type)
	}

	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

// MediaSetEntry is one requested slot of a publication's media list;
// position comes from its place in the request.
type MediaSetEntry struct {
	MediaID   uint `json:"media_id"`
	IsSpoiler bool `json:"is_spoiler"`
}

// AppendMedia attaches one media item at the end of the list.
func AppendMedia(item *models.Publication, mediaID uint, spoiler bool) error {
	if _, err := GetMedia(mediaID, item.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewBadRequest("media %d does not exist or belongs to another project", mediaID)
		}
		return err
	}
	if lo.SomeBy(item.Attachments, func(link models.PublicationMedia) bool { return link.MediaID == mediaID }) {
		return NewBadRequest("media %d is already attached", mediaID)
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		link := models.PublicationMedia{
			PublicationID: item.ID,
			MediaID:       mediaID,
			Position:      len(item.Attachments),
			IsSpoiler:     spoiler,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		return afterMediaMutation(tx, item)
	})
}

// RemoveMedia detaches one media item and closes the position gap.
func RemoveMedia(item *models.Publication, mediaID uint) error {
	if !lo.SomeBy(item.Attachments, func(link models.PublicationMedia) bool { return link.MediaID == mediaID }) {
		return NewBadRequest("media %d is not attached", mediaID)
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("publication_id = ? AND media_id = ?", item.ID, mediaID).
			Delete(&models.PublicationMedia{}).Error; err != nil {
			return err
		}

		remaining := lo.Filter(item.Attachments, func(link models.PublicationMedia, index int) bool {
			return link.MediaID != mediaID
		})
		if err := renumberMedia(tx, item.ID, lo.Map(remaining, func(link models.PublicationMedia, index int) uint {
			return link.MediaID
		})); err != nil {
			return err
		}
		return afterMediaMutation(tx, item)
	})
}

// ReorderMedia rewrites positions to follow the given id order, which must
// name the current set exactly.
func ReorderMedia(item *models.Publication, mediaIDs []uint) error {
	current := lo.Map(item.Attachments, func(link models.PublicationMedia, index int) uint {
		return link.MediaID
	})
	left, right := lo.Difference(current, lo.Uniq(mediaIDs))
	if len(left) > 0 || len(right) > 0 {
		return NewBadRequest("reorder must name every attached media exactly once")
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := renumberMedia(tx, item.ID, mediaIDs); err != nil {
			return err
		}
		return afterMediaMutation(tx, item)
	})
}

// ReplaceMediaSet swaps the whole list in one command, for callers that do
// hold the full intended state.
func ReplaceMediaSet(item *models.Publication, entries []MediaSetEntry) error {
	for _, entry := range entries {
		if _, err := GetMedia(entry.MediaID, item.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewBadRequest("media %d does not exist or belongs to another project", entry.MediaID)
			}
			return err
		}
	}
	if len(lo.UniqBy(entries, func(entry MediaSetEntry) uint { return entry.MediaID })) != len(entries) {
		return NewBadRequest("media set cannot name the same media twice")
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publication_id = ?", item.ID).Delete(&models.PublicationMedia{}).Error; err != nil {
			return err
		}
		for idx, entry := range entries {
			link := models.PublicationMedia{
				PublicationID: item.ID,
				MediaID:       entry.MediaID,
				Position:      idx,
				IsSpoiler:     entry.IsSpoiler,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return afterMediaMutation(tx, item)
	})
}

func renumberMedia(tx *gorm.DB, publicationID uint, mediaIDs []uint) error {
	for idx, mediaID := range mediaIDs {
		if err := tx.Model(&models.PublicationMedia{}).
			Where("publication_id = ? AND media_id = ?", publicationID, mediaID).
			Update("position", idx).Error; err != nil {
			return err
		}
	}
	return nil
}

// afterMediaMutation reloads the attachment set and funnels the change into
// the same re-validation live posts get on a content edit.
func afterMediaMutation(tx *gorm.DB, item *models.Publication) error {
	var links []models.PublicationMedia
	if err := tx.
		Where("publication_id = ?", item.ID).
		Order("position ASC").
		Preload("Media").
		Find(&links).Error; err != nil {
		return err
	}
	item.Attachments = links

	return RevalidatePublicationPosts(tx, item)
}
