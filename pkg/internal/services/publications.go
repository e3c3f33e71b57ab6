package services

import (
	"errors"
	"strings"
	"time"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/platforms"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func FilterPublicationWithProject(tx *gorm.DB, projectID uint) *gorm.DB {
	return tx.Where("project_id = ?", projectID)
}

func FilterPublicationWithStatus(tx *gorm.DB, status string) *gorm.DB {
	return tx.Where("status IN ?", strings.Split(status, ","))
}

func FilterPublicationWithType(tx *gorm.DB, t string) *gorm.DB {
	return tx.Where("type = ?", t)
}

func FilterPublicationWithTag(tx *gorm.DB, tag string) *gorm.DB {
	return tx.Where("tags LIKE ?", "%\""+tag+"\"%")
}

func FilterPublicationArchived(tx *gorm.DB, archived bool) *gorm.DB {
	if archived {
		return tx.Where("archived_at IS NOT NULL")
	}
	return tx.Where("archived_at IS NULL")
}

func FilterPublicationWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}

	probe = "%" + probe + "%"
	return tx.Where("title ILIKE ? OR description ILIKE ? OR body ILIKE ?", probe, probe, probe)
}

func PreloadPublicationGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Attachments.Media").
		Preload("Posts").
		Preload("Posts.Channel")
}

func GetPublication(tx *gorm.DB, id uint) (models.Publication, error) {
	var item models.Publication
	if err := PreloadPublicationGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

// GatePublication loads a publication for a caller, hiding rows outside
// their project access behind not-found so existence is never confirmed.
func GatePublication(user models.Account, id uint) (models.Publication, error) {
	item, err := GetPublication(database.C, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, ErrNotFound
		}
		return item, err
	}
	if Authority.CheckAccess(item.ProjectID, user.ID) != nil {
		return item, ErrNotFound
	}

	return item, nil
}

func CountPublication(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Publication{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func ListPublication(tx *gorm.DB, take int, offset int) ([]models.Publication, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Publication
	if err := PreloadPublicationGeneral(tx).
		Limit(take).Offset(offset).
		Order("effective_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

// MediaTypesOf flattens the attachment set into the type list the platform
// gate consumes.
func MediaTypesOf(item models.Publication) []models.MediaType {
	return lo.Map(item.Attachments, func(link models.PublicationMedia, index int) models.MediaType {
		return link.Media.Type
	})
}

func NewPublication(user models.Account, item models.Publication, channelIDs []uint, opts FanOutOptions) (models.Publication, error) {
	if Authority.CheckAccess(item.ProjectID, user.ID) != nil {
		return item, ErrNotFound
	}
	if err := Authority.CheckPermission(item.ProjectID, user.ID, CapabilityCreatePublications); err != nil {
		return item, ErrForbidden
	}

	// Inline attachments obey the same scope rules as the media commands.
	if len(lo.UniqBy(item.Attachments, func(link models.PublicationMedia) uint { return link.MediaID })) != len(item.Attachments) {
		return item, NewBadRequest("media set cannot name the same media twice")
	}
	for _, link := range item.Attachments {
		if _, err := GetMedia(link.MediaID, item.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return item, NewBadRequest("media %d does not exist or belongs to another project", link.MediaID)
			}
			return item, err
		}
	}

	if len(item.Language) == 0 && item.Body != nil {
		item.Language = DetectLanguage(*item.Body)
	}

	// Publications are born in draft; a requested later status goes through
	// the same transition rules as any other update.
	requestedStatus := item.Status
	requestedSchedule := item.ScheduledAt
	item.Status = models.PublicationStatusDraft
	item.ScheduledAt = nil
	item.CreatorID = user.ID

	log.Debug().Uint("project", item.ProjectID).Str("type", item.Type).Msg("Creating a publication...")

	// Create, fan-out and the requested transition commit or fail as one; a
	// rejected transition must not leave a draft behind.
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		if len(channelIDs) > 0 {
			if _, err := createPostsTx(tx, item, channelIDs, opts); err != nil {
				return err
			}
		}

		loaded, err := GetPublication(tx, item.ID)
		if err != nil {
			return err
		}
		if (requestedStatus != "" && requestedStatus != models.PublicationStatusDraft) || requestedSchedule != nil {
			if err := changePublicationStatusTx(tx, &loaded, requestedStatus, requestedSchedule); err != nil {
				return err
			}
		} else if err := RefreshEffectiveAt(tx, &loaded); err != nil {
			return err
		}

		item = loaded
		return nil
	})

	return item, err
}

// EditPublication persists content/metadata changes already applied to the
// loaded row, re-detecting language and re-validating live posts. The save
// itself must succeed even when posts fail validation; failures surface as
// post-level errors plus a defensive downgrade when the publication is
// already committed.
func EditPublication(item *models.Publication) error {
	if item.Body != nil && len(item.Language) == 0 {
		item.Language = DetectLanguage(*item.Body)
	}

	if err := EnsurePublicationLanguageUnique(*item); err != nil {
		return err
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}
		if err := RevalidatePublicationPosts(tx, item); err != nil {
			return err
		}
		return RefreshEffectiveAt(tx, item)
	})
}

// ChangePublicationStatus applies the caller-facing half of the state
// machine: draft and ready un-commit every post, scheduled is gated by a
// blocking validation pass. Terminal statuses belong to the dispatch worker
// and cannot be entered here.
func ChangePublicationStatus(item *models.Publication, status models.PublicationStatus, scheduledAt *time.Time) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		return changePublicationStatusTx(tx, item, status, scheduledAt)
	})
}

func changePublicationStatusTx(tx *gorm.DB, item *models.Publication, status models.PublicationStatus, scheduledAt *time.Time) error {
	// Supplying a schedule time is an implicit request to schedule.
	if scheduledAt != nil {
		status = models.PublicationStatusScheduled
	}

	switch status {
	case models.PublicationStatusDraft, models.PublicationStatusReady:
		if status == models.PublicationStatusReady && !item.HasContent() {
			return NewBadRequest("content or media is required to be ready")
		}

		if err := tx.Model(&models.Publication{}).Where("id = ?", item.ID).Updates(map[string]any{
			"status":       status,
			"scheduled_at": nil,
		}).Error; err != nil {
			return err
		}
		item.Status = status
		item.ScheduledAt = nil

		if err := resetPublicationPosts(tx, item.ID); err != nil {
			return err
		}
		return RefreshEffectiveAt(tx, item)
	case models.PublicationStatusScheduled:
		resolved := scheduledAt
		if resolved == nil {
			resolved = item.ScheduledAt
		}
		if resolved == nil {
			return NewBadRequest("a schedule time is required")
		}
		if !item.HasContent() {
			return NewBadRequest("content or media is required to be scheduled")
		}

		// Scheduling is the moment correctness is guaranteed: one failing
		// channel aborts the whole transition.
		mediaTypes := MediaTypesOf(*item)
		var failures []ChannelValidationFailure
		for _, post := range item.Posts {
			result := platforms.Validate(post.EffectiveContent(*item), mediaTypes, post.Platform, item.Type)
			if !result.OK {
				failures = append(failures, ChannelValidationFailure{
					ChannelID: post.ChannelID,
					Channel:   post.Channel.Name,
					Platform:  post.Platform,
					Reasons:   result.Errors,
				})
			}
		}
		if len(failures) > 0 {
			return ValidationError{Failures: failures}
		}

		if err := tx.Model(&models.Publication{}).Where("id = ?", item.ID).Updates(map[string]any{
			"status":       models.PublicationStatusScheduled,
			"scheduled_at": *resolved,
		}).Error; err != nil {
			return err
		}
		item.Status = models.PublicationStatusScheduled
		item.ScheduledAt = resolved

		// The whole dispatch cycle restarts atomically.
		if err := resetPublicationPosts(tx, item.ID); err != nil {
			return err
		}
		return RefreshEffectiveAt(tx, item)
	default:
		return NewBadRequest("status %s cannot be entered directly", status)
	}
}

// resetPublicationPosts un-commits prior scheduling: every post returns to
// pending with schedule, error and publish state cleared.
func resetPublicationPosts(tx *gorm.DB, publicationID uint) error {
	return tx.Model(&models.Post{}).
		Where("publication_id = ?", publicationID).
		Updates(map[string]any{
			"status":        models.PostStatusPending,
			"scheduled_at":  nil,
			"error_message": nil,
			"published_at":  nil,
		}).Error
}

// RevalidatePublicationPosts re-runs the platform gate over every
// non-published post after a content or media change. Failures are written
// onto the posts; when the publication is already committed (past ready)
// they additionally downgrade it to failed.
func RevalidatePublicationPosts(tx *gorm.DB, item *models.Publication) error {
	var posts []models.Post
	if err := tx.
		Where("publication_id = ? AND status != ?", item.ID, models.PostStatusPublished).
		Find(&posts).Error; err != nil {
		return err
	}

	committed := item.Status != models.PublicationStatusDraft && item.Status != models.PublicationStatusReady
	mediaTypes := MediaTypesOf(*item)

	var anyFailed bool
	for _, post := range posts {
		result := platforms.Validate(post.EffectiveContent(*item), mediaTypes, post.Platform, item.Type)
		if result.OK {
			if post.Status == models.PostStatusFailed {
				// A saved fix recovers the post into the dispatch queue.
				if err := tx.Model(&post).Updates(map[string]any{
					"status":        models.PostStatusPending,
					"error_message": nil,
				}).Error; err != nil {
					return err
				}
			}
			continue
		}

		anyFailed = true
		message := strings.Join(result.Errors, "; ")
		if err := tx.Model(&post).Updates(map[string]any{
			"status":        models.PostStatusFailed,
			"error_message": message,
		}).Error; err != nil {
			return err
		}
	}

	if anyFailed && committed {
		log.Warn().Uint("publication", item.ID).Msg("Edit broke platform constraints, downgrading publication...")
		item.Status = models.PublicationStatusFailed
		return tx.Model(&models.Publication{}).
			Where("id = ?", item.ID).
			Update("status", models.PublicationStatusFailed).Error
	}

	return nil
}

func ArchivePublication(user models.Account, item *models.Publication) error {
	now := time.Now()
	item.ArchivedAt = &now
	item.ArchivedBy = &user.ID
	return database.C.Model(&models.Publication{}).Where("id = ?", item.ID).Updates(map[string]any{
		"archived_at": now,
		"archived_by": user.ID,
	}).Error
}

func UnarchivePublication(item *models.Publication) error {
	item.ArchivedAt = nil
	item.ArchivedBy = nil
	return database.C.Model(&models.Publication{}).Where("id = ?", item.ID).Updates(map[string]any{
		"archived_at": nil,
		"archived_by": nil,
	}).Error
}

func DeletePublication(item models.Publication) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		return deletePublicationTx(tx, item)
	})
}

func deletePublicationTx(tx *gorm.DB, item models.Publication) error {
	if err := tx.Where("publication_id = ?", item.ID).Delete(&models.Post{}).Error; err != nil {
		return err
	}
	if err := tx.Where("publication_id = ?", item.ID).Delete(&models.PublicationMedia{}).Error; err != nil {
		return err
	}
	if err := tx.Where("publication_id = ?", item.ID).Delete(&models.RelationItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Publication{}, item.ID).Error
}

// MovePublication rehomes a publication into another project. Channels and
// relation groups are project scoped, so its posts and memberships cannot
// survive the move; it lands as a schedule-less draft.
func MovePublication(tx *gorm.DB, item *models.Publication, projectID uint) error {
	if err := tx.Where("publication_id = ?", item.ID).Delete(&models.Post{}).Error; err != nil {
		return err
	}
	if err := tx.Where("publication_id = ?", item.ID).Delete(&models.RelationItem{}).Error; err != nil {
		return err
	}

	if err := tx.Model(&models.Publication{}).Where("id = ?", item.ID).Updates(map[string]any{
		"project_id":   projectID,
		"status":       models.PublicationStatusDraft,
		"scheduled_at": nil,
	}).Error; err != nil {
		return err
	}
	item.ProjectID = projectID
	item.Status = models.PublicationStatusDraft
	item.ScheduledAt = nil
	item.Posts = nil

	return RefreshEffectiveAt(tx, item)
}
