package services

import (
	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type BulkOperation = string

const (
	BulkOperationDelete    = BulkOperation("delete")
	BulkOperationArchive   = BulkOperation("archive")
	BulkOperationUnarchive = BulkOperation("unarchive")
	BulkOperationSetStatus = BulkOperation("set_status")
	BulkOperationMove      = BulkOperation("move")
)

type BulkExtra struct {
	// Status is the target for set_status.
	Status *models.PublicationStatus `json:"status"`
	// ProjectID is the destination for move.
	ProjectID *uint `json:"project_id"`
}

// BulkApplyPublications runs one operation over a caller-chosen id list.
// Ids the caller is not authorized for are silently excluded; the result is
// only the count of publications actually touched. Items are processed
// sequentially, each in its own transaction, so a failure or cancellation
// mid-list never rolls back earlier items.
func BulkApplyPublications(user models.Account, ids []uint, operation BulkOperation, extra BulkExtra) (int, error) {
	switch operation {
	case BulkOperationDelete, BulkOperationArchive, BulkOperationUnarchive:
	case BulkOperationSetStatus:
		if extra.Status == nil {
			return 0, NewBadRequest("a target status is required for set_status")
		}
		if !lo.Contains([]models.PublicationStatus{
			models.PublicationStatusDraft,
			models.PublicationStatusReady,
			models.PublicationStatusScheduled,
			models.PublicationStatusFailed,
			models.PublicationStatusExpired,
		}, *extra.Status) {
			return 0, NewBadRequest("status %s cannot be set in bulk", *extra.Status)
		}
	case BulkOperationMove:
		if extra.ProjectID == nil {
			return 0, NewBadRequest("a target project is required for move")
		}
		if err := Authority.CheckPermission(*extra.ProjectID, user.ID, CapabilityCreatePublications); err != nil {
			return 0, ErrForbidden
		}
	default:
		return 0, NewBadRequest("unsupported bulk operation %s", operation)
	}

	var items []models.Publication
	if err := database.C.
		Select("id", "project_id", "creator_id", "status", "scheduled_at", "created_at").
		Where("id IN ?", lo.Uniq(ids)).
		Find(&items).Error; err != nil {
		return 0, err
	}

	deleting := operation == BulkOperationDelete
	authorized := lo.Filter(items, func(item models.Publication, index int) bool {
		if Authority.CheckAccess(item.ProjectID, user.ID) != nil {
			return false
		}
		return CanModifyPublication(user, item, deleting) == nil
	})

	var count int
	for _, item := range authorized {
		if err := bulkApplyOne(user, item, operation, extra); err != nil {
			log.Warn().Err(err).Uint("publication", item.ID).Str("operation", operation).
				Msg("A bulk operation skipped an item...")
			continue
		}
		count++
	}

	return count, nil
}

func bulkApplyOne(user models.Account, item models.Publication, operation BulkOperation, extra BulkExtra) error {
	switch operation {
	case BulkOperationDelete:
		return DeletePublication(item)
	case BulkOperationArchive:
		return ArchivePublication(user, &item)
	case BulkOperationUnarchive:
		return UnarchivePublication(&item)
	case BulkOperationSetStatus:
		return bulkSetStatus(item, *extra.Status)
	case BulkOperationMove:
		return database.C.Transaction(func(tx *gorm.DB) error {
			return MovePublication(tx, &item, *extra.ProjectID)
		})
	}
	return NewBadRequest("unsupported bulk operation %s", operation)
}

// bulkSetStatus mirrors the single-entity rule for draft/ready (posts are
// un-committed first) but deliberately skips the post-level validation pass
// for other targets; bulk callers accept that responsibility. A scheduled
// status still needs a schedule time: items without one are skipped.
func bulkSetStatus(item models.Publication, status models.PublicationStatus) error {
	if status == models.PublicationStatusScheduled && item.ScheduledAt == nil {
		return NewBadRequest("publication %d has no schedule time", item.ID)
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		uncommit := status == models.PublicationStatusDraft || status == models.PublicationStatusReady
		if uncommit {
			if err := resetPublicationPosts(tx, item.ID); err != nil {
				return err
			}
		}

		updates := map[string]any{"status": status}
		if uncommit {
			updates["scheduled_at"] = nil
		}
		if err := tx.Model(&models.Publication{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return err
		}
		item.Status = status
		if uncommit {
			item.ScheduledAt = nil
		}

		return RefreshEffectiveAt(tx, &item)
	})
}
