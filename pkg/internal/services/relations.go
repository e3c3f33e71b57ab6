package services

import (
	"errors"
	"fmt"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"gorm.io/gorm"
)

func GetRelationGroup(tx *gorm.DB, id uint) (models.RelationGroup, error) {
	var group models.RelationGroup
	if err := tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Publication").
		Where("id = ?", id).
		First(&group).Error; err != nil {
		return group, err
	}
	return group, nil
}

// LinkPublications joins two publications of one kind of relation. When the
// target already sits in a group of that kind the subject joins it;
// otherwise a fresh group is seeded with the target as origin.
func LinkPublications(subject models.Publication, target models.Publication, kind string) (models.RelationGroup, error) {
	var group models.RelationGroup

	if subject.ID == target.ID {
		return group, NewIncompatibleLink("a publication cannot be linked to itself")
	}
	if subject.ProjectID != target.ProjectID {
		return group, NewIncompatibleLink("publications belong to different projects")
	}
	if subject.Type != target.Type {
		return group, NewIncompatibleLink("publications have different content types")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		targetItem, err := findRelationMembership(tx, target.ID, kind)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil {
			if group, err = GetRelationGroup(tx, targetItem.GroupID); err != nil {
				return err
			}
		} else {
			group = models.RelationGroup{
				Kind:      kind,
				Name:      relationGroupName(target, kind),
				OriginID:  &target.ID,
				ProjectID: target.ProjectID,
			}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			origin := models.RelationItem{
				GroupID:       group.ID,
				PublicationID: target.ID,
				Position:      0,
			}
			if err := tx.Create(&origin).Error; err != nil {
				return err
			}
			group.Items = []models.RelationItem{origin}
		}

		for _, member := range group.Items {
			if member.PublicationID == subject.ID {
				// Already linked, nothing to do.
				return nil
			}
		}

		if err := EnsureGroupLanguageUnique(tx, group, subject.Language, subject.ID); err != nil {
			return err
		}

		item := models.RelationItem{
			GroupID:       group.ID,
			PublicationID: subject.ID,
			Position:      len(group.Items),
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		group.Items = append(group.Items, item)

		return nil
	})

	return group, err
}

// EnsureGroupLanguageUnique rejects a member whose language another member
// of a localization group already uses. Non-localization kinds carry no
// language constraint.
func EnsureGroupLanguageUnique(tx *gorm.DB, group models.RelationGroup, language string, excluding uint) error {
	if group.Kind != models.RelationKindLocalization || len(language) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.RelationItem{}).
		Joins("JOIN publications ON publications.id = relation_items.publication_id").
		Where("relation_items.group_id = ?", group.ID).
		Where("publications.language = ?", language).
		Where("relation_items.publication_id != ?", excluding).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewDuplicateLanguage("group already has a member in language %s", language)
	}

	return nil
}

// EnsurePublicationLanguageUnique re-checks every localization group the
// publication sits in, for language edits after linking.
func EnsurePublicationLanguageUnique(item models.Publication) error {
	var items []models.RelationItem
	if err := database.C.
		Joins("JOIN relation_groups ON relation_groups.id = relation_items.group_id").
		Where("relation_items.publication_id = ?", item.ID).
		Where("relation_groups.kind = ?", models.RelationKindLocalization).
		Find(&items).Error; err != nil {
		return err
	}

	for _, membership := range items {
		group := models.RelationGroup{
			BaseModel: models.BaseModel{ID: membership.GroupID},
			Kind:      models.RelationKindLocalization,
		}
		if err := EnsureGroupLanguageUnique(database.C, group, item.Language, item.ID); err != nil {
			return err
		}
	}

	return nil
}

// UnlinkPublication drops the publication from every group of the given
// kind. Emptied groups stay behind; the janitor sweeps them.
func UnlinkPublication(item models.Publication, kind string) error {
	return database.C.
		Where("publication_id = ?", item.ID).
		Where("group_id IN (?)", database.C.Model(&models.RelationGroup{}).Select("id").Where("kind = ?", kind)).
		Delete(&models.RelationItem{}).Error
}

func findRelationMembership(tx *gorm.DB, publicationID uint, kind string) (models.RelationItem, error) {
	var item models.RelationItem
	err := tx.
		Joins("JOIN relation_groups ON relation_groups.id = relation_items.group_id").
		Where("relation_items.publication_id = ?", publicationID).
		Where("relation_groups.kind = ?", kind).
		First(&item).Error
	return item, err
}

func relationGroupName(origin models.Publication, kind string) string {
	if origin.Title != nil && len(*origin.Title) > 0 {
		return *origin.Title
	}
	return fmt.Sprintf("%s #%d", kind, origin.ID)
}
