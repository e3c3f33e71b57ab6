package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/http/exts"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/services"
)

var publicationTypes = []string{
	models.PublicationTypeArticle,
	models.PublicationTypePost,
	models.PublicationTypeNews,
	models.PublicationTypeStory,
	models.PublicationTypeVideo,
}

func listPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)
	projectID := uint(c.QueryInt("project", 0))
	if projectID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "project is required")
	}
	if services.Authority.CheckAccess(projectID, user.ID) != nil {
		return fiber.NewError(fiber.StatusForbidden, "you are not a member of this project")
	}

	tx := services.FilterPublicationWithProject(database.C, projectID)
	tx = services.FilterPublicationArchived(tx, c.QueryBool("archived", false))

	if len(c.Query("status")) > 0 {
		tx = services.FilterPublicationWithStatus(tx, c.Query("status"))
	}
	if len(c.Query("type")) > 0 {
		tx = services.FilterPublicationWithType(tx, c.Query("type"))
	}
	if len(c.Query("tag")) > 0 {
		tx = services.FilterPublicationWithTag(tx, c.Query("tag"))
	}
	if len(c.Query("probe")) > 0 {
		tx = services.FilterPublicationWithFuzzySearch(tx, c.Query("probe"))
	}

	countTx := tx
	count, err := services.CountPublication(countTx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPublication(tx, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func createPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Project            uint                      `json:"project" validate:"required"`
		Type               string                    `json:"type" validate:"required"`
		Title              *string                   `json:"title"`
		Description        *string                   `json:"description"`
		Body               *string                   `json:"body"`
		Tags               []string                  `json:"tags"`
		Language           string                    `json:"language"`
		Status             string                    `json:"status"`
		ScheduledAt        *time.Time                `json:"scheduled_at"`
		Metadata           map[string]any            `json:"metadata"`
		SourceRef          *string                   `json:"source_ref"`
		Attachments        []services.MediaSetEntry  `json:"attachments"`
		Channels           []uint                    `json:"channels"`
		Signature          *uint                     `json:"signature"`
		SignatureOverrides map[uint]string           `json:"signature_overrides"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if !lo.Contains(publicationTypes, data.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown publication type")
	}

	item := models.Publication{
		Type:        data.Type,
		Title:       data.Title,
		Description: data.Description,
		Body:        data.Body,
		Tags:        data.Tags,
		Language:    data.Language,
		Status:      data.Status,
		ScheduledAt: data.ScheduledAt,
		Metadata:    data.Metadata,
		SourceRef:   data.SourceRef,
		ProjectID:   data.Project,
		Attachments: lo.Map(data.Attachments, func(entry services.MediaSetEntry, idx int) models.PublicationMedia {
			return models.PublicationMedia{
				MediaID:   entry.MediaID,
				Position:  idx,
				IsSpoiler: entry.IsSpoiler,
			}
		}),
	}

	item, err = services.NewPublication(user, item, data.Channels, services.FanOutOptions{
		ScheduledAt: data.ScheduledAt,
		SignatureID: data.Signature,
		Overrides:   data.SignatureOverrides,
	})
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func editPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	var data struct {
		Title       *string        `json:"title"`
		Description *string        `json:"description"`
		Body        *string        `json:"body"`
		Tags        []string       `json:"tags"`
		Language    string         `json:"language"`
		Metadata    map[string]any `json:"metadata"`
		SourceRef   *string        `json:"source_ref"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return remapServiceError(err)
	}

	item.Title = data.Title
	item.Description = data.Description
	item.Body = data.Body
	item.Tags = data.Tags
	item.Language = data.Language
	item.Metadata = data.Metadata
	item.SourceRef = data.SourceRef

	if err := services.EditPublication(&item); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func deletePublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, true); err != nil {
		return remapServiceError(err)
	}

	if err := services.DeletePublication(item); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func changePublicationStatus(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	var data struct {
		Status      string     `json:"status" validate:"required"`
		ScheduledAt *time.Time `json:"scheduled_at"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return remapServiceError(err)
	}

	if err := services.ChangePublicationStatus(&item, data.Status, data.ScheduledAt); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func archivePublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return remapServiceError(err)
	}

	if err := services.ArchivePublication(user, &item); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func unarchivePublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return remapServiceError(err)
	}

	if err := services.UnarchivePublication(&item); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func fanOutPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	var data struct {
		Channels           []uint          `json:"channels" validate:"required,min=1"`
		ScheduledAt        *time.Time      `json:"scheduled_at"`
		Signature          *uint           `json:"signature"`
		SignatureOverrides map[uint]string `json:"signature_overrides"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return remapServiceError(err)
	}

	posts, err := services.CreatePosts(item, data.Channels, services.FanOutOptions{
		ScheduledAt: data.ScheduledAt,
		SignatureID: data.Signature,
		Overrides:   data.SignatureOverrides,
	})
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(posts)
}

func bulkApplyPublications(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		IDs       []uint                    `json:"ids" validate:"required,min=1"`
		Operation string                    `json:"operation" validate:"required"`
		Status    *models.PublicationStatus `json:"status"`
		Project   *uint                     `json:"project"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	count, err := services.BulkApplyPublications(user, data.IDs, data.Operation, services.BulkExtra{
		Status:    data.Status,
		ProjectID: data.Project,
	})
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}
