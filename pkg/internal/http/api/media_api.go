package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/publicador/server/pkg/internal/http/exts"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/services"
)

func registerMedia(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Project    uint   `json:"project" validate:"required"`
		Type       string `json:"type" validate:"required"`
		StorageRef string `json:"storage_ref" validate:"required"`
		MimeType   string `json:"mime_type"`
		SizeBytes  int64  `json:"size_bytes"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if err := services.Authority.CheckPermission(data.Project, user.ID, services.CapabilityManageMedia); err != nil {
		return remapServiceError(err)
	}

	media, err := services.RegisterMedia(models.Media{
		Type:       data.Type,
		StorageRef: data.StorageRef,
		MimeType:   data.MimeType,
		SizeBytes:  data.SizeBytes,
		ProjectID:  data.Project,
	})
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(media)
}

func gateMediaMutation(c *fiber.Ctx) (models.Account, models.Publication, error) {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return user, models.Publication{}, err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return user, item, remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return user, item, remapServiceError(err)
	}

	return user, item, nil
}

func appendPublicationMedia(c *fiber.Ctx) error {
	_, item, err := gateMediaMutation(c)
	if err != nil {
		return err
	}

	var data struct {
		MediaID   uint `json:"media_id" validate:"required"`
		IsSpoiler bool `json:"is_spoiler"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.AppendMedia(&item, data.MediaID, data.IsSpoiler); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func removePublicationMedia(c *fiber.Ctx) error {
	_, item, err := gateMediaMutation(c)
	if err != nil {
		return err
	}
	mediaID, _ := c.ParamsInt("mediaId", 0)

	if err := services.RemoveMedia(&item, uint(mediaID)); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func reorderPublicationMedia(c *fiber.Ctx) error {
	_, item, err := gateMediaMutation(c)
	if err != nil {
		return err
	}

	var data struct {
		MediaIDs []uint `json:"media_ids" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ReorderMedia(&item, data.MediaIDs); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}

func replacePublicationMedia(c *fiber.Ctx) error {
	_, item, err := gateMediaMutation(c)
	if err != nil {
		return err
	}

	var data struct {
		Media []services.MediaSetEntry `json:"media"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ReplaceMediaSet(&item, data.Media); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(item)
}
