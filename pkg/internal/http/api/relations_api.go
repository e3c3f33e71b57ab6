package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/http/exts"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/services"
)

func linkPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	var data struct {
		Target uint   `json:"target" validate:"required"`
		Kind   string `json:"kind"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if len(data.Kind) == 0 {
		data.Kind = models.RelationKindLocalization
	}

	subject, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, subject, false); err != nil {
		return remapServiceError(err)
	}
	target, err := services.GatePublication(user, data.Target)
	if err != nil {
		return remapServiceError(err)
	}

	group, err := services.LinkPublications(subject, target, data.Kind)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(group)
}

func unlinkPublication(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("publicationId", 0)

	kind := c.Query("kind", models.RelationKindLocalization)

	item, err := services.GatePublication(user, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if err := services.CanModifyPublication(user, item, false); err != nil {
		return remapServiceError(err)
	}

	if err := services.UnlinkPublication(item, kind); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func getRelationGroup(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("groupId", 0)

	group, err := services.GetRelationGroup(database.C, uint(id))
	if err != nil {
		return remapServiceError(err)
	}
	if services.Authority.CheckAccess(group.ProjectID, user.ID) != nil {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}

	return c.JSON(group)
}
