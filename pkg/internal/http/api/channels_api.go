package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/http/exts"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/services"
)

func listChannel(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	projectID := uint(c.QueryInt("project", 0))
	if projectID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "project is required")
	}
	if services.Authority.CheckAccess(projectID, user.ID) != nil {
		return fiber.NewError(fiber.StatusForbidden, "you are not a member of this project")
	}

	channels, err := services.ListChannels(projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(channels)
}

func createChannel(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Project     uint           `json:"project" validate:"required"`
		Name        string         `json:"name" validate:"required"`
		Platform    string         `json:"platform" validate:"required"`
		Credentials map[string]any `json:"credentials"`
		IsActive    *bool          `json:"is_active"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if err := services.Authority.CheckPermission(data.Project, user.ID, services.CapabilityManageChannels); err != nil {
		return remapServiceError(err)
	}

	channel := models.Channel{
		Name:        data.Name,
		Platform:    data.Platform,
		Credentials: data.Credentials,
		IsActive:    data.IsActive == nil || *data.IsActive,
		ProjectID:   data.Project,
	}

	channel, err = services.NewChannel(channel)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(channel)
}

func editChannel(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("channelId", 0)

	var data struct {
		Name        string         `json:"name" validate:"required"`
		Credentials map[string]any `json:"credentials"`
		IsActive    *bool          `json:"is_active"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var channel models.Channel
	if err := database.C.Where("id = ?", id).First(&channel).Error; err != nil {
		return remapServiceError(err)
	}
	if err := services.Authority.CheckPermission(channel.ProjectID, user.ID, services.CapabilityManageChannels); err != nil {
		return remapServiceError(err)
	}

	channel.Name = data.Name
	if data.Credentials != nil {
		channel.Credentials = data.Credentials
	}
	if data.IsActive != nil {
		channel.IsActive = *data.IsActive
	}

	channel, err = services.UpdateChannel(channel)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(channel)
}
