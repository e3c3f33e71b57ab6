package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/publicador/server/pkg/internal/http/exts"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/services"
)

func listProject(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	projects, err := services.ListProjects(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(projects)
}

func createProject(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	project, err := services.NewProject(user, models.Project{
		Name:        data.Name,
		Description: data.Description,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(project)
}
