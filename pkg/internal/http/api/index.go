package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/publicador/server/pkg/internal/services"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		projects := api.Group("/projects").Name("Projects API")
		{
			projects.Get("/", listProject)
			projects.Post("/", createProject)
		}

		channels := api.Group("/channels").Name("Channels API")
		{
			channels.Get("/", listChannel)
			channels.Post("/", createChannel)
			channels.Put("/:channelId", editChannel)
		}

		signatures := api.Group("/signatures").Name("Signatures API")
		{
			signatures.Get("/", listSignature)
			signatures.Post("/", createSignature)
			signatures.Put("/:signatureId", editSignature)
			signatures.Delete("/:signatureId", deleteSignature)
		}

		api.Post("/media", registerMedia)

		publications := api.Group("/publications").Name("Publications API")
		{
			publications.Get("/", listPublication)
			publications.Post("/", createPublication)
			publications.Post("/bulk", bulkApplyPublications)
			publications.Get("/:publicationId", getPublication)
			publications.Put("/:publicationId", editPublication)
			publications.Delete("/:publicationId", deletePublication)

			publications.Post("/:publicationId/status", changePublicationStatus)
			publications.Post("/:publicationId/archive", archivePublication)
			publications.Delete("/:publicationId/archive", unarchivePublication)
			publications.Post("/:publicationId/posts", fanOutPublication)

			publications.Post("/:publicationId/media", appendPublicationMedia)
			publications.Put("/:publicationId/media", replacePublicationMedia)
			publications.Post("/:publicationId/media/reorder", reorderPublicationMedia)
			publications.Delete("/:publicationId/media/:mediaId", removePublicationMedia)

			publications.Post("/:publicationId/link", linkPublication)
			publications.Delete("/:publicationId/link", unlinkPublication)
		}

		api.Get("/relations/:groupId", getRelationGroup)
	}
}

// remapServiceError translates the core error taxonomy into transport
// statuses; NotFound deliberately covers hidden rows too.
func remapServiceError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, services.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if errors.Is(err, services.ErrForbidden) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	var validation services.ValidationError
	if errors.As(err, &validation) {
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	}
	var incompatible services.IncompatibleLinkError
	if errors.As(err, &incompatible) {
		return fiber.NewError(fiber.StatusBadRequest, incompatible.Error())
	}
	var duplicate services.DuplicateLanguageError
	if errors.As(err, &duplicate) {
		return fiber.NewError(fiber.StatusBadRequest, duplicate.Error())
	}
	var badRequest services.BadRequestError
	if errors.As(err, &badRequest) {
		return fiber.NewError(fiber.StatusBadRequest, badRequest.Error())
	}

	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
