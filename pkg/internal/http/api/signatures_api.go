package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/http/exts"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/services"
)

type signatureVariantPayload struct {
	ChannelID *uint   `json:"channel_id"`
	Language  *string `json:"language"`
	Content   string  `json:"content" validate:"required"`
}

func listSignature(c *fiber.Ctx) error {
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

	signatures, err := services.ListSignatures(projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(signatures)
}

func createSignature(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Project  uint                      `json:"project" validate:"required"`
		Name     string                    `json:"name" validate:"required"`
		Variants []signatureVariantPayload `json:"variants" validate:"required,min=1,dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if err := services.Authority.CheckPermission(data.Project, user.ID, services.CapabilityManageSignatures); err != nil {
		return remapServiceError(err)
	}

	signature := models.Signature{
		Name:      data.Name,
		ProjectID: data.Project,
		Variants: lo.Map(data.Variants, func(variant signatureVariantPayload, index int) models.SignatureVariant {
			return models.SignatureVariant{
				ChannelID: variant.ChannelID,
				Language:  variant.Language,
				Content:   variant.Content,
			}
		}),
	}

	signature, err = services.NewSignature(signature)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(signature)
}

func editSignature(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("signatureId", 0)

	var data struct {
		Name     string                    `json:"name" validate:"required"`
		Variants []signatureVariantPayload `json:"variants" validate:"required,min=1,dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var signature models.Signature
	if err := database.C.Where("id = ?", id).Preload("Variants").First(&signature).Error; err != nil {
		return remapServiceError(err)
	}
	if err := services.Authority.CheckPermission(signature.ProjectID, user.ID, services.CapabilityManageSignatures); err != nil {
		return remapServiceError(err)
	}

	signature.Name = data.Name
	signature.Variants = lo.Map(data.Variants, func(variant signatureVariantPayload, index int) models.SignatureVariant {
		return models.SignatureVariant{
			SignatureID: signature.ID,
			ChannelID:   variant.ChannelID,
			Language:    variant.Language,
			Content:     variant.Content,
		}
	})

	signature, err = services.UpdateSignature(signature)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(signature)
}

func deleteSignature(c *fiber.Ctx) error {
	user, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	id, _ := c.ParamsInt("signatureId", 0)

	var signature models.Signature
	if err := database.C.Where("id = ?", id).First(&signature).Error; err != nil {
		return remapServiceError(err)
	}
	if err := services.Authority.CheckPermission(signature.ProjectID, user.ID, services.CapabilityManageSignatures); err != nil {
		return remapServiceError(err)
	}

	if err := services.DeleteSignature(signature); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
