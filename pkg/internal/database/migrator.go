package database

import (
	"github.com/publicador/server/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Project{},
	&models.ProjectMember{},
	&models.Channel{},
	&models.Media{},
	&models.Publication{},
	&models.PublicationMedia{},
	&models.Post{},
	&models.RelationGroup{},
	&models.RelationItem{},
	&models.Signature{},
	&models.SignatureVariant{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
