package services

import (
	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"gorm.io/gorm"
)

func GetProject(id uint) (models.Project, error) {
	var project models.Project
	if err := database.C.Where("id = ?", id).First(&project).Error; err != nil {
		return project, err
	}
	return project, nil
}

func ListProjects(user models.Account) ([]models.Project, error) {
	var projects []models.Project
	err := database.C.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.account_id = ?", user.ID).
		Find(&projects).Error
	return projects, err
}

// NewProject creates a project with its creator as owner.
func NewProject(user models.Account, item models.Project) (models.Project, error) {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: item.ID,
			AccountID: user.ID,
			Role:      models.ProjectRoleOwner,
		}
		return tx.Create(&member).Error
	})
	return item, err
}
