package services

import (
	"errors"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"gorm.io/gorm"
)

type Capability = string

const (
	CapabilityCreatePublications    = Capability("publications.create")
	CapabilityReadPublications      = Capability("publications.read")
	CapabilityUpdateOwnPublications = Capability("publications.update.own")
	CapabilityUpdateAllPublications = Capability("publications.update.all")
	CapabilityDeleteOwnPublications = Capability("publications.delete.own")
	CapabilityDeleteAllPublications = Capability("publications.delete.all")
	CapabilityManageChannels        = Capability("channels.manage")
	CapabilityManageSignatures      = Capability("signatures.manage")
	CapabilityManageMedia           = Capability("media.manage")
)

// PermissionAuthority is the external yes/no permission contract. The core
// only ever consumes the decision; how it is made is not its business.
type PermissionAuthority interface {
	CheckAccess(projectID, userID uint) error
	CheckPermission(projectID, userID uint, capability Capability) error
}

// Authority is the process-wide decision point, replaceable in tests.
var Authority PermissionAuthority = LocalAuthority{}

var capabilityRoles = map[Capability]models.ProjectRole{
	CapabilityReadPublications:      models.ProjectRoleViewer,
	CapabilityCreatePublications:    models.ProjectRoleEditor,
	CapabilityUpdateOwnPublications: models.ProjectRoleEditor,
	CapabilityDeleteOwnPublications: models.ProjectRoleEditor,
	CapabilityUpdateAllPublications: models.ProjectRoleManager,
	CapabilityDeleteAllPublications: models.ProjectRoleManager,
	CapabilityManageChannels:        models.ProjectRoleManager,
	CapabilityManageSignatures:      models.ProjectRoleEditor,
	CapabilityManageMedia:           models.ProjectRoleEditor,
}

// LocalAuthority decides against the project membership table.
type LocalAuthority struct{}

func (LocalAuthority) CheckAccess(projectID, userID uint) error {
	var count int64
	if err := database.C.Model(&models.ProjectMember{}).
		Where("project_id = ? AND account_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrForbidden
	}
	return nil
}

func (LocalAuthority) CheckPermission(projectID, userID uint, capability Capability) error {
	required, ok := capabilityRoles[capability]
	if !ok {
		return ErrForbidden
	}

	var member models.ProjectMember
	if err := database.C.
		Where("project_id = ? AND account_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	if member.Role < required {
		return ErrForbidden
	}
	return nil
}

// CanModifyPublication applies the creator-or-elevated rule: creators act on
// their own rows with the own-scoped capability, everyone else needs the
// project-wide one.
func CanModifyPublication(user models.Account, item models.Publication, deleting bool) error {
	var own, all Capability
	if deleting {
		own, all = CapabilityDeleteOwnPublications, CapabilityDeleteAllPublications
	} else {
		own, all = CapabilityUpdateOwnPublications, CapabilityUpdateAllPublications
	}

	if item.CreatorID == user.ID {
		return Authority.CheckPermission(item.ProjectID, user.ID, own)
	}
	return Authority.CheckPermission(item.ProjectID, user.ID, all)
}
