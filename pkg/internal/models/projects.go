package models

type ProjectRole = int

const (
	ProjectRoleViewer = ProjectRole(iota)
	ProjectRoleEditor
	ProjectRoleManager
	ProjectRoleOwner
)

type Project struct {
	BaseModel

	Name        string `json:"name"`
	Description string `json:"description"`

	Members []ProjectMember `json:"members"`
}

type ProjectMember struct {
	BaseModel

	ProjectID uint        `json:"project_id" gorm:"uniqueIndex:idx_project_account"`
	AccountID uint        `json:"account_id" gorm:"uniqueIndex:idx_project_account"`
	Role      ProjectRole `json:"role"`
}
