package models

import "gorm.io/datatypes"

// Channel is a configured destination on an external platform. The core
// treats channels as read-only except for project scoping checks.
type Channel struct {
	BaseModel

	Name        string            `json:"name"`
	Platform    string            `json:"platform"`
	Credentials datatypes.JSONMap `json:"-"`
	IsActive    bool              `json:"is_active"`

	ProjectID uint    `json:"project_id" gorm:"index"`
	Project   Project `json:"project"`
}
