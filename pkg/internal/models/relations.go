package models

const RelationKindLocalization = "localization"

// RelationGroup is a named set of linked publications, e.g. one family of
// translations. Groups are project scoped like their members.
type RelationGroup struct {
	BaseModel

	Kind string `json:"kind" gorm:"index"`
	Name string `json:"name"`

	// OriginID remembers the publication the group was seeded from.
	OriginID *uint `json:"origin_id"`

	ProjectID uint `json:"project_id" gorm:"index"`

	Items []RelationItem `json:"items" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

type RelationItem struct {
	BaseModel

	GroupID       uint          `json:"group_id" gorm:"index"`
	PublicationID uint          `json:"publication_id" gorm:"index"`
	Publication   Publication   `json:"publication"`
	Position      int           `json:"position"`
}
