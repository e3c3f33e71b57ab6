package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PublicationTypeArticle = "article"
	PublicationTypePost    = "post"
	PublicationTypeNews    = "news"
	PublicationTypeStory   = "story"
	PublicationTypeVideo   = "video"
)

type PublicationStatus = string

const (
	// Statuses owned by this service.
	PublicationStatusDraft     = PublicationStatus("draft")
	PublicationStatusReady     = PublicationStatus("ready")
	PublicationStatusScheduled = PublicationStatus("scheduled")
	PublicationStatusFailed    = PublicationStatus("failed")

	// Statuses written back by the dispatch worker.
	PublicationStatusProcessing = PublicationStatus("processing")
	PublicationStatusPublished  = PublicationStatus("published")
	PublicationStatusPartial    = PublicationStatus("partial")
	PublicationStatusExpired    = PublicationStatus("expired")
)

type Publication struct {
	BaseModel

	Type        string                      `json:"type"`
	Title       *string                     `json:"title"`
	Description *string                     `json:"description"`
	Body        *string                     `json:"body"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Language    string                      `json:"language"`
	Status      PublicationStatus           `json:"status" gorm:"index"`
	Metadata    datatypes.JSONMap           `json:"metadata"`

	ScheduledAt *time.Time `json:"scheduled_at"`
	// EffectiveAt is the single sortable timestamp list views order by,
	// refreshed on every status or schedule change.
	EffectiveAt time.Time `json:"effective_at" gorm:"index"`

	// SourceRef points back at the ingested item this publication was
	// drafted from, when there is one.
	SourceRef *string `json:"source_ref"`

	ArchivedAt *time.Time `json:"archived_at"`
	ArchivedBy *uint      `json:"archived_by"`

	Posts       []Post             `json:"posts" gorm:"constraint:OnDelete:CASCADE"`
	Attachments []PublicationMedia `json:"attachments" gorm:"constraint:OnDelete:CASCADE"`

	ProjectID uint    `json:"project_id" gorm:"index"`
	Project   Project `json:"project"`
	CreatorID uint    `json:"creator_id"`
}

// HasContent reports whether the publication carries any effective
// content or media, the minimum for leaving draft.
func (v Publication) HasContent() bool {
	if v.Body != nil && len(*v.Body) > 0 {
		return true
	}
	return len(v.Attachments) > 0
}
