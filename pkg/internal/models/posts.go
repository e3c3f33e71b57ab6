package models

import "time"

type PostStatus = string

const (
	PostStatusPending   = PostStatus("pending")
	PostStatusScheduled = PostStatus("scheduled")
	PostStatusPublished = PostStatus("published")
	PostStatusFailed    = PostStatus("failed")
)

// Post is one delivery instance of a publication on one channel. Rows are
// created by the fan-out engine only and never outlive their publication.
type Post struct {
	BaseModel

	PublicationID uint        `json:"publication_id" gorm:"index"`
	Publication   Publication `json:"publication"`
	ChannelID     uint        `json:"channel_id" gorm:"index"`
	Channel       Channel     `json:"channel"`

	// Platform is denormalized from the channel at creation time so the
	// audit trail stays stable if the channel is later repointed.
	Platform string `json:"platform"`

	Status PostStatus `json:"status" gorm:"index"`

	// Content overrides the publication body for this channel when set.
	Content     *string    `json:"content"`
	Signature   *string    `json:"signature"`
	ScheduledAt *time.Time `json:"scheduled_at"`

	ErrorMessage *string    `json:"error_message"`
	PublishedAt  *time.Time `json:"published_at"`
}

// EffectiveContent resolves the per-post override against the owning
// publication's body.
func (v Post) EffectiveContent(pub Publication) *string {
	if v.Content != nil && len(*v.Content) > 0 {
		return v.Content
	}
	return pub.Body
}
