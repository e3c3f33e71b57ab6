package models

type MediaType = string

const (
	MediaTypeImage    = MediaType("image")
	MediaTypeVideo    = MediaType("video")
	MediaTypeAudio    = MediaType("audio")
	MediaTypeDocument = MediaType("document")
)

// Media records the descriptor returned by the external media store; the
// bytes themselves never pass through this service.
type Media struct {
	BaseModel

	Type       MediaType `json:"type"`
	StorageRef string    `json:"storage_ref"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`

	ProjectID uint `json:"project_id" gorm:"index"`
}

// PublicationMedia is the ordered publication-to-media link. Positions are
// kept contiguous from zero across every mutation of the set.
type PublicationMedia struct {
	PublicationID uint  `json:"publication_id" gorm:"primaryKey;autoIncrement:false"`
	MediaID       uint  `json:"media_id" gorm:"primaryKey;autoIncrement:false"`
	Media         Media `json:"media"`

	Position  int  `json:"position"`
	IsSpoiler bool `json:"is_spoiler"`
}
