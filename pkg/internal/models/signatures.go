package models

// Signature is a named author sign-off a project can append to outgoing
// posts, with per-channel and per-language variants.
type Signature struct {
	BaseModel

	Name string `json:"name"`

	ProjectID uint `json:"project_id" gorm:"index"`

	Variants []SignatureVariant `json:"variants" gorm:"constraint:OnDelete:CASCADE"`
}

// SignatureVariant narrows a signature to a channel, a language, or both.
// A variant with neither acts as the fallback text.
type SignatureVariant struct {
	BaseModel

	SignatureID uint    `json:"signature_id" gorm:"index"`
	ChannelID   *uint   `json:"channel_id"`
	Language    *string `json:"language"`
	Content     string  `json:"content"`
}
