package models

// Account is the authenticated caller identity carried by the transport layer.
// It is not persisted here; the account directory lives outside this service.
type Account struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
