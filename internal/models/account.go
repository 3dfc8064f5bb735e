package models

// Account is a registered diary owner. Identifier is the user-chosen login key
// and is unique across the accounts directory.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Identifier   string `json:"identifier"`
	PasswordHash string `json:"passwordHash"`
}
