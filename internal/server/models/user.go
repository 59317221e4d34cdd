package models

// User is the identity record. Email is the login key and is globally unique,
// stored exactly as registered (lookups are case-sensitive). RefreshToken
// holds at most one valid value; issuing a new one invalidates the previous.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	RefreshToken string
}
