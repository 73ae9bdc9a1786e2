package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash `json:"-"`?
// The dash tells encoding/json to NEVER serialize this field. Credential
// material must not leak into API responses, even by accident. Users created
// through GitHub OAuth have an empty hash — they can only sign in via OAuth.
//
// Email is UNIQUE in the database; it is the natural key used by the
// credentials sign-in flow and by the OAuth upsert.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty"` // profile picture URL
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
