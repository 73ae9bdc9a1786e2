// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Snippet represents a shared code snippet.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize this
// struct to/from JSON. The snippet carries no secret material, so every field
// is exported and serialized.
//
// INVARIANTS:
//   - Language is always stored lowercase (normalised by the service layer).
//   - Views only ever increases; the only way it "resets" is deleting the row.
//
// WHY Author *User (a pointer)?
// Author is a denormalised join: the repository attaches the owning user's
// record when reading snippets. If the author record is missing, Author stays
// nil and the JSON field is omitted — a missing author is not an error.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Complexity  string    `json:"complexity,omitempty"` // e.g. "O(n)", "O(n log n)"
	AuthorID    string    `json:"authorId"`
	Author      *User     `json:"author,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SnippetInput carries the caller-supplied fields for creating a snippet.
// ID, Views and timestamps are assigned by the repository, never by the caller.
type SnippetInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Complexity  string   `json:"complexity"`
	IsPublic    *bool    `json:"isPublic"` // nil means "default" (public)
}

// SnippetPatch carries a partial update. Pointer fields distinguish
// "not supplied" (nil) from "supplied as empty" — the classic Go PATCH idiom.
type SnippetPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Code        *string   `json:"code"`
	Language    *string   `json:"language"`
	Topics      *[]string `json:"topics"`
	Complexity  *string   `json:"complexity"`
	IsPublic    *bool     `json:"isPublic"`
}

// UserStats is the derived, computed-on-demand view of a user's activity.
type UserStats struct {
	TotalSnippets int64    `json:"totalSnippets"`
	TotalViews    int64    `json:"totalViews"`
	Languages     []string `json:"languages"`
}
