// Package repository declares the storage interfaces the service layer
// programs against. The concrete implementation lives in repository/sqlite;
// tests substitute in-memory mocks. Programming to these interfaces keeps the
// services free of SQL and swappable onto a different store later.
package repository

import (
	"context"

	"github.com/sakif/snippet-share/internal/model"
)

// SnippetFilters narrows a List call. Empty fields are ignored; supplied
// fields combine conjunctively (a snippet must match all of them).
type SnippetFilters struct {
	Language string // case-insensitive exact match
	Topic    string // membership test against the snippet's topics
	AuthorID string // exact match
	Search   string // case-insensitive substring over title, description, code
}

// SnippetRepository is the storage contract for snippets.
//
// CONCURRENCY CONTRACT:
// Every write method is a SINGLE atomic statement — there is no
// read-modify-write cycle anywhere in this interface for a concurrent writer
// to interleave with. Update takes the patch, not a merged record: the merge
// happens inside the engine, so two concurrent updates touching different
// fields both land, and writes to the same field are serialized (last writer
// wins, never a torn mix). The SQLite implementation gets the statement
// atomicity from the engine (single-writer, WAL mode); any replacement store
// must provide the same guarantee.
//
// Note that reading a snippet and counting a view are SEPARATE operations:
// GetByID never mutates, IncrementViews is its own serialized write. The
// service layer composes them so that read scaling isn't coupled to write
// serialization.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, filters SnippetFilters) ([]model.Snippet, error)
	Update(ctx context.Context, id string, patch model.SnippetPatch) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	GetUserStats(ctx context.Context, userID string) (*model.UserStats, error)
}

// TagRepository is the storage contract for the tag ledger.
//
// Recount recomputes every tag's count from the current snippet collection in
// one atomic statement. Tags themselves are a fixed seeded set — snippets may
// reference slugs with no tag row (they simply don't show up in the ledger),
// and a tag whose last referencing snippet is deleted keeps its row at count 0.
type TagRepository interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	ListTagsByType(ctx context.Context, tagType string) ([]model.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*model.Tag, error)
	RecountTags(ctx context.Context) error
}

// UserRepository is the storage contract for user accounts.
// There is deliberately no Delete: user removal (and what should happen to the
// snippets they own) is not part of this system's surface.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}
