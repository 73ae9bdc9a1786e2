package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Benefits:
// - Fast: no disk I/O
// - Isolated: each test gets its own database
// - Clean: automatically destroyed when the connection closes
//
// newTestDB is a "test helper" — a function used only in tests to reduce boilerplate.
// The `t.Helper()` call tells Go's test framework to report errors at the CALLER's
// line number, not inside this function. This makes test failure output much clearer.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup registers a function to run when the test finishes.
	// This is like defer, but scoped to the test — even works in subtests.
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser provisions an author row so the LEFT JOIN has something to hit.
func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestSnippet creates a snippet and fails the test if it errors.
func createTestSnippet(t *testing.T, db *DB, snippet *model.Snippet) *model.Snippet {
	t.Helper()
	if snippet.Title == "" {
		snippet.Title = "test snippet"
	}
	if snippet.Code == "" {
		snippet.Code = "print('hello')"
	}
	if snippet.Language == "" {
		snippet.Language = "python"
	}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

// backdate shifts a snippet's created_at so ordering tests don't depend on
// sub-millisecond clock resolution.
func backdate(t *testing.T, db *DB, id string, d time.Duration) {
	t.Helper()
	_, err := db.conn.Exec(
		`UPDATE snippets SET created_at = ? WHERE id = ?`,
		time.Now().Add(-d), id,
	)
	if err != nil {
		t.Fatalf("failed to backdate snippet: %v", err)
	}
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	snippet := &model.Snippet{
		Title:    "Hello World",
		Code:     "print('hello')",
		Language: "python",
		IsPublic: true,
	}

	err := db.Create(context.Background(), snippet)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the snippet was modified in-place (pointer receiver!)
	if snippet.ID == "" {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.Views != 0 {
		t.Errorf("Create() Views = %d, want 0", snippet.Views)
	}
	if snippet.CreatedAt.IsZero() {
		t.Error("Create() did not set snippet.CreatedAt")
	}
	if snippet.UpdatedAt.IsZero() {
		t.Error("Create() did not set snippet.UpdatedAt")
	}

	t.Logf("Created snippet with ID: %s", snippet.ID)
}

func TestCreate_VerifyPersistence(t *testing.T) {
	db := newTestDB(t)

	original := createTestSnippet(t, db, &model.Snippet{
		Title:    "binary search",
		Code:     "def bsearch(xs, x): ...",
		Language: "python",
		Topics:   []string{"algorithm", "search"},
	})

	// Read it back from the database
	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Title != original.Title {
		t.Errorf("Title = %q, want %q", found.Title, original.Title)
	}
	if found.Code != original.Code {
		t.Errorf("Code = %q, want %q", found.Code, original.Code)
	}
	if len(found.Topics) != 2 || found.Topics[0] != "algorithm" || found.Topics[1] != "search" {
		t.Errorf("Topics = %v, want [algorithm search]", found.Topics)
	}
}

func TestCreate_NilTopicsBecomeEmptySlice(t *testing.T) {
	db := newTestDB(t)

	snippet := createTestSnippet(t, db, &model.Snippet{Topics: nil})

	found, err := db.GetByID(context.Background(), snippet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Topics == nil {
		t.Error("Topics should round-trip as an empty slice, not nil")
	}
	if len(found.Topics) != 0 {
		t.Errorf("Topics = %v, want empty", found.Topics)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestSnippet(t, db, &model.Snippet{Title: "fetch me"})

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Title != "fetch me" {
		t.Errorf("Title = %q, want %q", found.Title, "fetch me")
	}
}

func TestGetByID_AttachesAuthor(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "Jane", "jane@example.com")
	created := createTestSnippet(t, db, &model.Snippet{AuthorID: author.ID})

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Author == nil {
		t.Fatal("GetByID() Author = nil, want the joined user")
	}
	if found.Author.Name != "Jane" {
		t.Errorf("Author.Name = %q, want %q", found.Author.Name, "Jane")
	}
}

func TestGetByID_MissingAuthorTolerated(t *testing.T) {
	db := newTestDB(t)

	// An author_id pointing nowhere must not break reads — the LEFT JOIN
	// just leaves Author nil.
	created := createTestSnippet(t, db, &model.Snippet{AuthorID: "ghost-user"})

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Author != nil {
		t.Errorf("Author = %+v, want nil for a missing user row", found.Author)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent-id")

	// Verify we get our custom NotFound error, not a raw sql.ErrNoRows
	if err == nil {
		t.Fatal("GetByID() should have returned an error for nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetByID_DoesNotCountAView(t *testing.T) {
	db := newTestDB(t)
	created := createTestSnippet(t, db, &model.Snippet{})

	for i := 0; i < 3; i++ {
		if _, err := db.GetByID(context.Background(), created.ID); err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
	}

	found, _ := db.GetByID(context.Background(), created.ID)
	if found.Views != 0 {
		t.Errorf("Views after plain reads = %d, want 0 (reads never count views)", found.Views)
	}
}

// =========================================================================
// INCREMENT VIEWS TESTS
// =========================================================================

func TestIncrementViews(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	created := createTestSnippet(t, db, &model.Snippet{})

	for i := 0; i < 5; i++ {
		if err := db.IncrementViews(ctx, created.ID); err != nil {
			t.Fatalf("IncrementViews() #%d error = %v", i+1, err)
		}
	}

	found, err := db.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Views != 5 {
		t.Errorf("Views = %d, want 5", found.Views)
	}
}

func TestIncrementViews_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.IncrementViews(context.Background(), "nonexistent-id")
	if err == nil {
		t.Fatal("IncrementViews() should have returned an error for nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("IncrementViews() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestList_Empty(t *testing.T) {
	db := newTestDB(t)

	snippets, err := db.List(context.Background(), repository.SnippetFilters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(snippets) != 0 {
		t.Errorf("List() returned %d snippets, want 0", len(snippets))
	}
}

func TestList_ReturnsAll(t *testing.T) {
	db := newTestDB(t)

	createTestSnippet(t, db, &model.Snippet{Title: "first"})
	createTestSnippet(t, db, &model.Snippet{Title: "second"})
	createTestSnippet(t, db, &model.Snippet{Title: "third"})

	snippets, err := db.List(context.Background(), repository.SnippetFilters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(snippets) != 3 {
		t.Errorf("List() returned %d snippets, want 3", len(snippets))
	}
}

func TestList_NewestFirst(t *testing.T) {
	db := newTestDB(t)

	old := createTestSnippet(t, db, &model.Snippet{Title: "old"})
	backdate(t, db, old.ID, time.Minute)
	older := createTestSnippet(t, db, &model.Snippet{Title: "older"})
	backdate(t, db, older.ID, 2*time.Minute)
	newest := createTestSnippet(t, db, &model.Snippet{Title: "newest"})

	snippets, err := db.List(context.Background(), repository.SnippetFilters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 3 {
		t.Fatalf("List() returned %d snippets, want 3", len(snippets))
	}

	if snippets[0].ID != newest.ID {
		t.Errorf("snippets[0] = %q, want newest %q", snippets[0].Title, "newest")
	}
	if snippets[2].ID != older.ID {
		t.Errorf("snippets[2] = %q, want oldest %q", snippets[2].Title, "older")
	}
}

func TestList_FilterByLanguage(t *testing.T) {
	db := newTestDB(t)

	createTestSnippet(t, db, &model.Snippet{Title: "py", Language: "python"})
	createTestSnippet(t, db, &model.Snippet{Title: "go", Language: "go"})
	createTestSnippet(t, db, &model.Snippet{Title: "py2", Language: "python"})

	// Filter input is case-insensitive — "Python" matches stored "python".
	snippets, err := db.List(context.Background(), repository.SnippetFilters{Language: "Python"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("List(language=Python) returned %d snippets, want 2", len(snippets))
	}
	for _, s := range snippets {
		if s.Language != "python" {
			t.Errorf("snippet %q has language %q, want python", s.Title, s.Language)
		}
	}
}

func TestList_FilterByTopic(t *testing.T) {
	db := newTestDB(t)

	createTestSnippet(t, db, &model.Snippet{Title: "a", Topics: []string{"algorithm", "sorting"}})
	createTestSnippet(t, db, &model.Snippet{Title: "b", Topics: []string{"react"}})
	createTestSnippet(t, db, &model.Snippet{Title: "c", Topics: []string{"sorting"}})

	snippets, err := db.List(context.Background(), repository.SnippetFilters{Topic: "sorting"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 2 {
		t.Errorf("List(topic=sorting) returned %d snippets, want 2", len(snippets))
	}

	// A topic that is a substring of a stored topic must NOT match —
	// membership is whole-element equality, not substring.
	snippets, err = db.List(context.Background(), repository.SnippetFilters{Topic: "sort"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("List(topic=sort) returned %d snippets, want 0", len(snippets))
	}
}

func TestList_FilterByAuthor(t *testing.T) {
	db := newTestDB(t)
	jane := createTestUser(t, db, "Jane", "jane@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	createTestSnippet(t, db, &model.Snippet{Title: "janes", AuthorID: jane.ID})
	createTestSnippet(t, db, &model.Snippet{Title: "bobs", AuthorID: bob.ID})

	snippets, err := db.List(context.Background(), repository.SnippetFilters{AuthorID: jane.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 1 || snippets[0].Title != "janes" {
		t.Errorf("List(author=jane) = %d snippets, want exactly janes", len(snippets))
	}
}

func TestList_FilterBySearch(t *testing.T) {
	db := newTestDB(t)

	createTestSnippet(t, db, &model.Snippet{Title: "Binary Search Tree"})
	createTestSnippet(t, db, &model.Snippet{Title: "hooks demo", Description: "a SEARCHABLE example"})
	createTestSnippet(t, db, &model.Snippet{Title: "misc", Code: "// search here too"})
	createTestSnippet(t, db, &model.Snippet{Title: "unrelated"})

	// Case-insensitive substring over title OR description OR code.
	snippets, err := db.List(context.Background(), repository.SnippetFilters{Search: "search"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 3 {
		t.Errorf("List(search=search) returned %d snippets, want 3", len(snippets))
	}
}

func TestList_FiltersAreConjunctive(t *testing.T) {
	db := newTestDB(t)
	jane := createTestUser(t, db, "Jane", "jane@example.com")

	createTestSnippet(t, db, &model.Snippet{
		Title: "match", Language: "go", Topics: []string{"web"}, AuthorID: jane.ID,
	})
	createTestSnippet(t, db, &model.Snippet{
		Title: "wrong language", Language: "python", Topics: []string{"web"}, AuthorID: jane.ID,
	})
	createTestSnippet(t, db, &model.Snippet{
		Title: "wrong topic", Language: "go", Topics: []string{"database"}, AuthorID: jane.ID,
	})

	snippets, err := db.List(context.Background(), repository.SnippetFilters{
		Language: "go",
		Topic:    "web",
		AuthorID: jane.ID,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 1 || snippets[0].Title != "match" {
		t.Fatalf("List() with all filters returned %d snippets, want only the full match", len(snippets))
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func strPtr(s string) *string        { return &s }
func topicsPtr(ts ...string) *[]string { return &ts }

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	original := createTestSnippet(t, db, &model.Snippet{Title: "original title", Code: "original code"})

	err := db.Update(context.Background(), original.ID, model.SnippetPatch{
		Title:  strPtr("updated title"),
		Code:   strPtr("updated code"),
		Topics: topicsPtr("react"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Read it back and verify
	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}

	if found.Title != "updated title" {
		t.Errorf("Title after update = %q, want %q", found.Title, "updated title")
	}
	if found.Code != "updated code" {
		t.Errorf("Code after update = %q, want %q", found.Code, "updated code")
	}
	if len(found.Topics) != 1 || found.Topics[0] != "react" {
		t.Errorf("Topics after update = %v, want [react]", found.Topics)
	}
}

func TestUpdate_PartialPatchLeavesOtherFields(t *testing.T) {
	db := newTestDB(t)
	original := createTestSnippet(t, db, &model.Snippet{
		Title:    "keep this title",
		Code:     "keep this code",
		Language: "go",
		Topics:   []string{"web"},
	})

	err := db.Update(context.Background(), original.ID, model.SnippetPatch{
		Code: strPtr("only the code changes"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Code != "only the code changes" {
		t.Errorf("Code = %q, want the patched code", found.Code)
	}
	if found.Title != "keep this title" || found.Language != "go" {
		t.Errorf("unpatched fields changed: title=%q language=%q", found.Title, found.Language)
	}
	if len(found.Topics) != 1 || found.Topics[0] != "web" {
		t.Errorf("Topics = %v, want unchanged [web]", found.Topics)
	}
}

// Each write carries only its own fields, so two editors patching different
// fields can never undo each other — the merge happens in the engine, not
// from a possibly-stale copy in Go.
func TestUpdate_DisjointPatchesDoNotClobber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	snippet := createTestSnippet(t, db, &model.Snippet{
		Title: "original title",
		Code:  "original code",
	})

	if err := db.Update(ctx, snippet.ID, model.SnippetPatch{
		Title: strPtr("renamed by first editor"),
	}); err != nil {
		t.Fatalf("Update() (title) error = %v", err)
	}
	if err := db.Update(ctx, snippet.ID, model.SnippetPatch{
		Code: strPtr("rewritten by second editor"),
	}); err != nil {
		t.Fatalf("Update() (code) error = %v", err)
	}

	found, err := db.GetByID(ctx, snippet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "renamed by first editor" {
		t.Errorf("Title = %q, the code patch clobbered the rename", found.Title)
	}
	if found.Code != "rewritten by second editor" {
		t.Errorf("Code = %q, want the second editor's rewrite", found.Code)
	}
}

func TestUpdate_DoesNotTouchViews(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	snippet := createTestSnippet(t, db, &model.Snippet{})

	for i := 0; i < 3; i++ {
		if err := db.IncrementViews(ctx, snippet.ID); err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
	}

	// The patch has no views field at all — immutability by construction.
	if err := db.Update(ctx, snippet.ID, model.SnippetPatch{
		Title: strPtr("edited"),
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := db.GetByID(ctx, snippet.ID)
	if found.Views != 3 {
		t.Errorf("Views after update = %d, want 3 (views are immutable via Update)", found.Views)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), "nonexistent", model.SnippetPatch{
		Title: strPtr("test"),
	})

	if err == nil {
		t.Fatal("Update() should have returned an error for nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	snippet := createTestSnippet(t, db, &model.Snippet{Title: "to delete"})

	err := db.Delete(context.Background(), snippet.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Verify it's gone
	_, err = db.GetByID(context.Background(), snippet.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete: error = %v, want ErrNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "nonexistent-id")

	if err == nil {
		t.Fatal("Delete() should have returned an error for nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// USER STATS TESTS
// =========================================================================

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	jane := createTestUser(t, db, "Jane", "jane@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	a := createTestSnippet(t, db, &model.Snippet{AuthorID: jane.ID, Language: "go"})
	createTestSnippet(t, db, &model.Snippet{AuthorID: jane.ID, Language: "python"})
	createTestSnippet(t, db, &model.Snippet{AuthorID: jane.ID, Language: "go"})
	createTestSnippet(t, db, &model.Snippet{AuthorID: bob.ID, Language: "rust"})

	for i := 0; i < 4; i++ {
		if err := db.IncrementViews(ctx, a.ID); err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
	}

	stats, err := db.GetUserStats(ctx, jane.ID)
	if err != nil {
		t.Fatalf("GetUserStats() error = %v", err)
	}

	if stats.TotalSnippets != 3 {
		t.Errorf("TotalSnippets = %d, want 3", stats.TotalSnippets)
	}
	if stats.TotalViews != 4 {
		t.Errorf("TotalViews = %d, want 4", stats.TotalViews)
	}
	if len(stats.Languages) != 2 || stats.Languages[0] != "go" || stats.Languages[1] != "python" {
		t.Errorf("Languages = %v, want [go python]", stats.Languages)
	}
}

func TestGetUserStats_NoSnippets(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.GetUserStats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetUserStats() error = %v", err)
	}

	if stats.TotalSnippets != 0 || stats.TotalViews != 0 {
		t.Errorf("stats = %+v, want all zeroes", stats)
	}
	if stats.Languages == nil || len(stats.Languages) != 0 {
		t.Errorf("Languages = %v, want empty slice", stats.Languages)
	}
}

// =========================================================================
// FULL CRUD LIFECYCLE TEST
// =========================================================================

// TestFullCRUDLifecycle tests the complete create → read → update → delete flow.
// This kind of "integration" test catches issues that individual unit tests might miss,
// like transactions interfering with each other or timestamps not being set correctly.
func TestFullCRUDLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// 1. Create
	snippet := &model.Snippet{
		Title:       "lifecycle test",
		Code:        "print('v1')",
		Language:    "python",
		Description: "testing all operations",
	}
	if err := db.Create(ctx, snippet); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Logf("Created: ID=%s", snippet.ID)

	// 2. Read
	found, err := db.GetByID(ctx, snippet.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Description != "testing all operations" {
		t.Errorf("Description = %q, want %q", found.Description, "testing all operations")
	}

	// 3. List (should contain our snippet)
	all, err := db.List(ctx, repository.SnippetFilters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("List returned %d, want 1", len(all))
	}

	// 4. Update
	if err := db.Update(ctx, snippet.ID, model.SnippetPatch{Code: strPtr("print('v2')")}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// 5. Verify update
	updated, err := db.GetByID(ctx, snippet.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.Code != "print('v2')" {
		t.Errorf("Code after update = %q, want %q", updated.Code, "print('v2')")
	}

	// 6. Delete
	if err := db.Delete(ctx, snippet.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// 7. Verify deletion
	_, err = db.GetByID(ctx, snippet.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID after delete: error = %v, want ErrNotFound", err)
	}

	// 8. List should be empty again
	final, err := db.List(ctx, repository.SnippetFilters{})
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(final) != 0 {
		t.Errorf("List after delete returned %d, want 0", len(final))
	}

	t.Log("Full CRUD lifecycle passed!")
}
