package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately instead of at
// some distant call site. A Go best practice for any interface implementation.
var _ repository.SnippetRepository = (*DB)(nil)

// snippetColumns is the shared SELECT list for snippet reads. The author
// columns come from a LEFT JOIN on users — LEFT so that a snippet whose
// author row is missing still comes back (with NULL author fields).
const snippetColumns = `
	s.id, s.title, s.description, s.code, s.language, s.topics, s.complexity,
	s.author_id, s.is_public, s.views, s.created_at, s.updated_at,
	u.id, u.name, u.email, u.bio, u.avatar, u.created_at, u.updated_at`

// encodeTopics serializes the topics slice to a JSON1 array for storage.
// nil normalises to "[]" so the column is always a valid JSON array —
// json_each over NULL or malformed text would silently match nothing.
func encodeTopics(topics []string) (string, error) {
	if topics == nil {
		topics = []string{}
	}
	b, err := json.Marshal(topics)
	if err != nil {
		return "", fmt.Errorf("encoding topics: %w", err)
	}
	return string(b), nil
}

// scanSnippet reads one joined row into a model.Snippet.
//
// The author columns are scanned into sql.Null* types because the LEFT JOIN
// produces NULLs when no user row matches. Only when the joined id is valid
// do we attach an Author — absence is not an error, the field just stays nil.
func scanSnippet(scan func(dest ...any) error) (*model.Snippet, error) {
	var (
		s         model.Snippet
		topicsRaw string

		authorID, authorName, authorEmail sql.NullString
		authorBio, authorAvatar           sql.NullString
		authorCreated, authorUpdated      sql.NullTime
	)

	err := scan(
		&s.ID, &s.Title, &s.Description, &s.Code, &s.Language, &topicsRaw,
		&s.Complexity, &s.AuthorID, &s.IsPublic, &s.Views,
		&s.CreatedAt, &s.UpdatedAt,
		&authorID, &authorName, &authorEmail,
		&authorBio, &authorAvatar, &authorCreated, &authorUpdated,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(topicsRaw), &s.Topics); err != nil {
		return nil, fmt.Errorf("decoding topics for snippet %s: %w", s.ID, err)
	}
	if s.Topics == nil {
		s.Topics = []string{}
	}

	if authorID.Valid {
		s.Author = &model.User{
			ID:        authorID.String,
			Name:      authorName.String,
			Email:     authorEmail.String,
			Bio:       authorBio.String,
			Avatar:    authorAvatar.String,
			CreatedAt: authorCreated.Time,
			UpdatedAt: authorUpdated.Time,
		}
	}

	return &s, nil
}

// Create inserts a new snippet.
//
// The repository owns identity and bookkeeping: it generates the xid, zeroes
// the view counter, and stamps both timestamps. The caller's struct is
// modified in place (pointer receiver on the argument) so the handler can
// return the stored record without a second read.
//
// Field validation (title/code length, language presence) is the service
// layer's job — by the time a snippet reaches Create it is assumed well-formed.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.Views = 0

	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	topics, err := encodeTopics(snippet.Topics)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}
	if snippet.Topics == nil {
		snippet.Topics = []string{}
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets
		   (id, title, description, code, language, topics, complexity,
		    author_id, is_public, views, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.Language,
		topics,
		snippet.Complexity,
		snippet.AuthorID,
		snippet.IsPublic,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet with its author attached.
//
// This is a PURE READ. Counting a view is deliberately a separate operation
// (IncrementViews) so that fetching a record never has to contend with the
// write path — the service layer composes the two when a view should count.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s
		 LEFT JOIN users u ON u.id = s.author_id
		 WHERE s.id = ?`,
		id,
	)

	snippet, err := scanSnippet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return snippet, nil
}

// IncrementViews bumps a snippet's view counter by exactly one.
//
// `views = views + 1` is a single atomic UPDATE — two concurrent increments
// both land (no read-modify-write race), and the CHECK constraint plus this
// being the only statement that touches views means the counter can only grow.
func (db *DB) IncrementViews(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET views = views + 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing views for snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// List retrieves snippets matching ALL supplied filters, newest first.
//
// BUILDING THE WHERE CLAUSE:
// Each filter contributes one condition and its placeholder arguments; the
// conditions are ANDed together. Values only ever travel through `?`
// placeholders — never concatenated into the SQL — so user input cannot
// inject SQL no matter how hostile the search string is.
//
// Filter semantics (matching the API contract exactly):
//   - Language: case-insensitive exact match (stored lowercase, input lowered)
//   - Topic:    membership in the topics JSON array, via json_each
//   - AuthorID: exact match
//   - Search:   case-insensitive substring over title OR description OR code
//
// ORDER BY created_at DESC, rowid ASC — newest first, and snippets created in
// the same instant come back in insertion order (rowid is assignment order).
func (db *DB) List(ctx context.Context, filters repository.SnippetFilters) ([]model.Snippet, error) {
	conditions := []string{}
	args := []any{}

	if filters.Language != "" {
		conditions = append(conditions, "s.language = ?")
		args = append(args, strings.ToLower(filters.Language))
	}
	if filters.Topic != "" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM json_each(s.topics) WHERE json_each.value = ?)")
		args = append(args, filters.Topic)
	}
	if filters.AuthorID != "" {
		conditions = append(conditions, "s.author_id = ?")
		args = append(args, filters.AuthorID)
	}
	if filters.Search != "" {
		conditions = append(conditions,
			"(instr(lower(s.title), ?) > 0 OR instr(lower(s.description), ?) > 0 OR instr(lower(s.code), ?) > 0)")
		search := strings.ToLower(filters.Search)
		args = append(args, search, search, search)
	}

	query := `SELECT ` + snippetColumns + `
		 FROM snippets s
		 LEFT JOIN users u ON u.id = s.author_id`
	if len(conditions) > 0 {
		query += "\n\t\t WHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\t ORDER BY s.created_at DESC, s.rowid ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		s, err := scanSnippet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update applies a field patch to an existing snippet and refreshes
// updated_at. id, author_id, views and created_at are immutable here — views
// has its own operation, and ownership never transfers.
//
// ONE STATEMENT, ON PURPOSE:
// The SET list is built from exactly the fields the patch carries, so the
// merge with the current record happens inside the engine, not in Go. A
// read-merge-write cycle here would let two concurrent editors interleave —
// the later full-row write silently undoing the earlier one's fields. With a
// per-field UPDATE there is nothing to interleave: disjoint patches both
// land, and same-field patches are serialized by the engine (last writer
// wins, never a torn mix).
func (db *DB) Update(ctx context.Context, id string, patch model.SnippetPatch) error {
	sets := []string{}
	args := []any{}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Code != nil {
		sets = append(sets, "code = ?")
		args = append(args, *patch.Code)
	}
	if patch.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *patch.Language)
	}
	if patch.Topics != nil {
		topics, err := encodeTopics(*patch.Topics)
		if err != nil {
			return fmt.Errorf("sqlite: updating snippet %s: %w", id, err)
		}
		sets = append(sets, "topics = ?")
		args = append(args, topics)
	}
	if patch.Complexity != nil {
		sets = append(sets, "complexity = ?")
		args = append(args, *patch.Complexity)
	}
	if patch.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, *patch.IsPublic)
	}

	// An all-nil patch still touches updated_at — the caller asked for an
	// update and NotFound detection needs a statement to run.
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, id)

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// Delete removes a snippet. RowsAffected distinguishes "deleted" from
// "never existed" — same pattern as Update.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// GetUserStats computes a user's dashboard numbers on demand.
// Derived data — never cached, so it can't go stale the way tag counts can.
func (db *DB) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	stats := &model.UserStats{Languages: []string{}}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(views), 0)
		 FROM snippets WHERE author_id = ?`,
		userID,
	).Scan(&stats.TotalSnippets, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing stats for user %s: %w", userID, err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT language FROM snippets
		 WHERE author_id = ? ORDER BY language`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing languages for user %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, fmt.Errorf("sqlite: scanning language row: %w", err)
		}
		stats.Languages = append(stats.Languages, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating languages: %w", err)
	}

	return stats, nil
}
