package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// compile-time check that *DB implements repository.TagRepository
var _ repository.TagRepository = (*DB)(nil)

// ListTags returns every tag, languages before topics, alphabetical within
// each type. The count column is whatever the last recount left there.
func (db *DB) ListTags(ctx context.Context) ([]model.Tag, error) {
	return db.queryTags(ctx,
		`SELECT id, name, slug, type, count FROM tags ORDER BY type, slug`)
}

// ListTagsByType returns the tags of one type ("language" or "topic").
// An unknown type isn't an error — it just matches nothing.
func (db *DB) ListTagsByType(ctx context.Context, tagType string) ([]model.Tag, error) {
	return db.queryTags(ctx,
		`SELECT id, name, slug, type, count FROM tags WHERE type = ? ORDER BY slug`,
		tagType)
}

// GetTagBySlug looks a tag up by slug across both types.
// Slugs are only unique within a type; if a language and a topic ever share a
// slug the language wins (type ordering), which matches how the filter UI
// resolves ambiguous slugs.
func (db *DB) GetTagBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var t model.Tag

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug, type, count FROM tags
		 WHERE slug = ? ORDER BY type LIMIT 1`,
		slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Type, &t.Count)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", slug)
		}
		return nil, fmt.Errorf("sqlite: getting tag %s: %w", slug, err)
	}

	return &t, nil
}

// RecountTags recomputes every tag's count from the current snippet
// collection.
//
// ONE STATEMENT, ON PURPOSE:
// The whole recount is a single UPDATE with correlated subqueries. SQLite
// executes a statement atomically, so the recount can never observe a
// half-written snippet, and a reader can never observe a half-updated ledger.
// Counts are therefore exact the moment this returns — and since the service
// layer calls this synchronously after every snippet mutation, they are never
// observably stale.
//
// Language tags count snippets whose language equals the slug; topic tags
// count snippets whose topics array contains the slug (json_each unpacks the
// JSON1 array into rows we can match against).
//
// A tag nothing references ends up at count 0 but keeps its row — the
// vocabulary is fixed, only the counts move.
func (db *DB) RecountTags(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE tags SET count = CASE type
			WHEN 'language' THEN
				(SELECT COUNT(*) FROM snippets WHERE snippets.language = tags.slug)
			ELSE
				(SELECT COUNT(*) FROM snippets WHERE EXISTS
					(SELECT 1 FROM json_each(snippets.topics)
					 WHERE json_each.value = tags.slug))
		END`)
	if err != nil {
		return fmt.Errorf("sqlite: recounting tags: %w", err)
	}
	return nil
}

func (db *DB) queryTags(ctx context.Context, query string, args ...any) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Type, &t.Count); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return tags, nil
}
