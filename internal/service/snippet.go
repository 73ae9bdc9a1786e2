// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services take repository INTERFACES, not concrete types — tests inject
// in-memory mocks, and nothing here imports the sqlite package. Services
// return domain errors (apperror), never HTTP status codes; the handler
// layer owns that translation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// Validation constants. The minimums mirror what the snippet form promises
// users; the maximums exist so nobody stores a novel in the code column.
const (
	MinTitleLength = 3
	MinCodeLength  = 10
	MaxTitleLength = 200
	MaxCodeLength  = 100000 // ~100KB of code
)

// SnippetService handles business logic for code snippets: validation,
// ownership enforcement, view counting, and keeping the tag ledger in step
// with every mutation.
type SnippetService struct {
	repo   repository.SnippetRepository
	tags   repository.TagRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService. The tag repository is the
// ledger this service recounts after every create/update/delete.
func NewSnippetService(repo repository.SnippetRepository, tags repository.TagRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		tags:   tags,
		logger: logger,
	}
}

// Create validates and saves a new snippet owned by authorID.
//
// Normalisation rules (matching what the API promises):
//   - title/description are whitespace-trimmed
//   - language is stored LOWERCASE — the repository and the tag ledger both
//     rely on this invariant
//   - topics defaults to an empty list, isPublic defaults to true
func (s *SnippetService) Create(ctx context.Context, authorID string, input model.SnippetInput) (*model.Snippet, error) {
	title := strings.TrimSpace(input.Title)
	if len(title) < MinTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(input.Code) < MinCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be at least %d characters", MinCodeLength))
	}
	if len(input.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	language := strings.ToLower(strings.TrimSpace(input.Language))
	if language == "" {
		return nil, apperror.ValidationFailed("language", "language is required")
	}

	topics := input.Topics
	if topics == nil {
		topics = []string{}
	}

	// Public unless the caller explicitly said otherwise.
	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	snippet := &model.Snippet{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Code:        input.Code,
		Language:    language,
		Topics:      topics,
		Complexity:  strings.TrimSpace(input.Complexity),
		AuthorID:    authorID,
		IsPublic:    isPublic,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.recountTags(ctx)

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("author", authorID),
		slog.String("language", snippet.Language),
	)

	return snippet, nil
}

// GetByID retrieves a snippet and records a view.
//
// EVERY read-by-id counts: the author's own visits, refreshes, everything.
// The increment happens FIRST, then the read, so the returned record always
// shows the count including this view. A missing id returns NotFound from
// the increment without having mutated anything.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return snippet, nil
}

// List retrieves snippets matching the filters, newest first.
func (s *SnippetService) List(ctx context.Context, filters repository.SnippetFilters) ([]model.Snippet, error) {
	snippets, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Update applies the supplied fields to an existing snippet.
//
// Only the owning author may update — anyone else gets Forbidden, including
// callers who could otherwise guess ids. Fields left nil in the patch keep
// their current values; supplied fields go through the same validation as
// Create.
//
// The pre-read below exists ONLY for the ownership check — author_id is
// immutable, so it can't go stale. The write itself carries just the patched
// fields and the repository merges them in a single statement, so an editor
// saving between our read and our write loses nothing: disjoint patches both
// land, same-field patches resolve to the later writer.
func (s *SnippetService) Update(ctx context.Context, id, actorID string, patch model.SnippetPatch) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.AuthorID != actorID {
		return nil, apperror.Forbidden("you can only edit your own snippets")
	}

	clean := model.SnippetPatch{
		Topics:   patch.Topics,
		IsPublic: patch.IsPublic,
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if len(title) < MinTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be at least %d characters", MinTitleLength))
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}
		clean.Title = &title
	}
	if patch.Code != nil {
		if len(*patch.Code) < MinCodeLength {
			return nil, apperror.ValidationFailed("code",
				fmt.Sprintf("code must be at least %d characters", MinCodeLength))
		}
		if len(*patch.Code) > MaxCodeLength {
			return nil, apperror.ValidationFailed("code",
				fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
		}
		clean.Code = patch.Code
	}
	if patch.Language != nil {
		language := strings.ToLower(strings.TrimSpace(*patch.Language))
		if language == "" {
			return nil, apperror.ValidationFailed("language", "language is required")
		}
		clean.Language = &language
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		clean.Description = &description
	}
	if patch.Complexity != nil {
		complexity := strings.TrimSpace(*patch.Complexity)
		clean.Complexity = &complexity
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.recountTags(ctx)

	// Fresh read so the response reflects the stored record, concurrent
	// edits included.
	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))

	return snippet, nil
}

// Delete removes a snippet. Owner-only, same as Update.
func (s *SnippetService) Delete(ctx context.Context, id, actorID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if snippet.AuthorID != actorID {
		return apperror.Forbidden("you can only delete your own snippets")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recountTags(ctx)

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

// UserStats computes the dashboard numbers for a user.
func (s *SnippetService) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	stats, err := s.repo.GetUserStats(ctx, userID)
	if err != nil {
		s.logger.Error("failed to compute user stats",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("computing user stats: %w", err)
	}
	return stats, nil
}

// recountTags refreshes the tag ledger after a snippet mutation.
//
// BEST-EFFORT, BY POLICY: the snippet write already succeeded, and failing
// the whole operation over a stale cache count would be worse than the stale
// count. So a recount failure is logged and swallowed — the counts catch up
// on the next mutation or restart. This is the one place in the write path
// where an error does not propagate.
func (s *SnippetService) recountTags(ctx context.Context) {
	if err := s.tags.RecountTags(ctx); err != nil {
		s.logger.Error("tag recount failed; counts may be stale",
			slog.String("error", err.Error()),
		)
	}
}
