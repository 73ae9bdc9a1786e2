package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// TagService exposes the tag ledger to handlers: listing for the filter UI
// and the startup recount.
type TagService struct {
	repo   repository.TagRepository
	logger *slog.Logger
}

func NewTagService(repo repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{repo: repo, logger: logger}
}

// List returns every tag with its current count.
func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		s.logger.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// ListByType returns the tags of one type. The type value is validated here
// so a typo'd query parameter reads as a 400, not an empty list.
func (s *TagService) ListByType(ctx context.Context, tagType string) ([]model.Tag, error) {
	if tagType != model.TagTypeLanguage && tagType != model.TagTypeTopic {
		return nil, apperror.ValidationFailed("type",
			"tag type must be 'language' or 'topic'")
	}

	tags, err := s.repo.ListTagsByType(ctx, tagType)
	if err != nil {
		s.logger.Error("failed to list tags",
			slog.String("type", tagType),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing %s tags: %w", tagType, err)
	}
	return tags, nil
}

// Recount recomputes every tag count from the snippet collection.
//
// Called once at process start so counts are correct before the first
// request — unlike the per-mutation recounts (which are best-effort), a
// failure HERE propagates: if the store is broken at startup the server
// shouldn't come up at all.
func (s *TagService) Recount(ctx context.Context) error {
	start := time.Now()
	if err := s.repo.RecountTags(ctx); err != nil {
		return fmt.Errorf("recounting tags: %w", err)
	}
	s.logger.Info("tag ledger recounted", slog.Duration("duration", time.Since(start)))
	return nil
}
