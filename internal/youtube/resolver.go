package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/handiism/song-downloader/internal/logging"
	"github.com/handiism/song-downloader/internal/model"
)

// VideoSearcher runs a video search.
type VideoSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// Resolver maps a search phrase to the top result of a search.
//
// There is no disambiguation: the first result is always taken.
type Resolver struct {
	searcher VideoSearcher
	logger   *slog.Logger
}

// NewResolver creates a Resolver on top of searcher.
// If logger is nil, matches are not logged.
func NewResolver(searcher VideoSearcher, logger *slog.Logger) *Resolver {
	return &Resolver{searcher: searcher, logger: logging.OrDiscard(logger)}
}

// Resolve performs one search and returns its top result.
// Returns model.ErrNoResults when the phrase is blank or the search is empty.
func (r *Resolver) Resolve(ctx context.Context, phrase string) (SearchResult, error) {
	if strings.TrimSpace(phrase) == "" {
		return SearchResult{}, fmt.Errorf("%w: empty search phrase", model.ErrNoResults)
	}

	results, err := r.searcher.Search(ctx, phrase, 1)
	if err != nil {
		return SearchResult{}, err
	}
	if len(results) == 0 {
		return SearchResult{}, fmt.Errorf("%w: %q", model.ErrNoResults, phrase)
	}

	top := results[0]
	r.logger.Debug("top search result", "phrase", phrase, "video", top.ID, "title", top.Title,
		"channel", top.Channel, "duration", top.Duration)
	return top, nil
}
