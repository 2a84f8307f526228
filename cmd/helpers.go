package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienpequegnot/imagepick/internal/config"
	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/logging"
	"github.com/julienpequegnot/imagepick/internal/pagemeta"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/julienpequegnot/imagepick/internal/scorer"
	"github.com/julienpequegnot/imagepick/internal/selection"
	"github.com/julienpequegnot/imagepick/internal/selector"
)

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if debugMode || cfg.Selection.DebugLogging {
		level = "debug"
	}
	return logging.New(level)
}

// newSelector wires the selector from config. With persist_cache the
// database mirrors the selection cache; db may be nil.
func newSelector(cfg *config.Config, db *database.DB, logger *slog.Logger) *selector.Selector {
	var mirror selector.Mirror
	if cfg.Selection.PersistCache && db != nil {
		mirror = selection.NewRepository(db)
	}

	opts := cfg.SelectorOptions()
	if debugMode {
		opts.DebugLogging = true
	}

	return selector.New(
		scorer.NewRelevanceScorer(cfg.Weights()),
		selector.NewCache(mirror),
		selector.WithPlaceholders(cfg.SelectorPlaceholders()),
		selector.WithOptions(opts),
		selector.WithDebugSink(logger),
	)
}

func newPageFetcher(cfg *config.Config) *pagemeta.Fetcher {
	client := &http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second}
	return pagemeta.NewFetcher(client, cfg.Fetch.UserAgent)
}

// scrapeMeta fetches page metadata for rec. Failures are logged and yield nil
// so selection continues on the record alone.
func scrapeMeta(ctx context.Context, f *pagemeta.Fetcher, rec *content.Record, logger *slog.Logger) *content.PageMeta {
	if f == nil || rec.SourceURL == "" {
		return nil
	}
	meta, err := f.FetchMeta(ctx, rec.SourceURL)
	if err != nil {
		logger.Warn("page metadata unavailable", "url", rec.SourceURL, "error", err)
		return nil
	}
	return meta
}

// selectStored runs the selector over stored records without a selection.
func selectStored(ctx context.Context, sel *selector.Selector, opts selector.Options, recRepo *record.Repository, pages *pagemeta.Fetcher, limit int, logger *slog.Logger) (map[content.Reason]int, error) {
	records, err := recRepo.List(record.ListFilter{Unselected: true, Limit: limit})
	if err != nil {
		return nil, err
	}

	counts := make(map[content.Reason]int)
	for _, r := range records {
		rec := r.Content
		meta := scrapeMeta(ctx, pages, &rec, logger)
		result := sel.SelectWithOptions(&rec, meta, opts)
		counts[result.Reason]++
		logger.Info("selected preview image",
			"record_id", r.ID,
			"image_url", result.ImageURL,
			"reason", result.Reason,
			"score", result.Score,
		)
	}
	return counts, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func reasonSummary(counts map[content.Reason]int) string {
	total := 0
	for _, n := range counts {
		total += n
	}
	return fmt.Sprintf("%d selected (%d scored, %d fallback)", total, counts[content.ReasonScoredMatch], total-counts[content.ReasonScoredMatch])
}
