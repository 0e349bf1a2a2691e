// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one export: page through the registry for a query,
// flatten each study as its page arrives, and write the rows once when
// pagination ends. Both CLI entry points share it and differ only in how
// the query is built.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/ctgov-export/internal/extract"
	"github.com/pdiddy/ctgov-export/internal/registry"
	"github.com/pdiddy/ctgov-export/internal/sink"
	"github.com/pdiddy/ctgov-export/pkg/types"
)

// Fetcher pages through registry results. *registry.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q *registry.Query, fn func(registry.Page) error) (registry.FetchResult, error)
}

// Summary reports what a run fetched and wrote.
type Summary struct {
	Requests  int
	Pages     int
	Rows      int
	Truncated bool
	Output    string
}

// Run fetches every page for q, extracts one row per study, and writes the
// rows to cfg.Output in cfg.Format.
//
// A page answered with a non-success status ends pagination; the rows
// gathered so far are still written and a warning is logged. With
// cfg.Strict the run then returns the *registry.StatusError. Transport
// failures and an empty query, which the fetcher rejects, return an error
// before anything is written.
func Run(ctx context.Context, f Fetcher, q *registry.Query, cfg types.ExportConfig, preview io.Writer, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "starting export", "query", q.String(), "output", cfg.Output, "format", string(cfg.Format))

	var rows []types.Row
	res, err := f.Fetch(ctx, q, func(p registry.Page) error {
		for _, rec := range p.Studies {
			rows = append(rows, extract.Extract(rec))
		}
		logger.DebugContext(ctx, "page extracted", "page", p.Number, "studies", len(p.Studies), "rows", len(rows))
		return nil
	})
	sum := Summary{
		Requests:  res.Requests,
		Pages:     res.Pages,
		Rows:      len(rows),
		Truncated: res.Truncated(),
		Output:    cfg.Output,
	}
	if err != nil {
		return sum, fmt.Errorf("fetching studies: %w", err)
	}

	if err := sink.Write(cfg.Output, cfg.Format, rows); err != nil {
		return sum, err
	}
	logger.InfoContext(ctx, "export written", "output", cfg.Output, "rows", len(rows), "pages", res.Pages)

	if cfg.Preview && preview != nil {
		sink.FormatTable(preview, rows)
	}

	if res.Truncated() {
		logger.WarnContext(ctx, "export is incomplete: pagination stopped on a failed page",
			"status", res.Truncation.StatusCode, "page", res.Truncation.Page, "rows_written", len(rows))
		if cfg.Strict {
			return sum, res.Truncation
		}
	}
	return sum, nil
}
