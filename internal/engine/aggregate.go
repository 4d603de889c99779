package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bianoble/git-version/internal/config"
)

// Aggregator resolves all entries of a config and merges them into one
// Document.
type Aggregator struct {
	Prober     Prober
	WorkingDir string
	Logger     *log.Logger
}

// Aggregate resolves every entry concurrently and builds the document.
// Components keep the config order regardless of completion order.
func (a *Aggregator) Aggregate(ctx context.Context, cfg *config.Config, opts Options) (*Document, error) {
	logger := a.logger()

	// Resolve never fails, so the group only waits; cancellation comes from ctx.
	resolved := make([]Component, len(cfg.Entries))
	var g errgroup.Group
	for i, e := range cfg.Entries {
		g.Go(func() error {
			logger.Debug("resolving component", "id", e.ID, "dir", entryDir(a.WorkingDir, e))
			resolved[i] = Resolve(ctx, a.Prober, a.WorkingDir, e)
			return nil
		})
	}
	_ = g.Wait()

	// A cancelled context leaves every query empty; never emit that.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolving components: %w", err)
	}

	appEntry, ok := cfg.App()
	if !ok {
		return nil, ErrAppNotResolved
	}

	var (
		app    *Component
		others = make([]Component, 0, len(resolved))
	)
	for i := range resolved {
		if resolved[i].ID == cfg.AppID && app == nil {
			app = &resolved[i]
			continue
		}
		others = append(others, resolved[i])
	}
	if app == nil {
		return nil, ErrAppNotResolved
	}

	doc := &Document{
		Name:    app.Name,
		Version: app.Version,
	}
	if doc.Name == "" {
		doc.Name = filepath.Base(entryDir(a.WorkingDir, appEntry))
	}
	if doc.Version == "" {
		doc.Version = appEntry.Version
	}
	logger.Debug("resolved app", "name", doc.Name, "version", doc.Version, "components", len(others))

	if opts.VersionOnly {
		return doc, nil
	}

	git := app.Git
	doc.Git = &git
	if len(others) > 0 || opts.EmptyComponents == ComponentsInclude {
		doc.Components = others
	}
	return doc, nil
}

func (a *Aggregator) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.New(io.Discard)
}
