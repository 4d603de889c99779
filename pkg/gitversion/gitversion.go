// Package gitversion provides the public Go library API for git-version.
//
// git-version combines static project metadata with the git state of an
// application and its components into one JSON version document.
//
// # Basic Usage
//
//	client, err := gitversion.New(gitversion.Options{
//	    WorkingDir: "/path/to/project",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := client.Compute(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = client.Emit(os.Stdout, doc)
package gitversion

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/bianoble/git-version/internal/config"
	"github.com/bianoble/git-version/internal/engine"
	"github.com/bianoble/git-version/internal/output"
	"github.com/bianoble/git-version/internal/vcs"
)

// Options configures a git-version client.
type Options struct {
	// WorkingDir is the project directory. Default: the current directory.
	WorkingDir string

	// ConfigFile is the entry list, relative to WorkingDir unless absolute.
	// Default: ".git-version.config.json".
	ConfigFile string

	// AppID is the id of the primary entry. Default: "app".
	AppID string

	// VersionTagPrefix is the describe pattern of the entry synthesized when
	// no config file exists. Default: "v[0-9]*".
	VersionTagPrefix string

	// NoTagVersion disables the tag-derived version of the synthesized
	// entry. VersionTagPrefix is ignored when set.
	NoTagVersion bool

	// OmitRepository skips the remote URL query.
	OmitRepository bool

	// VersionOnly reduces the document to name and version.
	VersionOnly bool

	// EmptyComponents renders an empty component list as [] when set to
	// ComponentsInclude. Default: ComponentsOmit.
	EmptyComponents ComponentsPolicy

	// Compact disables 2-space indentation of the JSON output.
	Compact bool

	// Runner executes git. Default: the git binary on PATH.
	Runner Runner

	// Logger receives debug output. Default: discard.
	Logger *log.Logger
}

// Client computes version documents for one working directory.
type Client struct {
	opts       Options
	workingDir string
	prober     *vcs.Prober
	logger     *log.Logger
}

// New validates opts and creates a Client. It fails with an
// *InvalidWorkingDirError when the working directory does not exist.
func New(opts Options) (*Client, error) {
	if opts.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		opts.WorkingDir = wd
	}
	switch {
	case opts.NoTagVersion:
		opts.VersionTagPrefix = ""
	case opts.VersionTagPrefix == "":
		opts.VersionTagPrefix = DefaultVersionTagPrefix
	}

	policy, err := engine.ParseComponentsPolicy(string(opts.EmptyComponents))
	if err != nil {
		return nil, err
	}
	opts.EmptyComponents = policy

	wd, err := config.CheckWorkingDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = vcs.ExecRunner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		opts:       opts,
		workingDir: wd,
		prober:     &vcs.Prober{Runner: runner, Repository: !opts.OmitRepository},
		logger:     logger,
	}, nil
}

// WorkingDir returns the absolute working directory.
func (c *Client) WorkingDir() string {
	return c.workingDir
}

// Compute loads the configuration, resolves every entry and returns the
// merged document.
func (c *Client) Compute(ctx context.Context) (*Document, error) {
	cfg, err := config.Load(config.Options{
		WorkingDir:       c.workingDir,
		ConfigFile:       c.opts.ConfigFile,
		AppID:            c.opts.AppID,
		VersionTagPrefix: c.opts.VersionTagPrefix,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		c.logger.Debug("loaded config", "path", cfg.Source, "entries", len(cfg.Entries))
	} else {
		app, _ := cfg.App()
		c.logger.Debug("no config file, using default app entry", "name", app.Name, "version", app.Version)
	}

	agg := &engine.Aggregator{
		Prober:     c.prober,
		WorkingDir: c.workingDir,
		Logger:     c.logger,
	}
	return agg.Aggregate(ctx, cfg, engine.Options{
		VersionOnly:     c.opts.VersionOnly,
		EmptyComponents: c.opts.EmptyComponents,
	})
}

// Emit writes doc to w as JSON.
func (c *Client) Emit(w io.Writer, doc *Document) error {
	return output.Emit(w, doc, !c.opts.Compact)
}

// WriteFile writes doc to path, resolved relative to the working directory
// unless absolute, and returns the path written.
func (c *Client) WriteFile(path string, doc *Document) (string, error) {
	resolved := config.ResolvePath(c.workingDir, path)
	if err := output.WriteFile(resolved, doc, !c.opts.Compact); err != nil {
		return resolved, fmt.Errorf("writing %s: %w", resolved, err)
	}
	return resolved, nil
}
