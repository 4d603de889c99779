// Package vcs reads version-control state for a directory by shelling out
// to git. Every query is read-only and failures degrade to absent values.
package vcs

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// GitInfo is the git state of one directory.
type GitInfo struct {
	Repository string     `json:"repository,omitempty"`
	Branch     string     `json:"branch,omitempty"`
	SHA1       string     `json:"sha1,omitempty"`
	Date       *Timestamp `json:"date,omitempty"`
	Clean      bool       `json:"clean"`
}

// timestampLayout renders UTC times with millisecond precision, e.g.
// 2023-11-14T22:13:20.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a commit time. It marshals in UTC with milliseconds.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(timestampLayout))
}

// Result is the outcome of probing one directory.
type Result struct {
	// Version is the tag-derived version (git describe). Empty when no tag
	// prefix was requested or no matching tag exists.
	Version string
	Git     GitInfo
}

// Prober runs the fixed set of git queries against a directory.
type Prober struct {
	Runner Runner

	// Repository enables the remote URL query.
	Repository bool
}

// NewProber returns a Prober backed by the git binary on PATH.
func NewProber(repository bool) *Prober {
	return &Prober{Runner: ExecRunner{}, Repository: repository}
}

// Probe queries dir concurrently. It never fails: a query that errors
// leaves its field empty. A directory without git state reports Clean=false.
func (p *Prober) Probe(ctx context.Context, dir, tagPrefix string) Result {
	var (
		res     Result
		dateRaw string
		g       errgroup.Group
	)

	if p.Repository {
		g.Go(func() error {
			res.Git.Repository = p.output(ctx, dir, "config", "--get", "remote.origin.url")
			return nil
		})
	}
	g.Go(func() error {
		branch := p.output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
		if branch != "HEAD" {
			res.Git.Branch = branch
		}
		return nil
	})
	g.Go(func() error {
		res.Git.SHA1 = p.output(ctx, dir, "rev-parse", "HEAD")
		return nil
	})
	g.Go(func() error {
		dateRaw = p.output(ctx, dir, "--no-pager", "log", "--pretty=format:%at", "-n1")
		return nil
	})
	g.Go(func() error {
		_, code, err := p.Runner.Run(ctx, dir, "diff-index", "--quiet", "HEAD", "--")
		res.Git.Clean = err == nil && code == 0
		return nil
	})
	if tagPrefix != "" {
		g.Go(func() error {
			res.Version = p.output(ctx, dir, "describe", "--tags", "--match", tagPrefix, "HEAD")
			return nil
		})
	}

	// Members always return nil; Wait only joins them.
	_ = g.Wait()

	res.Git.Date = parseUnix(dateRaw)
	return res
}

// output returns the trimmed stdout of a successful query, or "".
func (p *Prober) output(ctx context.Context, dir string, args ...string) string {
	out, _, err := p.Runner.Run(ctx, dir, args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func parseUnix(s string) *Timestamp {
	if s == "" {
		return nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &Timestamp{Time: time.Unix(sec, 0).UTC()}
}
