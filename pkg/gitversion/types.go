package gitversion

import (
	"github.com/bianoble/git-version/internal/config"
	"github.com/bianoble/git-version/internal/engine"
	"github.com/bianoble/git-version/internal/vcs"
)

// Type aliases re-export the internal types as the public API.

type Document = engine.Document
type Component = engine.Component
type ComponentsPolicy = engine.ComponentsPolicy
type GitInfo = vcs.GitInfo
type Timestamp = vcs.Timestamp
type Runner = vcs.Runner
type Entry = config.Entry

type InvalidWorkingDirError = config.InvalidWorkingDirError
type ParseError = config.ParseError
type MissingAppEntryError = config.MissingAppEntryError
type ValidationError = config.ValidationError

const (
	ComponentsOmit    = engine.ComponentsOmit
	ComponentsInclude = engine.ComponentsInclude

	DefaultConfigFile       = config.DefaultConfigFile
	DefaultAppID            = config.DefaultAppID
	DefaultVersionTagPrefix = config.DefaultVersionTagPrefix
)
