package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the entry list for opts.WorkingDir and locates the app entry.
//
// When the config file does not exist, a single app entry is synthesized
// from project metadata in the working directory.
func Load(opts Options) (*Config, error) {
	opts = opts.withDefaults()

	path, found, err := ResolveConfigPath(opts.WorkingDir, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{AppID: opts.AppID}
	if found {
		entries, err := Parse(path)
		if err != nil {
			return nil, err
		}
		cfg.Entries = entries
		cfg.Source = path
	} else {
		app, err := defaultApp(opts)
		if err != nil {
			return nil, err
		}
		cfg.Entries = []Entry{app}
	}

	if _, ok := cfg.App(); !ok {
		return nil, &MissingAppEntryError{AppID: opts.AppID, Source: path}
	}

	if errs := Validate(cfg.Entries); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// Parse decodes an entry list. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func Parse(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return entries, nil
}

func defaultApp(opts Options) (Entry, error) {
	app := Entry{
		ID:               opts.AppID,
		VersionTagPrefix: opts.VersionTagPrefix,
	}

	md, err := ReadMetadata(opts.WorkingDir)
	if err != nil {
		return Entry{}, err
	}
	if md != nil {
		app.Name = md.Name
		app.Version = md.Version
		return app, nil
	}

	app.Name = filepath.Base(opts.WorkingDir)
	return app, nil
}

// ParseError reports a config file that exists but is not a valid entry list.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingAppEntryError reports that no entry carries the app id.
type MissingAppEntryError struct {
	AppID  string
	Source string
}

func (e *MissingAppEntryError) Error() string {
	return fmt.Sprintf("expected an entry with id '%s' in '%s'", e.AppID, e.Source)
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks an entry list for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(entries []Entry) []string {
	var errs []string

	ids := make(map[string]bool)
	for i, e := range entries {
		prefix := fmt.Sprintf("entry[%d]", i)
		if e.ID != "" {
			prefix = fmt.Sprintf("entry '%s'", e.ID)
		}

		if e.ID == "" {
			errs = append(errs, fmt.Sprintf("%s: 'id' is required", prefix))
		} else if ids[e.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate id '%s'", prefix, e.ID))
		} else {
			ids[e.ID] = true
		}
	}

	return errs
}
