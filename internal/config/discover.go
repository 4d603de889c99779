package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// alternateConfigFiles are tried, in order, when the default config file
// is absent.
var alternateConfigFiles = []string{
	".git-version.config.yaml",
	".git-version.config.yml",
}

// InvalidWorkingDirError reports a working directory that is missing or not
// a directory.
type InvalidWorkingDirError struct {
	Path string
	Err  error
}

func (e *InvalidWorkingDirError) Error() string {
	return fmt.Sprintf("invalid working directory '%s'", e.Path)
}

func (e *InvalidWorkingDirError) Unwrap() error {
	return e.Err
}

// CheckWorkingDir verifies dir is an existing directory and returns its
// absolute path.
func CheckWorkingDir(dir string) (string, error) {
	if dir == "" {
		return "", &InvalidWorkingDirError{Path: dir, Err: errors.New("empty path")}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &InvalidWorkingDirError{Path: dir, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &InvalidWorkingDirError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return "", &InvalidWorkingDirError{Path: dir, Err: errors.New("not a directory")}
	}
	return abs, nil
}

// ResolvePath joins a relative path onto workingDir. Absolute paths are
// returned unchanged.
func ResolvePath(workingDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDir, path)
}

// ResolveConfigPath returns the config file path for workingDir and whether
// it exists. When configFile is the default name and absent, the YAML
// variants are checked as well; the returned path is then the default one.
func ResolveConfigPath(workingDir, configFile string) (string, bool, error) {
	primary := ResolvePath(workingDir, configFile)

	candidates := []string{primary}
	if configFile == DefaultConfigFile {
		for _, alt := range alternateConfigFiles {
			candidates = append(candidates, filepath.Join(workingDir, alt))
		}
	}

	for _, path := range candidates {
		ok, err := fileExists(path)
		if err != nil {
			return "", false, err
		}
		if ok {
			return path, true, nil
		}
	}
	return primary, false, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return !info.IsDir(), nil
}
