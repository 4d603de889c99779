package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Metadata is the name and declared version of a project.
type Metadata struct {
	Name    string
	Version string
	// File is the metadata file the values were read from.
	File string
}

type metadataReader struct {
	file  string
	parse func(data []byte) (Metadata, error)
}

// metadataReaders are checked in order; the first existing file wins.
var metadataReaders = []metadataReader{
	{file: "package.json", parse: parsePackageJSON},
	{file: "Cargo.toml", parse: parseCargoTOML},
	{file: "pyproject.toml", parse: parsePyProject},
	{file: "Chart.yaml", parse: parseChartYAML},
}

// ReadMetadata reads project metadata from dir. It returns nil when none of
// the known metadata files exist. A file that exists but cannot be parsed is
// an error.
func ReadMetadata(dir string) (*Metadata, error) {
	for _, r := range metadataReaders {
		path := filepath.Join(dir, r.file)
		ok, err := fileExists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		md, err := r.parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		md.File = path
		return &md, nil
	}
	return nil, nil
}

func parsePackageJSON(data []byte) (Metadata, error) {
	var pkg struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Metadata{}, err
	}
	return Metadata{Name: pkg.Name, Version: pkg.Version}, nil
}

// tomlPackage decodes version as any because Cargo allows
// `version.workspace = true`.
type tomlPackage struct {
	Name    string `toml:"name"`
	Version any    `toml:"version"`
}

func (p tomlPackage) metadata() Metadata {
	v, _ := p.Version.(string)
	return Metadata{Name: p.Name, Version: v}
}

func parseCargoTOML(data []byte) (Metadata, error) {
	var cargo struct {
		Package tomlPackage `toml:"package"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return Metadata{}, err
	}
	return cargo.Package.metadata(), nil
}

func parsePyProject(data []byte) (Metadata, error) {
	var py struct {
		Project tomlPackage `toml:"project"`
		Tool    struct {
			Poetry tomlPackage `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return Metadata{}, err
	}
	if py.Project.Name != "" {
		return py.Project.metadata(), nil
	}
	return py.Tool.Poetry.metadata(), nil
}

func parseChartYAML(data []byte) (Metadata, error) {
	var chart struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return Metadata{}, err
	}
	return Metadata{Name: chart.Name, Version: chart.Version}, nil
}
