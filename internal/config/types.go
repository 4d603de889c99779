package config

const (
	// DefaultConfigFile is the config file name looked up in the working directory.
	DefaultConfigFile = ".git-version.config.json"
	// DefaultAppID is the id of the primary component.
	DefaultAppID = "app"
	// DefaultVersionTagPrefix is the describe pattern of the synthesized app entry.
	DefaultVersionTagPrefix = "v[0-9]*"
)

// Entry declares one component. The config file is an ordered list of entries.
type Entry struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// VersionTagPrefix is a glob passed to `git describe --match`.
	// Empty disables tag-derived versions for the entry.
	VersionTagPrefix string `json:"versionTagPrefix,omitempty" yaml:"versionTagPrefix,omitempty"`
}

// Config is the reconciled list of entries for one invocation.
type Config struct {
	Entries []Entry

	// Source is the config file the entries were read from. Empty when the
	// list was synthesized from project metadata.
	Source string

	// AppID is the id of the app entry, guaranteed present in Entries.
	AppID string
}

// App returns the app entry.
func (c *Config) App() (Entry, bool) {
	for _, e := range c.Entries {
		if e.ID == c.AppID {
			return e, true
		}
	}
	return Entry{}, false
}

// Options are the inputs of Load. WorkingDir must be an existing directory.
type Options struct {
	WorkingDir string

	// ConfigFile is resolved relative to WorkingDir unless absolute.
	// Default: DefaultConfigFile.
	ConfigFile string

	// AppID defaults to DefaultAppID.
	AppID string

	// VersionTagPrefix is used for the synthesized app entry only.
	VersionTagPrefix string
}

func (o Options) withDefaults() Options {
	if o.ConfigFile == "" {
		o.ConfigFile = DefaultConfigFile
	}
	if o.AppID == "" {
		o.AppID = DefaultAppID
	}
	return o
}
