package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bianoble/git-version/pkg/gitversion"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// envPrefix namespaces the environment variables bound to flags,
// e.g. GIT_VERSION_APP_ID for --app-id.
const envPrefix = "GIT_VERSION"

// settings are the resolved flag and environment values of one run.
type settings struct {
	WorkingDir       string
	OutFile          string
	ConfigFile       string
	AppID            string
	VersionTagPrefix string
	EmptyComponents  string
	NoRepository     bool
	NoPretty         bool
	VersionOnly      bool
	Verbose          bool
	Quiet            bool
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		WorkingDir:       v.GetString("working-dir"),
		OutFile:          v.GetString("out-file"),
		ConfigFile:       v.GetString("config-file"),
		AppID:            v.GetString("app-id"),
		VersionTagPrefix: v.GetString("version-tag-prefix"),
		EmptyComponents:  v.GetString("empty-components"),
		NoRepository:     v.GetBool("no-repository"),
		NoPretty:         v.GetBool("no-pretty"),
		VersionOnly:      v.GetBool("version-only"),
		Verbose:          v.GetBool("verbose"),
		Quiet:            v.GetBool("quiet"),
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "git-version",
		Short: "Describe the version of an application and its components",
		Long: `git-version combines project metadata (name, declared version) with the git
state of each configured component (branch, commit, commit date, tag-derived
version, working-tree cleanliness) and prints one JSON version document.

Components are declared in .git-version.config.json in the working directory.
Without that file, a single "app" entry is derived from package.json,
Cargo.toml, pyproject.toml or Chart.yaml, or from the directory name.

Every flag can also be set through the environment, e.g. GIT_VERSION_APP_ID.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, loadSettings(v))
		},
	}

	f := rootCmd.Flags()
	f.StringP("working-dir", "w", ".", "working directory")
	f.StringP("out-file", "o", "", "write output to a file (relative to the working directory) instead of stdout")
	f.StringP("config-file", "c", gitversion.DefaultConfigFile, "config file name, relative to the working directory")
	f.String("app-id", gitversion.DefaultAppID, "id of the application entry")
	f.String("version-tag-prefix", gitversion.DefaultVersionTagPrefix, "tag pattern of the default application entry; empty disables tag versions")
	f.String("empty-components", string(gitversion.ComponentsOmit), "how to render an empty component list: omit or include")
	f.Bool("no-repository", false, "omit the repository URL from the output")
	f.Bool("no-pretty", false, "disable pretty printing of the output")
	f.Bool("version-only", false, "output only name and version, without git information")
	f.Bool("verbose", false, "debug output on stderr")
	f.Bool("quiet", false, "errors only on stderr")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	_ = v.BindPFlags(f)

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "git-version %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}

func run(cmd *cobra.Command, s settings) error {
	logger := newLogger(cmd.ErrOrStderr(), s)

	client, err := gitversion.New(gitversion.Options{
		WorkingDir:       s.WorkingDir,
		ConfigFile:       s.ConfigFile,
		AppID:            s.AppID,
		VersionTagPrefix: s.VersionTagPrefix,
		NoTagVersion:     s.VersionTagPrefix == "",
		OmitRepository:   s.NoRepository,
		VersionOnly:      s.VersionOnly,
		EmptyComponents:  gitversion.ComponentsPolicy(s.EmptyComponents),
		Compact:          s.NoPretty,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	doc, err := client.Compute(cmd.Context())
	if err != nil {
		return err
	}

	if s.OutFile == "" {
		return client.Emit(cmd.OutOrStdout(), doc)
	}

	// A failed file write is reported but does not fail the run.
	path, err := client.WriteFile(s.OutFile, doc)
	if err != nil {
		logger.Error("writing output", "err", err)
		return nil
	}
	logger.Debug("wrote version document", "path", path)
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
