package engine

import (
	"context"

	"github.com/bianoble/git-version/internal/config"
)

// Resolve probes the directory of one entry and joins the result onto the
// entry's identity.
func Resolve(ctx context.Context, p Prober, workingDir string, e config.Entry) Component {
	res := p.Probe(ctx, entryDir(workingDir, e), e.VersionTagPrefix)
	return Component{
		ID:      e.ID,
		Name:    e.Name,
		Version: res.Version,
		Git:     res.Git,
	}
}

func entryDir(workingDir string, e config.Entry) string {
	path := e.Path
	if path == "" {
		path = "."
	}
	return config.ResolvePath(workingDir, path)
}
