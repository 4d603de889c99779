package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/bianoble/git-version/internal/vcs"
)

// Prober reads the git state of a directory. *vcs.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, dir, tagPrefix string) vcs.Result
}

// Component is one resolved config entry.
type Component struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	// Version is the tag-derived version only; static versions are not copied.
	Version string      `json:"version,omitempty"`
	Git     vcs.GitInfo `json:"git"`
}

// Document is the final version descriptor.
type Document struct {
	Name    string       `json:"name"`
	Version string       `json:"version,omitempty"`
	Git     *vcs.GitInfo `json:"git,omitempty"`
	// Components is nil when omitted; a non-nil empty slice renders as [].
	Components []Component `json:"components,omitzero"`
}

// ComponentsPolicy controls how an empty components list is rendered.
type ComponentsPolicy string

const (
	// ComponentsOmit drops the components key when there are no components.
	ComponentsOmit ComponentsPolicy = "omit"
	// ComponentsInclude always renders the key, as [] when empty.
	ComponentsInclude ComponentsPolicy = "include"
)

// ParseComponentsPolicy validates a policy name. Empty means ComponentsOmit.
func ParseComponentsPolicy(s string) (ComponentsPolicy, error) {
	switch ComponentsPolicy(s) {
	case "", ComponentsOmit:
		return ComponentsOmit, nil
	case ComponentsInclude:
		return ComponentsInclude, nil
	default:
		return "", fmt.Errorf("invalid empty-components policy '%s': must be one of: omit, include", s)
	}
}

// Options configures an aggregation.
type Options struct {
	// VersionOnly reduces the document to name and version.
	VersionOnly bool

	EmptyComponents ComponentsPolicy
}

// ErrAppNotResolved means the app entry vanished between loading and
// aggregation. Load guarantees its presence, so this is an internal error.
var ErrAppNotResolved = errors.New("app entry missing from resolved components")
