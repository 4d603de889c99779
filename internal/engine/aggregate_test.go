package engine

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianoble/git-version/internal/config"
	"github.com/bianoble/git-version/internal/vcs"
)

// mockProber returns predefined results per directory and records the tag
// prefix each directory was probed with.
type mockProber struct {
	results map[string]vcs.Result
	delays  map[string]time.Duration

	mu       sync.Mutex
	prefixes map[string]string
}

func (m *mockProber) Probe(ctx context.Context, dir, tagPrefix string) vcs.Result {
	if d, ok := m.delays[dir]; ok {
		time.Sleep(d)
	}
	m.mu.Lock()
	if m.prefixes == nil {
		m.prefixes = make(map[string]string)
	}
	m.prefixes[dir] = tagPrefix
	m.mu.Unlock()
	return m.results[dir]
}

func unixTime(sec int64) *vcs.Timestamp {
	return &vcs.Timestamp{Time: time.Unix(sec, 0).UTC()}
}

const wd = "/work/shop"

func TestAggregateTagVersionWins(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{
		wd: {Version: "v1.2.0", Git: vcs.GitInfo{Branch: "main", SHA1: "abc123", Clean: true}},
	}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{
		{ID: "app", Name: "widget", Version: "1.0.0", VersionTagPrefix: "v[0-9]*"},
	}}

	a := &Aggregator{Prober: p, WorkingDir: wd}
	doc, err := a.Aggregate(context.Background(), cfg, Options{})
	require.NoError(t, err)

	assert.Equal(t, "widget", doc.Name)
	assert.Equal(t, "v1.2.0", doc.Version)
	require.NotNil(t, doc.Git)
	assert.Equal(t, "main", doc.Git.Branch)
	assert.Nil(t, doc.Components)
	assert.Equal(t, "v[0-9]*", p.prefixes[wd])
}

func TestAggregateStaticVersionFallback(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{
		wd: {Git: vcs.GitInfo{SHA1: "abc123"}},
	}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{
		{ID: "app", Name: "widget", Version: "1.0.0"},
	}}

	doc, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Version)
}

func TestAggregateVersionOnly(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{
		wd:                       {Version: "v2.0.0", Git: vcs.GitInfo{Branch: "main"}},
		filepath.Join(wd, "lib"): {Version: "lib-1.0"},
	}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{
		{ID: "app", Name: "widget"},
		{ID: "lib", Name: "lib", Path: "lib"},
	}}

	doc, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(context.Background(), cfg, Options{VersionOnly: true})
	require.NoError(t, err)
	assert.Equal(t, &Document{Name: "widget", Version: "v2.0.0"}, doc)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"widget","version":"v2.0.0"}`, string(data))
}

func TestAggregateComponentOrder(t *testing.T) {
	dirs := []string{"a", "b", "c", "d", "e"}
	p := &mockProber{
		results: map[string]vcs.Result{wd: {}},
		delays:  map[string]time.Duration{},
	}
	entries := []config.Entry{{ID: "app", Name: "widget"}}
	for i, d := range dirs {
		dir := filepath.Join(wd, d)
		p.results[dir] = vcs.Result{Version: d + "-1.0"}
		// Later entries finish first.
		p.delays[dir] = time.Duration(len(dirs)-i) * 10 * time.Millisecond
		entries = append(entries, config.Entry{ID: d, Name: d, Path: d})
	}
	// The app entry sits in the middle of the list.
	entries[0], entries[3] = entries[3], entries[0]
	cfg := &config.Config{AppID: "app", Entries: entries}

	doc, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(context.Background(), cfg, Options{})
	require.NoError(t, err)

	var ids []string
	for _, c := range doc.Components {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c", "a", "b", "d", "e"}, ids)
	assert.Equal(t, "c-1.0", doc.Components[0].Version)
}

func TestAggregateNonRepositoryComponent(t *testing.T) {
	date := unixTime(1700000000)
	p := &mockProber{results: map[string]vcs.Result{
		wd:                              {Version: "v1.0.0", Git: vcs.GitInfo{Branch: "main", SHA1: "aaa", Date: date, Clean: true}},
		filepath.Join(wd, "plain"):      {},
		filepath.Join(wd, "svc", "api"): {Version: "api-v3", Git: vcs.GitInfo{Branch: "main", SHA1: "aaa", Date: date, Clean: true}},
	}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{
		{ID: "app", Name: "shop"},
		{ID: "plain", Name: "assets", Path: "plain"},
		{ID: "api", Name: "api", Path: "svc/api", VersionTagPrefix: "api-v*"},
	}}

	doc, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(context.Background(), cfg, Options{})
	require.NoError(t, err)
	require.Len(t, doc.Components, 2)

	assert.Equal(t, Component{ID: "plain", Name: "assets"}, doc.Components[0])
	assert.False(t, doc.Components[0].Git.Clean)
	assert.Equal(t, "api-v3", doc.Components[1].Version)
	assert.Equal(t, "api-v*", p.prefixes[filepath.Join(wd, "svc", "api")])

	data, err := json.Marshal(doc.Components[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"plain","name":"assets","git":{"clean":false}}`, string(data))
}

func TestAggregateEmptyComponentsPolicy(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{wd: {Version: "v1.0.0"}}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{{ID: "app", Name: "widget"}}}
	a := &Aggregator{Prober: p, WorkingDir: wd}

	doc, err := a.Aggregate(context.Background(), cfg, Options{EmptyComponents: ComponentsOmit})
	require.NoError(t, err)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "components")

	doc, err = a.Aggregate(context.Background(), cfg, Options{EmptyComponents: ComponentsInclude})
	require.NoError(t, err)
	data, err = json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"components":[]`)
}

func TestAggregateDefaultsAppName(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{{ID: "app", Path: "packages/core"}}}

	doc, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, "core", doc.Name)
	assert.Empty(t, doc.Version)
}

func TestAggregateMissingApp(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{{ID: "lib"}}}

	_, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(context.Background(), cfg, Options{})
	assert.ErrorIs(t, err, ErrAppNotResolved)
}

func TestAggregateCancelledContext(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{}}
	cfg := &config.Config{AppID: "app", Entries: []config.Entry{{ID: "app"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Aggregator{Prober: p, WorkingDir: wd}).Aggregate(ctx, cfg, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveDefaultsPath(t *testing.T) {
	p := &mockProber{results: map[string]vcs.Result{wd: {Version: "v9"}}}

	c := Resolve(context.Background(), p, wd, config.Entry{ID: "app", Name: "x", Version: "static", VersionTagPrefix: "v*"})
	assert.Equal(t, Component{ID: "app", Name: "x", Version: "v9"}, c)
	assert.Equal(t, "v*", p.prefixes[wd])
}

func TestParseComponentsPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ComponentsPolicy
		wantErr bool
	}{
		{"", ComponentsOmit, false},
		{"omit", ComponentsOmit, false},
		{"include", ComponentsInclude, false},
		{"always", "", true},
	}

	for _, tt := range tests {
		got, err := ParseComponentsPolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
