package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pveversion"
)

// testConfig returns a Config rooted in a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.SourcesList = filepath.Join(dir, "sources.list")
	cfg.SourcesDir = filepath.Join(dir, "sources.list.d")
	cfg.AptConfDir = filepath.Join(dir, "apt.conf.d")
	require.NoError(t, os.MkdirAll(cfg.SourcesDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.AptConfDir, 0o755))
	return cfg
}

func run(t *testing.T, cfg *config.Config, major uint64) []pipeline.Result {
	t.Helper()
	r := New(cfg, pveversion.Release{Major: major})
	return r.Run(pipeline.NoOpProgress)
}

// snapshot reads every file under the config's APT directories.
func snapshot(t *testing.T, cfg *config.Config) map[string]string {
	t.Helper()
	files := map[string]string{}

	add := func(path string) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		files[path] = string(data)
	}

	if _, err := os.Stat(cfg.SourcesList); err == nil {
		add(cfg.SourcesList)
	}
	for _, dir := range []string{cfg.SourcesDir, cfg.AptConfDir} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			add(filepath.Join(dir, e.Name()))
		}
	}
	return files
}

func noFatals(t *testing.T, results []pipeline.Result) {
	t.Helper()
	for _, r := range results {
		require.NotEqual(t, pipeline.StatusFatal, r.Status, "unexpected fatal: %s (%s)", r.Message, r.Detail)
		require.NotEqual(t, pipeline.StatusWarning, r.Status, "unexpected warning: %s (%s)", r.Message, r.Detail)
	}
}

func TestReconcile_UnknownMajor(t *testing.T) {
	cfg := testConfig(t)
	results := run(t, cfg, 7)
	require.Len(t, results, 1)
	require.Equal(t, pipeline.StatusFatal, results[0].Status)
}

func TestReconcile_Idempotent(t *testing.T) {
	for _, major := range []uint64{8, 9} {
		t.Run(map[uint64]string{8: "v8", 9: "v9"}[major], func(t *testing.T) {
			cfg := testConfig(t)

			noFatals(t, run(t, cfg, major))
			first := snapshot(t, cfg)

			results := run(t, cfg, major)
			noFatals(t, results)
			second := snapshot(t, cfg)

			require.Equal(t, first, second, "second run must not change any file")

			// and the second run must be pure no-ops
			for _, r := range results {
				require.Equal(t, pipeline.StatusSkipped, r.Status, "expected skip, got %s: %s", r.Status, r.Message)
			}
		})
	}
}
