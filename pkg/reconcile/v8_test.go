package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/sources"
)

func TestV8_FreshHost(t *testing.T) {
	cfg := testConfig(t)
	noFatals(t, run(t, cfg, 8))

	// fixed bookworm mirror set
	lines, err := sources.LoadLegacyFile(cfg.SourcesList)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "bookworm", lines[0].Suite)
	assert.Equal(t, "bookworm-updates", lines[1].Suite)
	assert.Equal(t, "bookworm-security", lines[2].Suite)

	// firmware warning quirk
	quirk, err := os.ReadFile(filepath.Join(cfg.AptConfDir, "no-bookworm-firmware.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(quirk), `NonFreeFirmware "false"`)

	// active no-subscription list
	noSub, err := sources.LoadLegacyFile(filepath.Join(cfg.SourcesDir, "pve-install-repo.list"))
	require.NoError(t, err)
	require.Len(t, noSub, 1)
	assert.True(t, noSub[0].Enabled)
	assert.Equal(t, []string{sources.ComponentNoSubscription}, noSub[0].Components)

	// ceph references fully commented
	ceph, err := sources.LoadLegacyFile(filepath.Join(cfg.SourcesDir, "ceph.list"))
	require.NoError(t, err)
	require.Len(t, ceph, 4)
	for _, l := range ceph {
		assert.True(t, l.IsRepo())
		assert.False(t, l.Enabled)
	}
}

func TestV8_DisablesEnterpriseList(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.SourcesDir, "pve-enterprise.list")
	original := "deb https://enterprise.proxmox.com/debian/pve bookworm pve-enterprise\n"
	require.NoError(t, os.WriteFile(path, []byte(original), sources.FilePerm))

	noFatals(t, run(t, cfg, 8))

	lines, err := sources.LoadLegacyFile(path)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Enabled)
	assert.True(t, lines[0].IsEnterprise())

	// pre-mutation content is preserved
	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, original, string(bak))
}

func TestV8_DisablesOnlyEnterpriseLines(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.SourcesDir, "mixed.list")
	content := "deb https://enterprise.proxmox.com/debian/pve bookworm pve-enterprise\n" +
		"deb http://download.proxmox.com/debian/pve bookworm pve-no-subscription\n"
	require.NoError(t, os.WriteFile(path, []byte(content), sources.FilePerm))

	noFatals(t, run(t, cfg, 8))

	lines, err := sources.LoadLegacyFile(path)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Enabled)
	assert.True(t, lines[1].Enabled, "no-subscription line must stay enabled")
}

func TestV8_ReenablesCommentedNoSubscription(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.SourcesDir, "pve-install-repo.list")
	content := "# deb http://download.proxmox.com/debian/pve bookworm pve-no-subscription\n"
	require.NoError(t, os.WriteFile(path, []byte(content), sources.FilePerm))

	noFatals(t, run(t, cfg, 8))

	lines, err := sources.LoadLegacyFile(path)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Enabled)

	// no duplicate list was created elsewhere
	var noSubFiles int
	for _, p := range sources.Glob(filepath.Join(cfg.SourcesDir, "*.list")) {
		ls, err := sources.LoadLegacyFile(p)
		require.NoError(t, err)
		for _, l := range ls {
			if l.IsRepo() && l.Enabled && l.Components[len(l.Components)-1] == sources.ComponentNoSubscription {
				noSubFiles++
			}
		}
	}
	assert.Equal(t, 1, noSubFiles)
}

func TestV8_OverwritesDriftedMainList(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.SourcesList, []byte("deb http://old.mirror/debian bullseye main\n"), sources.FilePerm))

	noFatals(t, run(t, cfg, 8))

	lines, err := sources.LoadLegacyFile(cfg.SourcesList)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, cfg.DebianMirror, lines[0].URI)

	bak, err := os.ReadFile(cfg.SourcesList + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(bak), "old.mirror")
}
