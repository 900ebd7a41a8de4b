package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pve-enterprise.list")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), FilePerm))

	require.NoError(t, Backup(path))

	data, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))
}

func TestBackup_DoesNotOverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.list")
	require.NoError(t, os.WriteFile(path+".bak", []byte("first\n"), FilePerm))
	require.NoError(t, os.WriteFile(path, []byte("second\n"), FilePerm))

	require.NoError(t, Backup(path))

	data, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
}

func TestGlob_NoMatches(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Glob(filepath.Join(dir, "*.list")))
}

func TestGlob_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.list"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.list"), nil, FilePerm))

	matches := Glob(filepath.Join(dir, "*.list"))
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(dir, "a.list"), matches[0])
}

func TestStanzaFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proxmox.sources")

	in := []Stanza{{
		Enabled:    true,
		Types:      []string{"deb"},
		URIs:       []string{"http://download.proxmox.com/debian/pve"},
		Suites:     []string{"trixie"},
		Components: []string{ComponentNoSubscription},
		SignedBy:   "/usr/share/keyrings/proxmox-archive-keyring.gpg",
	}}
	require.NoError(t, SaveStanzaFile(path, in))

	out, err := LoadStanzaFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRenameDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.list")
	require.NoError(t, os.WriteFile(path, []byte("deb http://a b main\n"), FilePerm))

	require.NoError(t, RenameDisabled(path))

	assert.NoFileExists(t, path)
	assert.FileExists(t, path+".bak")
}
