package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacy(t *testing.T) {
	input := `# managed by pvecli
deb http://deb.debian.org/debian bookworm main contrib

# deb https://enterprise.proxmox.com/debian/pve bookworm pve-enterprise
deb [signed-by=/usr/share/keyrings/proxmox-archive-keyring.gpg] http://download.proxmox.com/debian/pve bookworm pve-no-subscription
`
	lines := ParseLegacy([]byte(input))
	require.Len(t, lines, 5)

	assert.False(t, lines[0].IsRepo())
	assert.Equal(t, "# managed by pvecli", lines[0].Raw)

	assert.True(t, lines[1].IsRepo())
	assert.True(t, lines[1].Enabled)
	assert.Equal(t, "http://deb.debian.org/debian", lines[1].URI)
	assert.Equal(t, "bookworm", lines[1].Suite)
	assert.Equal(t, []string{"main", "contrib"}, lines[1].Components)

	assert.False(t, lines[2].IsRepo())

	assert.True(t, lines[3].IsRepo())
	assert.False(t, lines[3].Enabled)
	assert.True(t, lines[3].IsEnterprise())

	assert.True(t, lines[4].IsRepo())
	assert.True(t, lines[4].Enabled)
	assert.Equal(t, "[signed-by=/usr/share/keyrings/proxmox-archive-keyring.gpg]", lines[4].Options)
	assert.Equal(t, []string{"pve-no-subscription"}, lines[4].Components)
}

func TestLegacyRender_RoundTrip(t *testing.T) {
	input := `deb http://deb.debian.org/debian bookworm main contrib
# deb https://enterprise.proxmox.com/debian/pve bookworm pve-enterprise
`
	lines := ParseLegacy([]byte(input))
	assert.Equal(t, input, string(RenderLegacy(lines)))
}

func TestLegacyRender_PreservesUnknownLines(t *testing.T) {
	input := "# some note\n\ndeb-src http://deb.debian.org/debian bookworm main\n"
	lines := ParseLegacy([]byte(input))
	assert.Equal(t, input, string(RenderLegacy(lines)))
}

func TestDisableRepoLines(t *testing.T) {
	lines := ParseLegacy([]byte(`deb http://a bookworm main
# deb http://b bookworm main
# free comment
`))

	disabled, changed := DisableRepoLines(lines)
	assert.True(t, changed)
	assert.False(t, disabled[0].Enabled)
	assert.False(t, disabled[1].Enabled)
	assert.Equal(t, "# free comment", disabled[2].Raw)

	// all commented already: no change
	again, changed := DisableRepoLines(disabled)
	assert.False(t, changed)
	assert.Equal(t, disabled, again)
}

func TestLegacyIsEnterprise(t *testing.T) {
	byHost := parseLegacyLine("deb https://enterprise.proxmox.com/debian/pve bookworm pve-enterprise")
	assert.True(t, byHost.IsEnterprise())

	byComponent := parseLegacyLine("deb http://mirror.example.com/pve bookworm pve-enterprise")
	assert.True(t, byComponent.IsEnterprise())

	noSub := parseLegacyLine("deb http://download.proxmox.com/debian/pve bookworm pve-no-subscription")
	assert.False(t, noSub.IsEnterprise())
}
