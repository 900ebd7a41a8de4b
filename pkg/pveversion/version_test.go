package pveversion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		report  string
		major   uint64
		minor   uint64
		wantErr bool
	}{
		{
			name:   "pve 8",
			report: "pve-manager/8.2-1/9355359cd7afbae4",
			major:  8,
			minor:  2,
		},
		{
			name:   "pve 9 three-part version",
			report: "pve-manager/9.0.1-3/025864202ebb6109",
			major:  9,
			minor:  0,
		},
		{
			name:   "trailing newline",
			report: "pve-manager/8.0-2/abcdef0123456789\n",
			major:  8,
			minor:  0,
		},
		{
			name:   "no packaging suffix",
			report: "pve-manager/8.1/deadbeefcafe0000",
			major:  8,
			minor:  1,
		},
		{
			name:    "missing slash",
			report:  "pve-manager 8.2-1",
			wantErr: true,
		},
		{
			name:    "garbage version",
			report:  "pve-manager/not-a-version/0",
			wantErr: true,
		},
		{
			name:    "empty",
			report:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := Parse(tt.report)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.major, rel.Major)
			assert.Equal(t, tt.minor, rel.Minor)
		})
	}
}

func TestReleaseSupported(t *testing.T) {
	assert.True(t, Release{Major: 8}.Supported())
	assert.True(t, Release{Major: 9}.Supported())
	assert.False(t, Release{Major: 7}.Supported())
	assert.False(t, Release{Major: 10}.Supported())
}

func TestDetect(t *testing.T) {
	exec := &executil.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "pve-manager/8.2-1/9355359cd7afbae4\n", nil
		},
	}

	rel, err := Detect(exec)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), rel.Major)
	assert.Equal(t, uint64(2), rel.Minor)
	assert.Equal(t, "8.2", rel.String())
}

func TestDetect_CommandMissing(t *testing.T) {
	exec := &executil.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}

	_, err := Detect(exec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pveversion not found")
}

func TestRequire_Unsupported(t *testing.T) {
	exec := &executil.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "pve-manager/7.4-3/9002ab8a", nil
		},
	}

	_, err := Require(exec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}
