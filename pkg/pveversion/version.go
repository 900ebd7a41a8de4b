// Package pveversion detects the Proxmox VE release running on the host.
//
// The pveversion command reports a string like
// "pve-manager/8.2-1/9355359cd7afbae4" and the release is the middle
// path segment. Only the major.minor pair matters downstream; the
// packaging suffix after "-" is discarded.
package pveversion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
)

// SupportedMajors are the Proxmox VE major releases this tool knows how to
// configure.
var SupportedMajors = []uint64{8, 9}

// ErrUnsupported is returned when the detected major release is not supported.
var ErrUnsupported = errors.New("unsupported Proxmox VE release")

// Release is the detected Proxmox VE release.
type Release struct {
	Major uint64
	Minor uint64
	// Raw is the full string reported by pveversion.
	Raw string
}

// String returns the major.minor form.
func (r Release) String() string {
	return fmt.Sprintf("%d.%d", r.Major, r.Minor)
}

// Supported reports whether the release major is one this tool supports.
func (r Release) Supported() bool {
	for _, m := range SupportedMajors {
		if r.Major == m {
			return true
		}
	}
	return false
}

// Detect runs pveversion and parses the reported release.
func Detect(exec executil.CommandExecutor) (Release, error) {
	path, err := exec.LookPath("pveversion")
	if err != nil {
		return Release{}, fmt.Errorf("pveversion not found (is this a Proxmox VE host?): %w", err)
	}

	out, err := exec.Run(path)
	if err != nil {
		return Release{}, fmt.Errorf("running pveversion: %w", err)
	}

	return Parse(out)
}

// Parse extracts the release from a pveversion report such as
// "pve-manager/8.2-1/9355359cd7afbae4".
func Parse(report string) (Release, error) {
	report = strings.TrimSpace(report)

	parts := strings.Split(report, "/")
	if len(parts) < 2 {
		return Release{}, fmt.Errorf("unexpected pveversion output %q", report)
	}

	// Strip the packaging suffix: "8.2-1" -> "8.2".
	version, _, _ := strings.Cut(parts[1], "-")

	v, err := semver.NewVersion(version)
	if err != nil {
		return Release{}, fmt.Errorf("parsing release %q: %w", version, err)
	}

	return Release{Major: v.Major(), Minor: v.Minor(), Raw: report}, nil
}

// Require returns the release, or ErrUnsupported when the major is unknown.
// Nothing on disk may be touched once this fails.
func Require(exec executil.CommandExecutor) (Release, error) {
	rel, err := Detect(exec)
	if err != nil {
		return Release{}, err
	}
	if !rel.Supported() {
		return rel, fmt.Errorf("%w: %s (supported: 8.x, 9.x)", ErrUnsupported, rel)
	}
	return rel, nil
}
