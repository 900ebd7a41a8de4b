package sources

import (
	"bufio"
	"bytes"
	"strings"
)

// LegacyLine is one entry of a one-line-per-repo sources.list file. Lines
// that are not deb declarations (free comments, blanks) are kept verbatim in
// Raw so files round-trip unchanged.
type LegacyLine struct {
	Enabled    bool
	Options    string // "[arch=amd64 signed-by=...]" including brackets, or ""
	URI        string
	Suite      string
	Components []string
	Raw        string // non-repo line, kept as-is; empty for repo lines
}

// IsRepo reports whether the line declares a repository (enabled or not).
func (l LegacyLine) IsRepo() bool {
	return l.Raw == "" && l.URI != ""
}

// Render serializes the line back to its textual form.
func (l LegacyLine) Render() string {
	if !l.IsRepo() {
		return l.Raw
	}
	parts := []string{"deb"}
	if l.Options != "" {
		parts = append(parts, l.Options)
	}
	parts = append(parts, l.URI, l.Suite)
	parts = append(parts, l.Components...)
	line := strings.Join(parts, " ")
	if !l.Enabled {
		line = "# " + line
	}
	return line
}

// RenderLegacy serializes lines back to file content.
func RenderLegacy(lines []LegacyLine) []byte {
	var b bytes.Buffer
	for _, l := range lines {
		b.WriteString(l.Render())
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// ParseLegacy parses a legacy sources.list file. It never fails: anything it
// does not understand is preserved verbatim.
func ParseLegacy(data []byte) []LegacyLine {
	var lines []LegacyLine
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, parseLegacyLine(scanner.Text()))
	}
	return lines
}

func parseLegacyLine(line string) LegacyLine {
	trimmed := strings.TrimSpace(line)

	enabled := true
	body := trimmed
	if strings.HasPrefix(trimmed, "#") {
		enabled = false
		body = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	}

	fields := strings.Fields(body)
	if len(fields) < 3 || fields[0] != "deb" {
		return LegacyLine{Raw: line}
	}
	fields = fields[1:]

	var opts string
	if strings.HasPrefix(fields[0], "[") {
		// options may span several fields until the closing bracket
		for i, f := range fields {
			if strings.HasSuffix(f, "]") {
				opts = strings.Join(fields[:i+1], " ")
				fields = fields[i+1:]
				break
			}
		}
		if opts == "" || len(fields) < 2 {
			return LegacyLine{Raw: line}
		}
	}
	if len(fields) < 2 {
		return LegacyLine{Raw: line}
	}

	return LegacyLine{
		Enabled:    enabled,
		Options:    opts,
		URI:        fields[0],
		Suite:      fields[1],
		Components: fields[2:],
	}
}

// DisableRepoLines comments out every enabled deb line. It returns the
// rewritten lines and whether anything changed, so already-commented files
// are recognized as a no-op.
func DisableRepoLines(lines []LegacyLine) ([]LegacyLine, bool) {
	changed := false
	out := make([]LegacyLine, len(lines))
	for i, l := range lines {
		if l.IsRepo() && l.Enabled {
			l.Enabled = false
			changed = true
		}
		out[i] = l
	}
	return out, changed
}

// IsEnterprise reports whether the line references the paid repository.
func (l LegacyLine) IsEnterprise() bool {
	if !l.IsRepo() {
		return false
	}
	if strings.Contains(l.URI, EnterpriseHost) {
		return true
	}
	for _, c := range l.Components {
		if c == ComponentEnterprise {
			return true
		}
	}
	return false
}
