// Package sources models APT source declarations: deb822 stanza files and
// legacy one-line list files. Mutations go through typed records rather than
// text substitution, so a disable or enable always applies to a whole
// logical stanza.
package sources

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Well-known repository markers.
const (
	EnterpriseHost          = "enterprise.proxmox.com"
	ComponentEnterprise     = "pve-enterprise"
	ComponentNoSubscription = "pve-no-subscription"
	CephEnterpriseComponent = "enterprise"
)

// Field is a single deb822 key-value pair.
type Field struct {
	Key   string
	Value string
}

// Stanza is one deb822 source block. A disabled stanza is serialized with
// every line commented out.
type Stanza struct {
	Types      []string
	URIs       []string
	Suites     []string
	Components []string
	SignedBy   string
	Extra      []Field // unrecognized fields, order preserved
	Enabled    bool
}

// HasComponent reports whether the stanza declares the named component.
func (s Stanza) HasComponent(name string) bool {
	for _, c := range s.Components {
		if c == name {
			return true
		}
	}
	return false
}

// HasURIHost reports whether any URI of the stanza points at the given host.
func (s Stanza) HasURIHost(host string) bool {
	for _, u := range s.URIs {
		if strings.Contains(u, host) {
			return true
		}
	}
	return false
}

// IsEnterprise reports whether the stanza declares a paid Proxmox repository,
// either by component or by pointing at the enterprise host.
func (s Stanza) IsEnterprise() bool {
	return s.HasComponent(ComponentEnterprise) || s.HasURIHost(EnterpriseHost)
}

// IsNoSubscription reports whether the stanza declares the free repository.
func (s Stanza) IsNoSubscription() bool {
	return s.HasComponent(ComponentNoSubscription)
}

// fields returns the stanza's fields in canonical order.
func (s Stanza) fields() []Field {
	var out []Field
	if len(s.Types) > 0 {
		out = append(out, Field{"Types", strings.Join(s.Types, " ")})
	}
	if len(s.URIs) > 0 {
		out = append(out, Field{"URIs", strings.Join(s.URIs, " ")})
	}
	if len(s.Suites) > 0 {
		out = append(out, Field{"Suites", strings.Join(s.Suites, " ")})
	}
	if len(s.Components) > 0 {
		out = append(out, Field{"Components", strings.Join(s.Components, " ")})
	}
	if s.SignedBy != "" {
		out = append(out, Field{"Signed-By", s.SignedBy})
	}
	return append(out, s.Extra...)
}

// Render serializes the stanza. Disabled stanzas have every line commented.
func (s Stanza) Render() string {
	var b strings.Builder
	for _, f := range s.fields() {
		if !s.Enabled {
			b.WriteString("# ")
		}
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderStanzas serializes stanzas separated by single blank lines.
func RenderStanzas(stanzas []Stanza) []byte {
	var b bytes.Buffer
	for i, s := range stanzas {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Render())
	}
	return b.Bytes()
}

// ParseStanzas parses deb822 stanzas from file content. Blocks are separated
// by blank lines. A block whose field lines are all commented out parses as a
// disabled stanza; comment lines that are not "Key: value" shaped are
// ignored.
func ParseStanzas(data []byte) ([]Stanza, error) {
	var stanzas []Stanza
	var cur *Stanza
	var lastKey string

	flush := func() {
		if cur != nil && len(cur.fields()) > 0 {
			stanzas = append(stanzas, *cur)
		}
		cur = nil
		lastKey = ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		commented := false
		trimmed := line
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			commented = true
			trimmed = strings.TrimSpace(line)
			trimmed = strings.TrimLeft(trimmed, "#")
			trimmed = strings.TrimPrefix(trimmed, " ")
		}

		// deb822 continuation lines start with whitespace
		if cur != nil && lastKey != "" && !commented &&
			(strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			cur.appendValue(lastKey, strings.TrimSpace(line))
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok || strings.ContainsAny(key, " \t") {
			if commented {
				// free-form comment, not part of the stanza model
				continue
			}
			return nil, fmt.Errorf("line %d: malformed field %q", lineNo, line)
		}

		if cur == nil {
			cur = &Stanza{Enabled: !commented}
		}
		key = strings.TrimSpace(key)
		cur.setField(key, strings.TrimSpace(value))
		lastKey = key
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return stanzas, nil
}

func (s *Stanza) setField(key, value string) {
	switch strings.ToLower(key) {
	case "types":
		s.Types = strings.Fields(value)
	case "uris":
		s.URIs = strings.Fields(value)
	case "suites":
		s.Suites = strings.Fields(value)
	case "components":
		s.Components = strings.Fields(value)
	case "signed-by":
		s.SignedBy = value
	default:
		s.Extra = append(s.Extra, Field{Key: key, Value: value})
	}
}

func (s *Stanza) appendValue(key, value string) {
	switch strings.ToLower(key) {
	case "types":
		s.Types = append(s.Types, strings.Fields(value)...)
	case "uris":
		s.URIs = append(s.URIs, strings.Fields(value)...)
	case "suites":
		s.Suites = append(s.Suites, strings.Fields(value)...)
	case "components":
		s.Components = append(s.Components, strings.Fields(value)...)
	case "signed-by":
		s.SignedBy += " " + value
	default:
		for i := range s.Extra {
			if s.Extra[i].Key == key {
				s.Extra[i].Value += " " + value
				return
			}
		}
	}
}
