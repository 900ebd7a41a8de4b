package sources

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilePerm is the mode used for APT configuration files.
const FilePerm = 0o644

// LoadStanzaFile reads and parses a deb822 .sources file.
func LoadStanzaFile(path string) ([]Stanza, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stanzas, err := ParseStanzas(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return stanzas, nil
}

// SaveStanzaFile serializes stanzas to a .sources file.
func SaveStanzaFile(path string, stanzas []Stanza) error {
	return os.WriteFile(path, RenderStanzas(stanzas), FilePerm)
}

// LoadLegacyFile reads and parses a one-line-per-repo .list file.
func LoadLegacyFile(path string) ([]LegacyLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLegacy(data), nil
}

// SaveLegacyFile serializes legacy lines to a .list file.
func SaveLegacyFile(path string, lines []LegacyLine) error {
	return os.WriteFile(path, RenderLegacy(lines), FilePerm)
}

// Backup copies path to path.bak before mutation. An existing backup is left
// alone so the first pre-mutation state survives repeat runs.
func Backup(path string) error {
	bak := path + ".bak"
	if _, err := os.Stat(bak); err == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(bak, data, FilePerm)
}

// Glob matches pattern and filters out anything that no longer exists,
// guarding the classic unmatched-glob pitfall: no matches means an empty
// slice, never an error and never a literal pattern string.
func Glob(pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		// only ErrBadPattern lands here; treat as no matches
		return nil
	}
	var out []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			out = append(out, m)
		}
	}
	return out
}

// RenameDisabled moves path aside with a .bak suffix, taking the file out of
// APT's view entirely.
func RenameDisabled(path string) error {
	return os.Rename(path, path+".bak")
}
