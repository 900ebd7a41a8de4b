package reconcile

import (
	"path/filepath"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/sources"
)

// RepoState describes one repository declaration found on disk.
type RepoState struct {
	File    string
	Repo    string // URI + suite summary
	Kind    string // "enterprise", "no-subscription", "other"
	Enabled bool
}

// Inspect reports the current repository configuration without mutating
// anything. It reads both legacy lists and deb822 stanza files.
func Inspect(cfg *config.Config) []RepoState {
	var states []RepoState

	paths := sources.Glob(filepath.Join(cfg.SourcesDir, "*.list"))
	if cfg.SourcesList != "" {
		paths = append(sources.Glob(cfg.SourcesList), paths...)
	}
	for _, path := range paths {
		lines, err := sources.LoadLegacyFile(path)
		if err != nil {
			continue
		}
		for _, l := range lines {
			if !l.IsRepo() {
				continue
			}
			states = append(states, RepoState{
				File:    path,
				Repo:    l.URI + " " + l.Suite,
				Kind:    legacyKind(l),
				Enabled: l.Enabled,
			})
		}
	}

	for _, path := range sources.Glob(filepath.Join(cfg.SourcesDir, "*.sources")) {
		stanzas, err := sources.LoadStanzaFile(path)
		if err != nil {
			continue
		}
		for _, s := range stanzas {
			repo := ""
			if len(s.URIs) > 0 {
				repo = s.URIs[0]
			}
			if len(s.Suites) > 0 {
				repo += " " + s.Suites[0]
			}
			states = append(states, RepoState{
				File:    path,
				Repo:    repo,
				Kind:    stanzaKind(s),
				Enabled: s.Enabled,
			})
		}
	}

	return states
}

// HasActiveEnterprise reports whether any enterprise declaration is enabled.
func HasActiveEnterprise(states []RepoState) bool {
	for _, s := range states {
		if s.Kind == "enterprise" && s.Enabled {
			return true
		}
	}
	return false
}

// HasActiveNoSubscription reports whether the free repository is enabled.
func HasActiveNoSubscription(states []RepoState) bool {
	for _, s := range states {
		if s.Kind == "no-subscription" && s.Enabled {
			return true
		}
	}
	return false
}

func legacyKind(l sources.LegacyLine) string {
	switch {
	case l.IsEnterprise():
		return "enterprise"
	case hasComponent(l.Components, sources.ComponentNoSubscription):
		return "no-subscription"
	default:
		return "other"
	}
}

func stanzaKind(s sources.Stanza) string {
	switch {
	case s.IsEnterprise():
		return "enterprise"
	case s.IsNoSubscription():
		return "no-subscription"
	default:
		return "other"
	}
}
