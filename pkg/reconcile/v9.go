package reconcile

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/sources"
)

// reconcileV9 applies the deb822 plan for Proxmox VE 9 / trixie.
func (r *Reconciler) reconcileV9() []pipeline.Result {
	var results []pipeline.Result
	results = append(results, r.retireLegacyLists()...)
	if r.cfg.MigrateToDeb822 {
		results = append(results, r.writeDebianStanzas())
	}
	results = append(results, r.disableEnterpriseStanzas()...)
	results = append(results, r.ensureNoSubscriptionStanza())
	return results
}

// retireLegacyLists backs up every remaining one-line list, comments its
// repo lines, and moves it aside so APT stops reading it. With migration
// enabled the lists are removed outright once backed up.
func (r *Reconciler) retireLegacyLists() []pipeline.Result {
	var results []pipeline.Result

	paths := sources.Glob(filepath.Join(r.cfg.SourcesDir, "*.list"))
	if main := r.cfg.SourcesList; main != "" {
		if _, err := os.Stat(main); err == nil {
			paths = append(paths, main)
		}
	}

	retired := 0
	for _, path := range paths {
		lines, err := sources.LoadLegacyFile(path)
		if err != nil {
			results = append(results, pipeline.Warn(StepID, "reading "+path, err))
			continue
		}

		disabled, hasRepos := sources.DisableRepoLines(lines)
		if !hasRepos {
			continue
		}

		if err := sources.Backup(path); err != nil {
			results = append(results, pipeline.Warn(StepID, "backing up "+path, err))
			continue
		}

		if r.cfg.MigrateToDeb822 && path != r.cfg.SourcesList {
			if err := os.Remove(path); err != nil {
				results = append(results, pipeline.Warn(StepID, "removing "+path, err))
				continue
			}
			results = append(results, pipeline.OK(StepID, "migrated legacy list "+path))
			retired++
			continue
		}

		if err := sources.SaveLegacyFile(path, disabled); err != nil {
			results = append(results, pipeline.Warn(StepID, "updating "+path, err))
			continue
		}
		if path != r.cfg.SourcesList {
			if err := sources.RenameDisabled(path); err != nil {
				results = append(results, pipeline.Warn(StepID, "renaming "+path, err))
				continue
			}
		}
		results = append(results, pipeline.OK(StepID, "retired legacy list "+path))
		retired++
	}

	if retired == 0 && len(results) == 0 {
		results = append(results, pipeline.Skipped(StepID, "no legacy source lists present"))
	}
	return results
}

// debianStanzas is the consolidated main/security/updates set for trixie.
func (r *Reconciler) debianStanzas() []sources.Stanza {
	suite := r.cfg.Suite(9)
	components := []string{"main", "contrib"}
	return []sources.Stanza{
		{
			Enabled:    true,
			Types:      []string{"deb"},
			URIs:       []string{r.cfg.DebianMirror},
			Suites:     []string{suite},
			Components: components,
			SignedBy:   r.cfg.DebianKeyring,
		},
		{
			Enabled:    true,
			Types:      []string{"deb"},
			URIs:       []string{r.cfg.SecurityMirror},
			Suites:     []string{suite + "-security"},
			Components: components,
			SignedBy:   r.cfg.DebianKeyring,
		},
		{
			Enabled:    true,
			Types:      []string{"deb"},
			URIs:       []string{r.cfg.DebianMirror},
			Suites:     []string{suite + "-updates"},
			Components: components,
			SignedBy:   r.cfg.DebianKeyring,
		},
	}
}

// writeDebianStanzas writes the consolidated debian.sources file.
func (r *Reconciler) writeDebianStanzas() pipeline.Result {
	path := filepath.Join(r.cfg.SourcesDir, "debian.sources")
	desired := sources.RenderStanzas(r.debianStanzas())

	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, desired) {
		return pipeline.Skipped(StepID, "consolidated Debian sources already written")
	}
	if err := os.WriteFile(path, desired, sources.FilePerm); err != nil {
		return pipeline.Warn(StepID, "writing consolidated Debian sources", err)
	}
	return pipeline.OK(StepID, "wrote consolidated Debian sources to "+path)
}

// disableEnterpriseStanzas disables enterprise stanzas wherever they appear.
// The rewrite is per logical stanza: a file mixing an enterprise and a
// no-subscription stanza keeps the latter untouched.
func (r *Reconciler) disableEnterpriseStanzas() []pipeline.Result {
	var results []pipeline.Result
	disabled := 0

	for _, path := range sources.Glob(filepath.Join(r.cfg.SourcesDir, "*.sources")) {
		stanzas, err := sources.LoadStanzaFile(path)
		if err != nil {
			results = append(results, pipeline.Warn(StepID, "reading "+path, err))
			continue
		}

		changed := false
		for i, s := range stanzas {
			if s.IsEnterprise() && s.Enabled {
				stanzas[i].Enabled = false
				changed = true
			}
		}
		if !changed {
			continue
		}

		if err := sources.Backup(path); err != nil {
			results = append(results, pipeline.Warn(StepID, "backing up "+path, err))
			continue
		}
		if err := sources.SaveStanzaFile(path, stanzas); err != nil {
			results = append(results, pipeline.Warn(StepID, "updating "+path, err))
			continue
		}
		results = append(results, pipeline.OK(StepID, "disabled enterprise repository in "+path))
		disabled++
	}

	if disabled == 0 && len(results) == 0 {
		results = append(results, pipeline.Skipped(StepID, "enterprise repository already disabled"))
	}
	return results
}

// noSubscriptionStanza is the free Proxmox repository declaration.
func (r *Reconciler) noSubscriptionStanza() sources.Stanza {
	return sources.Stanza{
		Enabled:    true,
		Types:      []string{"deb"},
		URIs:       []string{r.cfg.ProxmoxMirror},
		Suites:     []string{r.cfg.Suite(9)},
		Components: []string{sources.ComponentNoSubscription},
		SignedBy:   r.cfg.ProxmoxKeyring,
	}
}

// ensureNoSubscriptionStanza guarantees one active no-subscription stanza:
// an existing active one wins, a commented one is re-enabled, otherwise a
// fresh proxmox.sources is created.
func (r *Reconciler) ensureNoSubscriptionStanza() pipeline.Result {
	for _, path := range sources.Glob(filepath.Join(r.cfg.SourcesDir, "*.sources")) {
		stanzas, err := sources.LoadStanzaFile(path)
		if err != nil {
			continue
		}
		for i, s := range stanzas {
			if !s.IsNoSubscription() {
				continue
			}
			if s.Enabled {
				return pipeline.Skipped(StepID, "no-subscription repository already enabled")
			}
			stanzas[i].Enabled = true
			if err := sources.Backup(path); err != nil {
				return pipeline.Warn(StepID, "backing up "+path, err)
			}
			if err := sources.SaveStanzaFile(path, stanzas); err != nil {
				return pipeline.Warn(StepID, "enabling no-subscription repository in "+path, err)
			}
			return pipeline.OK(StepID, "re-enabled no-subscription repository in "+path)
		}
	}

	path := filepath.Join(r.cfg.SourcesDir, "proxmox.sources")
	if err := sources.SaveStanzaFile(path, []sources.Stanza{r.noSubscriptionStanza()}); err != nil {
		return pipeline.Warn(StepID, "writing no-subscription repository stanza", err)
	}
	return pipeline.OK(StepID, "added no-subscription repository at "+path)
}
