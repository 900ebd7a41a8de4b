package reconcile

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/sources"
)

// firmwareQuirk silences the bookworm non-free-firmware source warning.
const (
	firmwareQuirkFile    = "no-bookworm-firmware.conf"
	firmwareQuirkContent = `APT::Get::Update::SourceListWarnings::NonFreeFirmware "false";` + "\n"
)

// reconcileV8 applies the legacy-list plan for Proxmox VE 8 / bookworm.
func (r *Reconciler) reconcileV8() []pipeline.Result {
	var results []pipeline.Result
	results = append(results, r.writeMainSources())
	results = append(results, r.writeFirmwareQuirk())
	results = append(results, r.disableEnterpriseLists()...)
	results = append(results, r.ensureNoSubscriptionList())
	results = append(results, r.writeCephReference())
	return results
}

// mainSourcesV8 is the fixed bookworm mirror set for the primary list.
func (r *Reconciler) mainSourcesV8() []sources.LegacyLine {
	suite := r.cfg.Suite(8)
	return []sources.LegacyLine{
		{Enabled: true, URI: r.cfg.DebianMirror, Suite: suite, Components: []string{"main", "contrib"}},
		{Enabled: true, URI: r.cfg.DebianMirror, Suite: suite + "-updates", Components: []string{"main", "contrib"}},
		{Enabled: true, URI: r.cfg.SecurityMirror, Suite: suite + "-security", Components: []string{"main", "contrib"}},
	}
}

// writeMainSources overwrites the primary sources list with the fixed
// Debian mirror set.
func (r *Reconciler) writeMainSources() pipeline.Result {
	desired := sources.RenderLegacy(r.mainSourcesV8())

	current, err := os.ReadFile(r.cfg.SourcesList)
	if err == nil && bytes.Equal(current, desired) {
		return pipeline.Skipped(StepID, "main sources list already configured")
	}
	if err == nil {
		if err := sources.Backup(r.cfg.SourcesList); err != nil {
			return pipeline.Warn(StepID, "backing up main sources list", err)
		}
	}

	if err := os.WriteFile(r.cfg.SourcesList, desired, sources.FilePerm); err != nil {
		return pipeline.Warn(StepID, "writing main sources list", err)
	}
	return pipeline.OK(StepID, "wrote Debian mirrors to "+r.cfg.SourcesList)
}

// writeFirmwareQuirk drops the APT warning-suppression snippet.
func (r *Reconciler) writeFirmwareQuirk() pipeline.Result {
	path := filepath.Join(r.cfg.AptConfDir, firmwareQuirkFile)

	if current, err := os.ReadFile(path); err == nil && string(current) == firmwareQuirkContent {
		return pipeline.Skipped(StepID, "firmware warning quirk already present")
	}
	if err := os.WriteFile(path, []byte(firmwareQuirkContent), sources.FilePerm); err != nil {
		return pipeline.Warn(StepID, "writing firmware warning quirk", err)
	}
	return pipeline.OK(StepID, "suppressed non-free-firmware source warning")
}

// disableEnterpriseLists comments out enterprise repo lines in every .list
// file that declares one, backing each file up first. Only matching lines
// are touched.
func (r *Reconciler) disableEnterpriseLists() []pipeline.Result {
	var results []pipeline.Result
	disabled := 0

	for _, path := range sources.Glob(filepath.Join(r.cfg.SourcesDir, "*.list")) {
		lines, err := sources.LoadLegacyFile(path)
		if err != nil {
			results = append(results, pipeline.Warn(StepID, "reading "+path, err))
			continue
		}

		changed := false
		for i, l := range lines {
			if l.IsEnterprise() && l.Enabled {
				lines[i].Enabled = false
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
		if err := sources.SaveLegacyFile(path, lines); err != nil {
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

// ensureNoSubscriptionList makes sure exactly one active no-subscription
// declaration exists. A commented declaration is re-enabled in place; none
// at all means a new list file is written.
func (r *Reconciler) ensureNoSubscriptionList() pipeline.Result {
	for _, path := range sources.Glob(filepath.Join(r.cfg.SourcesDir, "*.list")) {
		lines, err := sources.LoadLegacyFile(path)
		if err != nil {
			continue
		}
		for i, l := range lines {
			if !l.IsRepo() || !hasComponent(l.Components, sources.ComponentNoSubscription) {
				continue
			}
			if l.Enabled {
				return pipeline.Skipped(StepID, "no-subscription repository already enabled")
			}
			lines[i].Enabled = true
			if err := sources.Backup(path); err != nil {
				return pipeline.Warn(StepID, "backing up "+path, err)
			}
			if err := sources.SaveLegacyFile(path, lines); err != nil {
				return pipeline.Warn(StepID, "enabling no-subscription repository in "+path, err)
			}
			return pipeline.OK(StepID, "re-enabled no-subscription repository in "+path)
		}
	}

	path := filepath.Join(r.cfg.SourcesDir, "pve-install-repo.list")
	line := sources.LegacyLine{
		Enabled:    true,
		URI:        r.cfg.ProxmoxMirror,
		Suite:      r.cfg.Suite(8),
		Components: []string{sources.ComponentNoSubscription},
	}
	if err := sources.SaveLegacyFile(path, []sources.LegacyLine{line}); err != nil {
		return pipeline.Warn(StepID, "writing no-subscription repository list", err)
	}
	return pipeline.OK(StepID, "added no-subscription repository at "+path)
}

// writeCephReference overwrites ceph.list with commented reference entries.
// Policy: the Ceph enterprise feed is fully commented out, alongside
// commented no-subscription alternatives the admin can opt into.
func (r *Reconciler) writeCephReference() pipeline.Result {
	suite := r.cfg.Suite(8)
	lines := []sources.LegacyLine{
		{URI: "https://" + sources.EnterpriseHost + "/debian/ceph-quincy", Suite: suite, Components: []string{"enterprise"}},
		{URI: r.cfg.CephMirror + "/ceph-quincy", Suite: suite, Components: []string{"no-subscription"}},
		{URI: "https://" + sources.EnterpriseHost + "/debian/ceph-reef", Suite: suite, Components: []string{"enterprise"}},
		{URI: r.cfg.CephMirror + "/ceph-reef", Suite: suite, Components: []string{"no-subscription"}},
	}
	desired := sources.RenderLegacy(lines)

	path := filepath.Join(r.cfg.SourcesDir, "ceph.list")
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, desired) {
		return pipeline.Skipped(StepID, "ceph repository references already written")
	}
	if err := os.WriteFile(path, desired, sources.FilePerm); err != nil {
		return pipeline.Warn(StepID, "writing ceph repository references", err)
	}
	return pipeline.OK(StepID, "wrote commented ceph repository references")
}

func hasComponent(components []string, name string) bool {
	for _, c := range components {
		if c == name {
			return true
		}
	}
	return false
}
