// Package nag installs the subscription-nag suppression hook: a small shell
// script that patches the widget-toolkit UI asset, plus an APT Post-Invoke
// directive that re-applies it after every package operation.
package nag

import (
	"fmt"
	"os"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
)

// StepID identifies nag-installer results in a run summary.
const StepID = "nag"

// Sentinel marks an already-patched asset; the hook script checks for it
// before touching the file again.
const Sentinel = "NoMoreNagging"

const scriptPerm = 0o755

// Installer is the nag-suppression pipeline step.
type Installer struct {
	cfg  *config.Config
	exec executil.CommandExecutor
}

var _ pipeline.Step = (*Installer)(nil)

// New creates the installer.
func New(cfg *config.Config, exec executil.CommandExecutor) *Installer {
	return &Installer{cfg: cfg, exec: exec}
}

// ID implements pipeline.Step.
func (n *Installer) ID() string { return StepID }

// Title implements pipeline.Step.
func (n *Installer) Title() string { return "Disabling subscription nag" }

// Script returns the patch script content. The script is self-guarding: it
// exits quietly when the asset is missing or already carries the sentinel,
// so installing it never depends on the asset's current state.
func (n *Installer) Script() string {
	return fmt.Sprintf(`#!/bin/sh
# Patches the subscription status check out of the Proxmox web UI.
# Re-run by APT after every package operation; safe to run repeatedly.
asset=%q
sentinel=%q

[ -f "$asset" ] || exit 0
grep -qs "$sentinel" "$asset" && exit 0

sed -i "/data\.status/{s/!//;s/active/$sentinel/}" "$asset"
`, n.cfg.WidgetAsset, Sentinel)
}

// HookLine returns the single APT directive registering the script.
func (n *Installer) HookLine() string {
	return fmt.Sprintf("DPkg::Post-Invoke { %q; };\n", n.cfg.NagScriptPath)
}

// Run writes the script and the hook file. The hook file is rewritten
// wholesale so repeat runs can never accumulate duplicate directives.
// Finally the widget toolkit is reinstalled (best effort) so the hook fires
// immediately instead of waiting for the next package operation.
func (n *Installer) Run(_ pipeline.ProgressCallback) []pipeline.Result {
	var results []pipeline.Result

	script := []byte(n.Script())
	if current, err := os.ReadFile(n.cfg.NagScriptPath); err == nil && string(current) == string(script) {
		results = append(results, pipeline.Skipped(StepID, "patch script already installed"))
	} else if err := os.WriteFile(n.cfg.NagScriptPath, script, scriptPerm); err != nil {
		results = append(results, pipeline.Warn(StepID, "writing patch script", err))
	} else {
		results = append(results, pipeline.OK(StepID, "installed patch script at "+n.cfg.NagScriptPath))
	}

	hook := []byte(n.HookLine())
	if current, err := os.ReadFile(n.cfg.NagHookPath); err == nil && string(current) == string(hook) {
		results = append(results, pipeline.Skipped(StepID, "APT hook already registered"))
	} else if err := os.WriteFile(n.cfg.NagHookPath, hook, 0o644); err != nil {
		results = append(results, pipeline.Warn(StepID, "writing APT hook", err))
	} else {
		results = append(results, pipeline.OK(StepID, "registered APT hook at "+n.cfg.NagHookPath))
	}

	results = append(results, n.reinstallWidgetToolkit())
	return results
}

// reinstallWidgetToolkit triggers the freshly installed hook.
func (n *Installer) reinstallWidgetToolkit() pipeline.Result {
	out, err := n.exec.RunEnv(
		[]string{"DEBIAN_FRONTEND=noninteractive"},
		"apt-get", "install", "--reinstall", "-y", "proxmox-widget-toolkit",
	)
	if err != nil {
		r := pipeline.Warn(StepID, "reinstalling proxmox-widget-toolkit", err)
		if out != "" {
			r.Detail = out
		}
		return r
	}
	return pipeline.OK(StepID, "reinstalled proxmox-widget-toolkit")
}
