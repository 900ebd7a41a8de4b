package doctor

import (
	"regexp"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
)

// checkTool checks if a tool is installed and gets its version.
func checkTool(exec executil.CommandExecutor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Run(path, versionArgs...)
	if err != nil {
		// Tool exists but the version probe failed - still usable
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	if version := extractVersion(output, versionRegex); version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}
	return check
}

// extractVersion extracts a version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)
	}
	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckPveversion checks the Proxmox VE version reporter is present.
func CheckPveversion(exec executil.CommandExecutor) Check {
	return checkTool(
		exec,
		IDPveversion,
		"pveversion",
		"Proxmox VE version reporter",
		nil,
		regexp.MustCompile(`pve-manager/(\d+\.\d+(?:\.\d+)?-\d+)`),
		nil,
	)
}

// CheckAptGet checks the APT package manager is present.
func CheckAptGet(exec executil.CommandExecutor) Check {
	return checkTool(
		exec,
		IDAptGet,
		"apt-get",
		"Debian package manager",
		[]string{"--version"},
		regexp.MustCompile(`apt (\d+\.\d+(?:\.\d+)?)`),
		nil,
	)
}

// CheckDpkg checks dpkg is present.
func CheckDpkg(exec executil.CommandExecutor) Check {
	return checkTool(
		exec,
		IDDpkg,
		"dpkg",
		"Debian package tool",
		[]string{"--version"},
		regexp.MustCompile(`version (\d+\.\d+(?:\.\d+)?)`),
		nil,
	)
}

// CheckSystemctl checks systemd is managing the host.
func CheckSystemctl(exec executil.CommandExecutor) Check {
	return checkTool(
		exec,
		IDSystemctl,
		"systemctl",
		"systemd service manager",
		[]string{"--version"},
		regexp.MustCompile(`systemd (\d+)`),
		nil,
	)
}

// CheckRoot verifies pvecli is running with root privileges; APT sources and
// apt.conf.d are only writable by root.
func CheckRoot(euid int) Check {
	check := Check{
		ID:          IDRoot,
		Name:        "Privileges",
		Description: "Root is required to modify APT configuration",
	}
	if euid == 0 {
		check.Status = StatusOK
		check.Message = "running as root"
	} else {
		check.Status = StatusError
		check.Message = "not running as root"
		check.FixCommand = &FixCommand{
			Description: "Re-run with sudo",
			Command:     "sudo pvecli run",
			Sudo:        true,
		}
	}
	return check
}

// CheckWidgetAsset verifies the UI asset targeted by the nag patch exists.
// A missing asset is only a warning: the hook script guards at runtime.
func CheckWidgetAsset(exec executil.CommandExecutor, path string) Check {
	check := Check{
		ID:          IDWidgetAsset,
		Name:        "Widget toolkit",
		Description: "UI asset patched by the nag suppression hook",
	}
	if exec.FileExists(path) {
		check.Status = StatusOK
		check.Message = path
	} else {
		check.Status = StatusWarning
		check.Message = "asset not found (hook will patch it once installed)"
		check.FixCommand = &FixCommand{
			Description: "Reinstall the widget toolkit",
			Command:     "apt-get install --reinstall proxmox-widget-toolkit",
			Sudo:        true,
		}
	}
	return check
}
