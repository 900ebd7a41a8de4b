// Package config provides configuration for pvecli.
// A Config is constructed once at startup from defaults, an optional YAML
// file, and PVECLI_* environment variables, then passed explicitly to each
// pipeline step.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where pvecli looks for its config file.
const DefaultPath = "/etc/pvecli/config.yaml"

// Config holds every tunable of the post-install pipeline.
type Config struct {
	// APT layout
	SourcesList string `yaml:"sources_list"` // main legacy sources file
	SourcesDir  string `yaml:"sources_dir"`  // sources.list.d
	AptConfDir  string `yaml:"apt_conf_dir"` // apt.conf.d

	// Mirrors
	DebianMirror   string `yaml:"debian_mirror"`
	SecurityMirror string `yaml:"security_mirror"`
	ProxmoxMirror  string `yaml:"proxmox_mirror"`
	CephMirror     string `yaml:"ceph_mirror"`

	// Keyrings referenced from deb822 stanzas
	DebianKeyring  string `yaml:"debian_keyring"`
	ProxmoxKeyring string `yaml:"proxmox_keyring"`

	// MigrateToDeb822 rewrites remaining legacy lists as consolidated
	// deb822 stanzas on major 9 hosts.
	MigrateToDeb822 bool `yaml:"migrate_to_deb822"`

	// Nag suppression
	NagScriptPath string `yaml:"nag_script_path"`
	NagHookPath   string `yaml:"nag_hook_path"`
	WidgetAsset   string `yaml:"widget_asset"`

	// HA/cluster services to enable
	Services []string `yaml:"services"`

	// Step toggles
	SkipUpdate   bool `yaml:"skip_update"`
	SkipServices bool `yaml:"skip_services"`
}

// Default returns the configuration for a stock Proxmox VE host.
func Default() *Config {
	return &Config{
		SourcesList:     "/etc/apt/sources.list",
		SourcesDir:      "/etc/apt/sources.list.d",
		AptConfDir:      "/etc/apt/apt.conf.d",
		DebianMirror:    "http://deb.debian.org/debian",
		SecurityMirror:  "http://security.debian.org/debian-security",
		ProxmoxMirror:   "http://download.proxmox.com/debian/pve",
		CephMirror:      "http://download.proxmox.com/debian",
		DebianKeyring:   "/usr/share/keyrings/debian-archive-keyring.gpg",
		ProxmoxKeyring:  "/usr/share/keyrings/proxmox-archive-keyring.gpg",
		MigrateToDeb822: true,
		NagScriptPath:   "/usr/local/bin/pve-remove-nag.sh",
		NagHookPath:     "/etc/apt/apt.conf.d/no-nag-script",
		WidgetAsset:     "/usr/share/javascript/proxmox-widget-toolkit/proxmoxlib.js",
		Services:        []string{"pve-ha-lrm", "pve-ha-crm", "corosync"},
	}
}

// Suite returns the Debian codename backing the given Proxmox VE major.
func (c *Config) Suite(major uint64) string {
	switch major {
	case 8:
		return "bookworm"
	case 9:
		return "trixie"
	default:
		return ""
	}
}

// Load builds a Config from defaults, overlaid with the YAML file at path if
// it exists, then with environment variables. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays PVECLI_* environment variables.
func (c *Config) applyEnv() {
	overlay := map[string]*string{
		"PVECLI_SOURCES_LIST":   &c.SourcesList,
		"PVECLI_SOURCES_DIR":    &c.SourcesDir,
		"PVECLI_APT_CONF_DIR":   &c.AptConfDir,
		"PVECLI_DEBIAN_MIRROR":  &c.DebianMirror,
		"PVECLI_PROXMOX_MIRROR": &c.ProxmoxMirror,
	}
	for key, dst := range overlay {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("PVECLI_MIGRATE_TO_DEB822"); v != "" {
		c.MigrateToDeb822 = v == "1" || v == "true" || v == "yes"
	}
}
