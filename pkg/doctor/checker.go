package doctor

import (
	"os"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
)

// Checker runs environment checks against a host.
type Checker struct {
	executor executil.CommandExecutor
	cfg      *config.Config
	euid     int
}

// NewChecker creates a new Checker with the real command executor.
func NewChecker(cfg *config.Config) *Checker {
	return &Checker{
		executor: &executil.RealExecutor{},
		cfg:      cfg,
		euid:     os.Geteuid(),
	}
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(cfg *config.Config, exec executil.CommandExecutor, euid int) *Checker {
	return &Checker{executor: exec, cfg: cfg, euid: euid}
}

// CheckAll runs every check and returns the results in display order.
func (c *Checker) CheckAll() []Check {
	return []Check{
		CheckRoot(c.euid),
		CheckPveversion(c.executor),
		CheckAptGet(c.executor),
		CheckDpkg(c.executor),
		CheckSystemctl(c.executor),
		CheckWidgetAsset(c.executor, c.cfg.WidgetAsset),
	}
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func GetSummary(checks []Check) Summary {
	var summary Summary
	for _, check := range checks {
		summary.Total++
		switch check.Status {
		case StatusOK:
			summary.OK++
		case StatusMissing:
			summary.Missing++
		case StatusWarning:
			summary.Warnings++
		case StatusError:
			summary.Errors++
		}
	}
	return summary
}

// HasIssues returns true if any checks block a pipeline run.
func HasIssues(checks []Check) bool {
	s := GetSummary(checks)
	return s.Missing > 0 || s.Errors > 0
}
