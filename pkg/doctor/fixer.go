package doctor

import (
	"fmt"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
)

// Fixer provides functionality to run fix commands.
type Fixer struct {
	executor executil.CommandExecutor
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return &Fixer{executor: &executil.RealExecutor{}}
}

// NewFixerWithExecutor creates a new Fixer with a custom executor.
func NewFixerWithExecutor(exec executil.CommandExecutor) *Fixer {
	return &Fixer{executor: exec}
}

// RunFix executes a fix command through the shell.
func (f *Fixer) RunFix(fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	output, err := f.executor.CombinedOutput("sh", "-c", fix.Command)
	if err != nil {
		return fmt.Errorf("fix failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
