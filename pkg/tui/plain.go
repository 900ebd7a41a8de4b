package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
)

// PlainProgress returns a progress callback that prints one line per action,
// for non-interactive terminals and logs.
func PlainProgress(w io.Writer) pipeline.ProgressCallback {
	return func(e pipeline.ProgressEvent) {
		if e.Starting {
			fmt.Fprintf(w, "==> %s\n", e.Title)
			return
		}
		if e.Result != nil {
			fmt.Fprintf(w, "    %s\n", RenderResult(*e.Result))
		}
	}
}

// PrintSummary renders the end-of-run report.
func PrintSummary(w io.Writer, s *pipeline.Summary) {
	ok, skipped, warnings, fatals := s.Counts()

	fmt.Fprintln(w)
	if s.Aborted {
		fmt.Fprintln(w, ErrorStyle.Render("Run aborted."))
	} else {
		fmt.Fprintln(w, SuccessStyle.Render("Run complete."))
	}
	fmt.Fprintf(w, "  %d done, %d already configured, %d warnings, %d fatal\n", ok, skipped, warnings, fatals)
	fmt.Fprintf(w, "  run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))

	if warns := s.Warnings(); len(warns) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("Warnings:"))
		for _, r := range warns {
			fmt.Fprintf(w, "  ! %s", r.Message)
			if r.Detail != "" {
				fmt.Fprintf(w, ": %s", r.Detail)
			}
			fmt.Fprintln(w)
		}
	}
}
