package main

import (
	"os"

	"github.com/lcgerke/gitmirror/internal/ui"
)

// newOutput builds the Output honoring the global flags
func newOutput() *ui.Output {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}
	if noColor {
		out.SetColorEnabled(false)
	}
	if quiet {
		out.SetQuiet(true)
	}
	if verbose {
		out.SetVerbose(true)
	}
	return out
}
