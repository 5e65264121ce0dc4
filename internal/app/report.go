package app

import "github.com/fatih/color"

var warningColor = color.New(color.FgYellow)

// printWarnings writes every warning to the output, before anything runs.
func (a *App) printWarnings(warnings []string) {
	for _, w := range warnings {
		warningColor.Fprintf(a.outW, "\n*** Warning ***\n%s\n", w)
	}
}
