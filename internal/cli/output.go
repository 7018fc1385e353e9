package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
)

func okLabel() string   { return okColor.Sprint("[ OK ]") }
func failLabel() string { return failColor.Sprint("[FAIL]") }
func warnLabel() string { return warnColor.Sprint("[WARN]") }
func missLabel() string { return warnColor.Sprint("[MISS]") }

func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nWarnings:")
	for _, msg := range warnings {
		fmt.Fprintf(w, "  %s %s\n", warnLabel(), msg)
	}
}
