package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// displayError prints an error message to the console.
func displayError(tag, msg string) {
	ErrorStyleBG.Print(tag + " Error")
	ErrorColorFG.Println(" " + msg)
}

// displayWarning prints a warning message to the console.
func displayWarning(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// displayInfo prints an informational message to the user.
func displayInfo(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// DisplayCompileHeader displays the pre-compilation header: information about
// the compiler's current configuration.
func DisplayCompileHeader(version, manifest string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel != LogLevelVerbose {
		return
	}

	fmt.Print("flowc ")
	InfoColorFG.Print("v" + version)
	fmt.Println(" compiling " + manifest)
}

// DisplayCompilationFinished displays the concluding message for
// compilation.
func DisplayCompilationFinished(ok bool, output string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if ok && rep.logLevel == LogLevelVerbose {
		SuccessStyleBG.Print("Done")
		SuccessColorFG.Println(" " + output)
	} else if !ok && rep.logLevel > LogLevelSilent {
		ErrorStyleBG.Print("Failed")
		ErrorColorFG.Println(" compilation stopped")
	}
}
