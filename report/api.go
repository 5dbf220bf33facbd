package report

import (
	"fmt"
	"os"
)

// -----------------------------------------------------------------------------
// NOTE: All report functions will only display if the appropriate log level
// is set.  Most report functions will simply fail silently if below their
// appropriate log level.

// ReportLoweringError reports an error raised while lowering a composition
// graph.  vertex names the vertex being lowered when the error occurred.
func ReportLoweringError(vertex string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayError("Lowering", fmt.Sprintf("%s: %s", vertex, err.Error()))
	}
}

// ReportConfigError reports an error loading or validating a composition
// manifest.
func ReportConfigError(path string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayError("Config", fmt.Sprintf("%s: %s", path, err.Error()))
	}
}

// ReportWarning reports a non-fatal warning.
func ReportWarning(tag, msg string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel >= LogLevelWarn {
		displayWarning(tag, msg)
	}
}

// ReportInfo reports a verbose progress message such as a lowering phase
// notification.
func ReportInfo(tag, msg string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayInfo(tag, msg)
	}
}

// ReportFatal reports a fatal error and exits the program.  These are
// expected errors that generally result from invalid configuration: a
// missing manifest, an unreadable spec bundle, etc.
func ReportFatal(msg string, args ...interface{}) {
	rep.m.Lock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayError("Fatal", fmt.Sprintf(msg, args...))
	}

	rep.m.Unlock()
	os.Exit(1)
}
