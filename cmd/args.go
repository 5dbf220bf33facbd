package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imzhenyu/rDSN.dist.service.flow/report"
)

const usage = `Usage: flowc [flags|options] <path to composition manifest>

Flags:
------
-h, --help      Displays usage information (ie. this text).
-v, --version   Displays the current compiler version.

Options:
--------
-o,  --outpath    Sets the path the IR listing is written to.  Defaults to
                  standard output if unspecified.
-sd, --specdir    Sets the directory spec bundles are read from.  Spec
                  extraction is skipped if unspecified.
-ll, --loglevel   Sets the compiler's log-level.  Valid values are:
                    - "verbose" for outputting all messages (default)
                    - "warn" for outputting errors and warnings
                    - "error" for outputting errors only
                    - "silent" for no output
`

// Prints the usage message and exits the compiler with the given exit code.
func printUsage(exitCode int) {
	fmt.Print(usage, "\n")
	os.Exit(exitCode)
}

// argParser is a command-line argument parser.
type argParser struct {
	// The arguments being parsed.
	args []string

	// The argument parser's position within those arguments.
	ndx int
}

// Set containing all the argument names that correspond to options.
var options = map[string]struct{}{
	"o":         {},
	"sd":        {},
	"ll":        {},
	"-outpath":  {},
	"-specdir":  {},
	"-loglevel": {},
}

// argumentError displays an argument error and exits the program.
func argumentError(message string, args ...interface{}) {
	fmt.Print("argument error: ", fmt.Sprintf(message, args...), "\n\n")
	printUsage(1)
}

// nextArg parses the next command-line argument if one exists.  The first
// value is the name of the argument; it is empty for positional arguments.
// The second value is the value of the argument; it is empty for flags.  The
// final value indicates whether or not there was an argument to parse.
func (ap *argParser) nextArg() (string, string, bool) {
	if ap.ndx < len(ap.args) {
		arg := ap.args[ap.ndx]
		ap.ndx++

		if strings.HasPrefix(arg, "-") { // flag or option
			name := arg[1:]

			if _, ok := options[name]; ok { // option
				// Make sure the option value exists.
				if ap.ndx < len(ap.args) && !strings.HasPrefix(ap.args[ap.ndx], "-") {
					value := ap.args[ap.ndx]
					ap.ndx++
					return name, value, true
				}

				argumentError("option %s requires an argument", strings.TrimLeft(name, "-"))
			} else { // flag
				return name, "", true
			}
		} else { // positional
			return "", arg, true
		}
	}

	// No arguments to parse.
	return "", "", false
}

// useArg attempts to use a single command-line argument to initialize the
// compiler.  If the argument is invalid, the program will exit.
func useArg(c *Compiler, name, value string) {
	switch name {
	case "h", "-help":
		printUsage(0)
	case "v", "-version":
		fmt.Println("flowc v" + Version)
		os.Exit(0)
	case "ll", "-loglevel":
		{
			var logLevel int
			switch value {
			case "silent":
				logLevel = report.LogLevelSilent
			case "error":
				logLevel = report.LogLevelError
			case "warn":
				logLevel = report.LogLevelWarn
			case "verbose":
				logLevel = report.LogLevelVerbose
			default:
				argumentError("invalid log level")
			}

			report.InitReporter(logLevel)
		}
	case "o", "-outpath":
		{
			absPath, err := filepath.Abs(value)
			if err != nil {
				argumentError("invalid output path: %s", value)
			}

			c.outputPath = absPath
		}
	case "sd", "-specdir":
		{
			absPath, err := filepath.Abs(value)
			if err != nil {
				argumentError("invalid spec directory: %s", value)
			}

			c.specDir = absPath
		}
	case "":
		if c.manifestPath == "" {
			absPath, err := filepath.Abs(value)
			if err != nil {
				argumentError("invalid manifest path: %s", value)
			}

			c.manifestPath = absPath
		} else {
			argumentError("manifest path specified multiple times")
		}
	default:
		argumentError("unknown flag: %s", name)
	}
}

// NewCompilerFromArgs creates a new compiler instance based on the given
// command line arguments if the arguments are valid.
func NewCompilerFromArgs() *Compiler {
	c := &Compiler{}

	ap := argParser{args: os.Args[1:], ndx: 0}

	// Parse all command line arguments.
	for {
		if name, value, ok := ap.nextArg(); ok {
			useArg(c, name, value)
		} else {
			break
		}
	}

	// Check to make sure a manifest path was specified.
	if c.manifestPath == "" {
		argumentError("a manifest path must be specified")
	}

	return c
}
