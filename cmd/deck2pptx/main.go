package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-deck2pptx/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// hasVerboseFlag scans raw args for the verbose flag. Runs before full
// flag parsing so maxprocs logging can be wired first.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// isCommand reports whether arg names a known subcommand.
func isCommand(arg string) bool {
	switch arg {
	case "convert", "serve", "doctor", "completion", "version", "help":
		return true
	}
	return false
}

// looksLikeDeckRef reports whether arg can stand alone as a deck
// reference, enabling the "deck2pptx <url>" shorthand. Bare IDs are
// excluded: they are indistinguishable from mistyped commands.
func looksLikeDeckRef(arg string) bool {
	return fileutil.IsURL(arg) || strings.HasSuffix(arg, ".json")
}

// runMain dispatches to the requested command and returns an exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch cmd := args[1]; {
	case cmd == "convert":
		return runConvertCmd(args[2:], env)
	case cmd == "serve":
		return runServeCmd(args[2:], env)
	case cmd == "doctor":
		return runDoctorCmd(args[2:], env)
	case cmd == "completion":
		if err := runCompletion(args[2:], env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case cmd == "version":
		fmt.Fprintf(env.Stdout, "deck2pptx %s\n", Version)
		return ExitSuccess
	case cmd == "help":
		runHelp(args[2:], env)
		return ExitSuccess
	case looksLikeDeckRef(cmd):
		// Shorthand: "deck2pptx <url>" behaves like "deck2pptx convert <url>".
		return runConvertCmd(args[1:], env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}
