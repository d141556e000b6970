package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pptx <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert presentations to PPTX or PDF")
	fmt.Fprintln(w, "  serve       Run the conversion HTTP service")
	fmt.Fprintln(w, "  doctor      Diagnose browser and service setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'deck2pptx help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pptx convert <deck>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert presentations to PPTX or PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  deck    Presentation ID (requires --base-url), full viewer URL,")
	fmt.Fprintln(w, "          or local deck JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --pattern <s>         Filename pattern with {id}, {name}, {date}, {ext}")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pptx (default), pdf")
	fmt.Fprintln(w, "  -b, --base-url <url>      Deck service root, e.g. http://localhost:3000")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --notes-file <path>   JSON array of per-slide speaker notes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "      --variant <s>         PPTX variant: native (default), screenshot")
	fmt.Fprintln(w, "      --quality <s>         Capture quality: high (default), medium, low")
	fmt.Fprintln(w, "      --aspect <s>          Slide aspect ratio: 16:9 (default), 4:3")
	fmt.Fprintln(w, "      --layout-policy <s>   Unknown layout handling: warn (default), reject")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary path")
	fmt.Fprintln(w, "      --viewport-width <n>  Capture viewport width in pixels")
	fmt.Fprintln(w, "      --viewport-height <n> Capture viewport height in pixels")
	fmt.Fprintln(w, "      --device-scale <f>    Device scale factor")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --inject-css <path>   Extra CSS file injected into the viewer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pptx serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the conversion HTTP service.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  GET  /               Service info")
	fmt.Fprintln(w, "  GET  /health         Health check")
	fmt.Fprintln(w, "  POST /convert/pptx   Convert a presentation to PPTX")
	fmt.Fprintln(w, "  POST /convert/pdf    Convert a presentation to PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8010)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent conversions (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --cors-origin <s>     Allowed CORS origins, comma-separated")
	fmt.Fprintln(w, "  -b, --base-url <url>      Deck service root for presentation IDs")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion defaults:")
	fmt.Fprintln(w, "      --variant <s>         PPTX variant: native (default), screenshot")
	fmt.Fprintln(w, "      --quality <s>         Capture quality: high (default), medium, low")
	fmt.Fprintln(w, "      --aspect <s>          Slide aspect ratio: 16:9 (default), 4:3")
	fmt.Fprintln(w, "      --layout-policy <s>   Unknown layout handling: warn (default), reject")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary path")
	fmt.Fprintln(w, "      --viewport-width <n>  Capture viewport width in pixels")
	fmt.Fprintln(w, "      --viewport-height <n> Capture viewport height in pixels")
	fmt.Fprintln(w, "      --device-scale <f>    Device scale factor")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --inject-css <path>   Extra CSS file injected into the viewer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show request logging")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: deck2pptx doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Diagnose browser, environment, and deck service setup.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: deck2pptx version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: deck2pptx help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
