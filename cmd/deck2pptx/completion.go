package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.json")
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"variant":       {Values: []string{"native", "screenshot"}},
	"quality":       {Values: []string{"high", "medium", "low"}},
	"aspect":        {Values: []string{"16:9", "4:3"}},
	"layout-policy": {Values: []string{"warn", "reject"}},
	"format":        {Values: []string{"pptx", "pdf"}},

	// File flags with glob patterns
	"config":     {FileGlob: "*.yaml,*.yml"},
	"inject-css": {FileGlob: "*.css"},
	"notes-file": {FileGlob: "*.json"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// buildConvertFlagSet creates a FlagSet with all convert command flags.
// This mirrors the flag registration in parseConvertFlags.
func buildConvertFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.out.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.out.pattern, "pattern", "", "output filename pattern (default presentation-{id}.{ext})")
	fs.StringVarP(&f.render.format, "format", "f", "", "output format: pptx, pdf")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.notesFile, "notes-file", "", "JSON file with per-slide speaker notes")

	addCommonFlags(fs, &f.common)
	addServiceFlags(fs, &f.service)
	addRenderFlags(fs, &f.render)
	addBrowserFlags(fs, &f.browser)
	addAssetFlags(fs, &f.assets)

	return fs
}

// buildServeFlagSet creates a FlagSet with all serve command flags.
// This mirrors the flag registration in parseServeFlags.
func buildServeFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8010)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.corsOrigin, "cors-origin", "", "allowed CORS origins, comma-separated")

	addCommonFlags(fs, &f.common)
	addServiceFlags(fs, &f.service)
	addRenderFlags(fs, &f.render)
	addBrowserFlags(fs, &f.browser)
	addAssetFlags(fs, &f.assets)

	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert presentations to PPTX or PDF",
			Flags:       extractFlagsFromFlagSet(buildConvertFlagSet()),
			TakesFiles:  true,
			FilePattern: "*.json",
		},
		{
			Name:  "serve",
			Desc:  "Run the conversion HTTP server",
			Flags: extractFlagsFromFlagSet(buildServeFlagSet()),
		},
		{
			Name:  "doctor",
			Desc:  "Check the conversion environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "output diagnostics as JSON"}},
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Flags: nil,
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Flags: nil,
		},
	}
}

// commandNames returns the registry command names in order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords returns all --long and -short words for a flag list.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globSuffixes splits "*.yaml,*.yml" into [".yaml", ".yml"].
func globSuffixes(globs string) []string {
	parts := strings.Split(globs, ",")
	suffixes := make([]string, 0, len(parts))
	for _, p := range parts {
		suffixes = append(suffixes, strings.TrimPrefix(strings.TrimSpace(p), "*"))
	}
	return suffixes
}

// bashGlobFilter turns "*.yaml,*.yml" into a compgen -X exclusion pattern.
func bashGlobFilter(globs string) string {
	parts := strings.Split(globs, ",")
	if len(parts) == 1 {
		return "!" + parts[0]
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(strings.TrimSpace(p), "*.")
	}
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

// zshGlob turns "*.yaml,*.yml" into a zsh _files -g pattern.
func zshGlob(globs string) string {
	parts := strings.Split(globs, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(strings.TrimSpace(p), "*.")
	}
	return "*.{" + strings.Join(exts, ",") + "}"
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// generateBash writes a bash completion script.
func generateBash(w io.Writer) error {
	cmds := getCommands()
	names := commandNames(cmds)

	var b strings.Builder
	b.WriteString("# bash completion for deck2pptx\n\n")
	b.WriteString("_deck2pptx_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	fmt.Fprintf(&b, "    local commands=\"%s\"\n\n", strings.Join(names, " "))

	b.WriteString("    local cmd=\"\" i\n")
	b.WriteString("    for ((i = 1; i < COMP_CWORD; i++)); do\n")
	b.WriteString("        case \"${COMP_WORDS[i]}\" in\n")
	fmt.Fprintf(&b, "            %s)\n", strings.Join(names, "|"))
	b.WriteString("                cmd=\"${COMP_WORDS[i]}\"\n")
	b.WriteString("                break\n")
	b.WriteString("                ;;\n")
	b.WriteString("        esac\n")
	b.WriteString("    done\n\n")

	b.WriteString("    if [[ -z \"$cmd\" ]]; then\n")
	b.WriteString("        COMPREPLY=($(compgen -W \"$commands\" -- \"$cur\"))\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "        %s)\n", cmd.Name)

		if cmd.Name == "completion" {
			b.WriteString("            COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n")
			b.WriteString("            ;;\n")
			continue
		}

		// Complete values for the preceding flag
		var valueFlags []flagDef
		for _, f := range cmd.Flags {
			if f.Type == flagEnum || f.Type == flagFile || f.Type == flagDir {
				valueFlags = append(valueFlags, f)
			}
		}
		if len(valueFlags) > 0 {
			b.WriteString("            case \"$prev\" in\n")
			for _, f := range valueFlags {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern += "|-" + f.Short
				}
				fmt.Fprintf(&b, "                %s)\n", pattern)
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "                    COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "                    COMPREPLY=($(compgen -f -X '%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", bashGlobFilter(f.FileGlob))
				case flagDir:
					b.WriteString("                    COMPREPLY=($(compgen -d -- \"$cur\"))\n")
				}
				b.WriteString("                    return\n")
				b.WriteString("                    ;;\n")
			}
			b.WriteString("            esac\n")
		}

		if words := flagWords(cmd.Flags); len(words) > 0 {
			b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(words, " "))
			if cmd.TakesFiles {
				b.WriteString("            else\n")
				fmt.Fprintf(&b, "                COMPREPLY=($(compgen -f -X '%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", bashGlobFilter(cmd.FilePattern))
			}
			b.WriteString("            fi\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _deck2pptx_completions deck2pptx\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec for a flag.
func zshFlagSpec(f flagDef) string {
	var names, desc string
	if f.Short != "" {
		names = fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'", f.Short, f.Long, f.Short, f.Long)
	} else {
		names = "'--" + f.Long
	}
	desc = "[" + f.Desc + "]"

	switch f.Type {
	case flagBool:
		return names + desc + "'"
	case flagEnum:
		return fmt.Sprintf("%s%s:%s:(%s)'", names, desc, f.Long, strings.Join(f.Values, " "))
	case flagFile:
		return fmt.Sprintf("%s%s:file:_files -g \"%s\"'", names, desc, zshGlob(f.FileGlob))
	case flagDir:
		return names + desc + ":directory:_files -/'"
	default:
		return fmt.Sprintf("%s%s:%s:'", names, desc, f.Long)
	}
}

// generateZsh writes a zsh completion script.
func generateZsh(w io.Writer) error {
	cmds := getCommands()

	var b strings.Builder
	b.WriteString("#compdef deck2pptx\n\n")
	b.WriteString("_deck2pptx() {\n")
	b.WriteString("    local curcontext=\"$curcontext\" state line\n")
	b.WriteString("    typeset -A opt_args\n\n")
	b.WriteString("    _arguments -C \\\n")
	b.WriteString("        '1: :->command' \\\n")
	b.WriteString("        '*:: :->args'\n\n")
	b.WriteString("    case $state in\n")
	b.WriteString("        command)\n")
	b.WriteString("            local -a commands\n")
	b.WriteString("            commands=(\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "                '%s:%s'\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("            )\n")
	b.WriteString("            _describe 'command' commands\n")
	b.WriteString("            ;;\n")
	b.WriteString("        args)\n")
	b.WriteString("            case $line[1] in\n")
	for _, cmd := range cmds {
		if cmd.Name == "completion" {
			b.WriteString("                completion)\n")
			b.WriteString("                    _values 'shell' bash zsh fish powershell\n")
			b.WriteString("                    ;;\n")
			continue
		}
		if len(cmd.Flags) == 0 && !cmd.TakesFiles {
			continue
		}

		fmt.Fprintf(&b, "                %s)\n", cmd.Name)
		b.WriteString("                    _arguments \\\n")
		var specs []string
		for _, f := range cmd.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		if cmd.TakesFiles {
			specs = append(specs, fmt.Sprintf("'*:deck:_files -g \"%s\"'", zshGlob(cmd.FilePattern)))
		}
		for i, s := range specs {
			sep := " \\\n"
			if i == len(specs)-1 {
				sep = "\n"
			}
			b.WriteString("                        " + s + sep)
		}
		b.WriteString("                    ;;\n")
	}
	b.WriteString("            esac\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_deck2pptx \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generateFish writes a fish completion script.
func generateFish(w io.Writer) error {
	cmds := getCommands()

	var b strings.Builder
	b.WriteString("# fish completion for deck2pptx\n\n")
	b.WriteString("function __fish_deck2pptx_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_deck2pptx_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$argv[1]\" = \"$cmd[2]\"\n")
	b.WriteString("end\n\n")

	b.WriteString("# Commands\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "complete -c deck2pptx -f -n __fish_deck2pptx_needs_command -a %s -d '%s'\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("\n")

	for _, cmd := range cmds {
		if cmd.Name == "completion" {
			b.WriteString("# completion\n")
			b.WriteString("complete -c deck2pptx -x -n '__fish_deck2pptx_using_command completion' -a 'bash zsh fish powershell'\n\n")
			continue
		}
		if len(cmd.Flags) == 0 && !cmd.TakesFiles {
			continue
		}

		fmt.Fprintf(&b, "# %s\n", cmd.Name)
		if cmd.TakesFiles {
			fmt.Fprintf(&b, "complete -c deck2pptx -n '__fish_deck2pptx_using_command %s' -a '(__fish_complete_suffix %s)'\n",
				cmd.Name, strings.Join(globSuffixes(cmd.FilePattern), " "))
		}
		for _, f := range cmd.Flags {
			line := fmt.Sprintf("complete -c deck2pptx -n '__fish_deck2pptx_using_command %s' -l %s", cmd.Name, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
				// no argument
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += fmt.Sprintf(" -r -a '(__fish_complete_suffix %s)'", strings.Join(globSuffixes(f.FileGlob), " "))
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", f.Desc)
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// generatePowerShell writes a PowerShell completion script.
func generatePowerShell(w io.Writer) error {
	cmds := getCommands()

	var b strings.Builder
	b.WriteString("# powershell completion for deck2pptx\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName deck2pptx -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = @(\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "        @{ Name = '%s'; Desc = '%s' }\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    $flags = @{\n")
	for _, cmd := range cmds {
		var entries []string
		for _, f := range cmd.Flags {
			entries = append(entries, fmt.Sprintf("@{ Name = '--%s'; Desc = '%s' }", f.Long, f.Desc))
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", cmd.Name, strings.Join(entries, ", "))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $enums = @{\n")
	for _, cmd := range cmds {
		for _, f := range cmd.Flags {
			if f.Type != flagEnum {
				continue
			}
			quoted := make([]string, len(f.Values))
			for i, v := range f.Values {
				quoted[i] = "'" + v + "'"
			}
			fmt.Fprintf(&b, "        '--%s' = @(%s)\n", f.Long, strings.Join(quoted, ", "))
		}
	}
	b.WriteString("        'completion' = @('bash', 'zsh', 'fish', 'powershell')\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = @($commandAst.CommandElements | Select-Object -Skip 1 | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $command = $null\n")
	b.WriteString("    foreach ($e in $elements) {\n")
	b.WriteString("        if ($flags.ContainsKey($e)) { $command = $e; break }\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $prev = $null\n")
	b.WriteString("    if ($wordToComplete -ne '' -and $elements.Count -ge 2) { $prev = $elements[-2] }\n")
	b.WriteString("    elseif ($wordToComplete -eq '' -and $elements.Count -ge 1) { $prev = $elements[-1] }\n\n")

	b.WriteString("    $results = @()\n")
	b.WriteString("    if ($command -eq 'completion') {\n")
	b.WriteString("        $results = $enums['completion'] | ForEach-Object { @{ Name = $_; Desc = $_ } }\n")
	b.WriteString("    }\n")
	b.WriteString("    elseif ($null -ne $prev -and $enums.ContainsKey($prev)) {\n")
	b.WriteString("        $results = $enums[$prev] | ForEach-Object { @{ Name = $_; Desc = $_ } }\n")
	b.WriteString("    }\n")
	b.WriteString("    elseif ($null -eq $command) {\n")
	b.WriteString("        $results = $commands\n")
	b.WriteString("    }\n")
	b.WriteString("    elseif ($wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $results = $flags[$command]\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $results |\n")
	b.WriteString("        Where-Object { $_.Name -like \"$wordToComplete*\" } |\n")
	b.WriteString("        ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterValue', $_.Desc)\n")
	b.WriteString("        }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deck2pptx completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(deck2pptx completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(deck2pptx completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    deck2pptx completion fish > ~/.config/fish/completions/deck2pptx.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    deck2pptx completion powershell | Out-String | Invoke-Expression")
}
