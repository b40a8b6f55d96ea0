package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "-" (e.g., "width")
	Short     string   // short alias without "-" (e.g., "q")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "duration")
	IsFile    bool     // true if the flag takes a file path
	IsWidth   bool     // true if values come from the width list (dynamic)
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "width", Help: "Integer width", IsWidth: true, ValueName: "width"},
	{Long: "timeout", Help: "Maximum duration of a command", Values: []string{"10s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Long: "workers", Help: "Series multiplication workers", Values: []string{"0", "1", "2", "4", "8"}, ValueName: "count"},
	{Long: "block-size", Help: "Series multiplication block size", Values: []string{"64", "128", "256", "512", "1024"}, ValueName: "terms"},
	{Long: "parallel-memory", Help: "Sweep large tables in parallel"},
	{Long: "precision", Help: "Binary precision of real evaluations", Values: []string{"53", "113", "237"}, ValueName: "bits"},
	{Long: "gc", Help: "GC control during expansions", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Long: "memory-limit", Help: "Reject larger expansions", Values: []string{"512M", "2G", "8G"}, ValueName: "size"},
	{Long: "calibrate", Help: "Run calibration mode"},
	{Long: "auto-calibrate", Help: "Enable auto-calibration"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "metrics", Help: "Print metrics after a one-shot command"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "verbose", Short: "v", Help: "Full numbers and debug logs"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - widths: The accepted integer widths.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, widths []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(widths)
	case "zsh":
		script = zshCompletion(widths)
	case "fish":
		script = fishCompletion(widths)
	default:
		return errors.Newf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return errors.Wrapf(err, "completion %s generation failed", shell)
	}
	return nil
}

// flagValues returns the completion words of a value-taking flag.
func flagValues(f FlagCompletion, widths []string) []string {
	if f.IsWidth {
		return widths
	}
	return f.Values
}

func bashCompletion(widths []string) string {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	var cases strings.Builder
	for _, f := range flagRegistry {
		pattern := "-" + f.Long + "|--" + f.Long
		switch {
		case f.IsFile:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", pattern)
		case len(flagValues(f, widths)) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				pattern, strings.Join(flagValues(f, widths), " "))
		}
	}

	return fmt.Sprintf(`# Bash completion script for symcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_symcalc_completions() {
    local cur prev opts commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    commands="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    else
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
    fi
    return 0
}

complete -F _symcalc_completions symcalc
`, strings.Join(opts, " "), strings.Join(CommandNames(), " "), cases.String())
}

func zshCompletion(widths []string) string {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f, widths))
	}
	args = append(args, fmt.Sprintf("        '1:command:(%s)'", strings.Join(CommandNames(), " ")))
	args = append(args, "        '*::operand:'")

	return fmt.Sprintf(`#compdef symcalc

# Zsh completion script for symcalc
# Add this to your ~/.zshrc or place in $fpath

_symcalc() {
    _arguments -s \
%s
}

_symcalc "$@"
`, strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion, widths []string) string {
	valueSuffix := ""
	if f.IsFile {
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	} else if vals := flagValues(f, widths); len(vals) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(vals, " "))
	} else if f.ValueName != "" {
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion(widths []string) string {
	lines := []string{
		"# Fish completion script for symcalc",
		"# Add this to ~/.config/fish/completions/symcalc.fish",
		"",
		"complete -c symcalc -f",
		"",
		"# Flags",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c symcalc", "-o " + f.Long}
		if f.Short != "" {
			parts = append(parts, "-o "+f.Short)
		}
		parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
		if f.IsFile {
			parts = append(parts, "-rF")
		} else if vals := flagValues(f, widths); len(vals) > 0 {
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(vals, " ")))
		} else if f.ValueName != "" {
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	lines = append(lines, "", "# Commands")
	for _, c := range commandTable {
		lines = append(lines, fmt.Sprintf("complete -c symcalc -n '__fish_use_subcommand' -a %s -d '%s'", c.name, c.help))
	}
	return strings.Join(lines, "\n") + "\n"
}
