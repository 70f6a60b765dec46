package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/kelpfork/sliptile/heuristic"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-trials", "-threads")
	Args    []string // Possible argument values (for non-option arguments)
}

// commandMetadata maps command names to their options and arguments.
// solve is absent here; its argument list comes from the evaluator registry.
var commandMetadata = map[string]CommandMetadata{
	"experiment": {
		Options: []string{"-trials", "-threads", "-scramble", "-seed", "-log"},
	},
	"help": {
		Args: []string{
			"show", "set", "random", "scramble", "goals", "solve",
			"compare", "path", "tree", "seed", "experiment", "exit",
		},
	},
}

// Command names for command completion
var commandNames = []string{
	"help", "show", "set", "random", "scramble", "goals", "solve",
	"compare", "path", "tree", "seed", "experiment", "exit",
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		// We have a command, now complete its arguments/options
		cmdName := fields[0]

		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		// Get the last complete field to check context
		var lastCompleteField string
		if endsWithSpace && len(fields) > 0 {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		// An option that expects a value completes to the value the run
		// would use, read from the controller's live config
		if strings.HasPrefix(lastCompleteField, "-") {
			switch optName := strings.TrimPrefix(lastCompleteField, "-"); optName {
			case "trials", "threads", "scramble":
				completions = []string{strconv.Itoa(c.sc.cfg.GetInt(optName))}
			case "seed":
				completions = []string{strconv.FormatUint(c.sc.cfg.GetUint64("seed"), 10)}
			case "log":
				if path := c.sc.cfg.GetString("trial-log"); path != "" {
					completions = []string{path}
				}
			}
		}

		// solve takes an evaluator name from the registry
		if cmdName == "solve" && completions == nil && !strings.HasPrefix(prefix, "-") {
			completions = append(heuristic.Names(), "both")
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				// If we're typing something that starts with -, show options
				if strings.HasPrefix(prefix, "-") {
					completions = metadata.Options
				} else if len(metadata.Args) > 0 {
					completions = metadata.Args
				} else {
					completions = metadata.Options
				}
			}
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
