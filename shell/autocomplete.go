package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/pcfinder/config"
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
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"in": {
		Args: []string{"left", "right", "dasleft", "dasright", "softdrop",
			"harddrop", "cw", "ccw", "180"},
	},
	"pc": {
		Args:    []string{"wait"},
		Options: []string{"-n", "-timeout"},
	},
	"load": {
		Options: []string{"-name"},
	},
	"save": {
		Options: []string{"-name"},
	},
	"set": {
		Args: []string{
			config.ConfigPCLookahead, config.ConfigPCMaxHeight,
			config.ConfigPCMaxNodes, config.ConfigPCMemoryFraction,
			config.ConfigSetupHoldPolicy, config.ConfigSetupsPath,
		},
	},
	"bench": {
		Options: []string{"-threads", "-seed", "-height"},
	},
	"help": {
		Args: commandNames,
	},
}

var commandNames = []string{
	"help", "new", "show", "in", "hold", "place", "finesse", "pc", "setups",
	"load", "save", "undo", "set", "stats", "bench", "exit",
}

var holdPolicies = []string{"once", "unlimited"}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case cmdName == "set" && lastCompleteField == config.ConfigSetupHoldPolicy:
			completions = holdPolicies
		case cmdName == "in":
			completions = commandMetadata["in"].Args
		case cmdName == "place" && c.sc != nil && c.sc.game != nil && lastCompleteField == "place":
			// Offer the active piece's resting spots.
			completions = c.placements()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func (c *ShellCompleter) placements() []string {
	var out []string
	for _, pl := range c.sc.reachablePlacements() {
		out = append(out, pl.String())
	}
	return out
}
