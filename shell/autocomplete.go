package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
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
	Options []string // Available options for this command (e.g., "-depth", "-threads")
	Args    []string // Possible argument values (for non-option arguments)
}

var searchOptions = []string{"-depth", "-threads", "-tt"}

var fileArgs = []string{"0", "1", "2", "3", "4", "5", "6"}

var colorArgs = []string{"red", "yellow"}

var firstArgs = []string{"red", "yellow", "random"}

var commandMetadata = map[string]CommandMetadata{
	"new":    {Options: []string{"-first"}},
	"color":  {Args: colorArgs},
	"play":   {Args: fileArgs},
	"aiplay": {Options: searchOptions},
	"best":   {Options: searchOptions},
	"load":   {Options: []string{"-turn"}},
	"set":    {Args: optionKeys},
	"help":   {Args: []string{"aiplay", "load", "perft", "script", "set"}},
}

var commandNames = []string{
	"help", "new", "color", "play", "aiplay", "best", "undo", "eval",
	"load", "notation", "show", "perft", "set", "script", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quotes and the like
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

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "tt":
				completions = boolValues
			case "turn":
				completions = colorArgs
			case "first":
				completions = firstArgs
			}
		}

		if cmdName == "set" && completions == nil && len(fields) >= 2 &&
			(len(fields) > 2 || endsWithSpace) {
			switch fields[1] {
			case "ttable", "autoreply":
				completions = boolValues
			case "human":
				completions = colorArgs
			case "first":
				completions = firstArgs
			default:
				completions = []string{}
			}
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

	matches := lo.FilterMap(completions, func(completion string, _ int) ([]rune, bool) {
		if !strings.HasPrefix(completion, prefix) {
			return nil, false
		}
		// Return only the part that needs to be added
		return []rune(completion[len(prefix):]), true
	})
	return matches, len([]rune(prefix))
}
