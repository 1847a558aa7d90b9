package arbor

import "fmt"

// Command is one input of the navigation state machine.
type Command int

const (
	MoveDown Command = iota
	MoveUp
	MoveLeft
	MoveRight
	ToggleFold
	ToggleSelect
	ScrollUp
	ScrollDown
	ExpandAll
	CollapseAll
	Quit
)

var commandNames = [...]string{
	MoveDown:     "move_down",
	MoveUp:       "move_up",
	MoveLeft:     "move_left",
	MoveRight:    "move_right",
	ToggleFold:   "toggle_fold",
	ToggleSelect: "toggle_select",
	ScrollUp:     "scroll_up",
	ScrollDown:   "scroll_down",
	ExpandAll:    "expand_all",
	CollapseAll:  "collapse_all",
	Quit:         "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// Commands returns every command in declaration order.
func Commands() []Command {
	out := make([]Command, len(commandNames))
	for i := range out {
		out[i] = Command(i)
	}
	return out
}

// ParseCommand returns the command with the given snake_case name.
func ParseCommand(name string) (Command, error) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}
