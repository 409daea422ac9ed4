package nav

import (
	"fmt"
	"sort"
	"strconv"
)

// CommandBus is the string control channel of §6: one-word commands with
// arguments, returning a human-readable answer. Kept as a plain
// synchronous map dispatcher rather than a cobra command tree (contrast
// cmd/navctl, which is cobra-based): §5 requires every public entry point
// to run to completion on the caller's thread with no suspension, and a
// cobra.Command graph is built for process-argv parsing and os.Exit flows,
// not for being re-entered once per frame from game logic.
type CommandBus struct {
	world *World
	cmds  map[string]func(args []string) string
}

// NewCommandBus wires the dm_* commands against world's developer-mode
// state.
func NewCommandBus(world *World) *CommandBus {
	b := &CommandBus{world: world, cmds: make(map[string]func([]string) string)}
	b.cmds["help"] = b.cmdHelp
	b.cmds["dm_enable"] = b.cmdEnable
	b.cmds["dm_show_spaces"] = b.boolToggle(func() *bool { return &b.world.devMode.ShowSpaces })
	b.cmds["dm_show_space_links"] = b.boolToggle(func() *bool { return &b.world.devMode.ShowSpaceLinks })
	b.cmds["dm_show_blockers"] = b.boolToggle(func() *bool { return &b.world.devMode.ShowBlockers })
	b.cmds["dm_show_path"] = b.boolToggle(func() *bool { return &b.world.devMode.ShowPath })
	b.cmds["dm_show_path_faces"] = b.boolToggle(func() *bool { return &b.world.devMode.ShowPathFaces })
	b.cmds["dm_space_hilight_cost_type"] = b.cmdHilightCostType
	b.cmds["dm_quick_debug"] = b.cmdQuickDebug
	return b
}

// Dispatch runs cmd with args, returning its answer or the unknown-command
// message of §6.
func (b *CommandBus) Dispatch(cmd string, args []string) string {
	fn, ok := b.cmds[cmd]
	if !ok {
		return fmt.Sprintf("Unknown command '%s'.", cmd)
	}
	if cmd != "help" && cmd != "dm_enable" && !b.world.devMode.Enabled {
		return "Developer mode is disabled."
	}
	return fn(args)
}

func (b *CommandBus) cmdHelp(args []string) string {
	names := make([]string, 0, len(b.cmds))
	for n := range b.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	out := "Commands:"
	for _, n := range names {
		out += " " + n
	}
	return out
}

func (b *CommandBus) cmdEnable(args []string) string {
	b.world.devMode.Enabled = true
	return "Developer mode enabled."
}

func (b *CommandBus) boolToggle(field func() *bool) func([]string) string {
	return func(args []string) string {
		f := field()
		if len(args) == 0 {
			return strconv.FormatBool(*f)
		}
		*f = args[0] == "1"
		return strconv.FormatBool(*f)
	}
}

func (b *CommandBus) cmdHilightCostType(args []string) string {
	f := &b.world.devMode.HilightCostType
	if len(args) == 0 {
		return strconv.Itoa(int(*f))
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("invalid type number '%s'", args[0])
	}
	*f = int32(v)
	return strconv.Itoa(int(*f))
}

func (b *CommandBus) cmdQuickDebug(args []string) string {
	f := &b.world.devMode.QuickDebug
	if len(args) == 0 {
		return strconv.Itoa(int(*f))
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("invalid value '%s'", args[0])
	}
	*f = int32(v)
	return strconv.Itoa(int(*f))
}
