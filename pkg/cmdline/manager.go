// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cmdline

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// CommandManager tracks every Flag registered against any command in a
// cobra tree, indexed by Flag.ID, and accumulates registration errors
// instead of panicking: a programming mistake in one subcommand's flag
// set should not take down every other subcommand's --help output.
type CommandManager struct {
	root    *cobra.Command
	flags   map[string]*Flag
	errPool []error
}

// NewCommandManager wraps root. root is typically the program's
// top-level *cobra.Command.
func NewCommandManager(root *cobra.Command) *CommandManager {
	return &CommandManager{root: root, flags: make(map[string]*Flag)}
}

// RegisterCmd adds cmd as a subcommand of the manager's root.
func (m *CommandManager) RegisterCmd(cmd *cobra.Command) {
	m.root.AddCommand(cmd)
}

// RegisterFlagForCmd binds flag to cmd's flag set, dispatching on the
// concrete type of flag.Value; flag.DefaultValue must hold the matching
// element type. Errors are appended to the
// manager's error pool rather than returned, so a caller registering
// many flags in a loop can check GetError once at the end.
func (m *CommandManager) RegisterFlagForCmd(flag *Flag, cmds ...*cobra.Command) {
	if flag == nil {
		m.errPool = append(m.errPool, fmt.Errorf("cmdline: nil flag"))
		return
	}
	if len(cmds) == 0 {
		m.errPool = append(m.errPool, fmt.Errorf("cmdline: flag %q registered against no command", flag.ID))
		return
	}
	for _, cmd := range cmds {
		if cmd == nil {
			m.errPool = append(m.errPool, fmt.Errorf("cmdline: flag %q registered against a nil command", flag.ID))
			continue
		}
		if err := m.registerOne(flag, cmd); err != nil {
			m.errPool = append(m.errPool, err)
			continue
		}
	}
	if len(m.errPool) == 0 {
		m.flags[flag.ID] = flag
	}
}

// registerOne binds flag onto cmd's persistent flag set rather than its
// local one: chrootbox's global flags (-t/--targets, -m/--mount, ...)
// are registered once against the root command and must still parse on
// every subcommand's own command line, which only a persistent flag set
// is inherited for. A leaf command with no children behaves identically
// either way, so subcommand-local flags cost nothing by going through
// the same path.
func (m *CommandManager) registerOne(flag *Flag, cmd *cobra.Command) error {
	fs := cmd.PersistentFlags()

	switch v := flag.Value.(type) {
	case *string:
		def, ok := flag.DefaultValue.(string)
		if !ok {
			return &FlagValTypeErr{ID: flag.ID}
		}
		fs.StringVarP(v, flag.Name, flag.ShortHand, def, flag.Usage)
	case *bool:
		def, ok := flag.DefaultValue.(bool)
		if !ok {
			return &FlagValTypeErr{ID: flag.ID}
		}
		fs.BoolVarP(v, flag.Name, flag.ShortHand, def, flag.Usage)
	case *int:
		def, ok := flag.DefaultValue.(int)
		if !ok {
			return &FlagValTypeErr{ID: flag.ID}
		}
		fs.IntVarP(v, flag.Name, flag.ShortHand, def, flag.Usage)
	case *uint32:
		def, ok := flag.DefaultValue.(uint32)
		if !ok {
			return &FlagValTypeErr{ID: flag.ID}
		}
		fs.Uint32VarP(v, flag.Name, flag.ShortHand, def, flag.Usage)
	case *[]string:
		def, ok := flag.DefaultValue.([]string)
		if !ok {
			return &FlagValTypeErr{ID: flag.ID}
		}
		fs.StringArrayVarP(v, flag.Name, flag.ShortHand, def, flag.Usage)
	default:
		return &FlagValTypeErr{ID: flag.ID}
	}

	if flag.Deprecated != "" {
		fs.MarkDeprecated(flag.Name, flag.Deprecated)
	}
	if flag.Hidden {
		fs.MarkHidden(flag.Name)
	}
	if flag.Required {
		cmd.MarkFlagRequired(flag.Name)
	}
	return nil
}

// GetError returns every error accumulated since the last registration
// pass and clears the pool.
func (m *CommandManager) GetError() []error {
	errs := m.errPool
	m.errPool = nil
	return errs
}

// UpdateCmdFlagFromEnv overrides every registered flag on cmd that was
// not explicitly set on the command line, from the first of its EnvKeys
// present in the environment under the given prefix (e.g. "CHROOTBOX").
func (m *CommandManager) UpdateCmdFlagFromEnv(cmd *cobra.Command, prefix string) error {
	var firstErr error
	for _, flag := range m.flags {
		if len(flag.EnvKeys) == 0 {
			continue
		}
		pflag := cmd.Flags().Lookup(flag.Name)
		if pflag == nil || pflag.Changed {
			continue
		}
		for _, key := range flag.EnvKeys {
			envName := key
			if prefix != "" {
				envName = prefix + "_" + key
			}
			val, ok := os.LookupEnv(envName)
			if !ok {
				continue
			}
			if err := pflag.Value.Set(val); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("cmdline: env %s: %w", envName, err)
				}
				continue
			}
			break
		}
	}
	return firstErr
}

// ParseUint32 parses s, with surrounding whitespace ignored, as a decimal
// value in the uint32 range, e.g. a uid given as a flag value.
func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
