// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package cmdline layers a typed flag descriptor on top of cobra/pflag,
// mirroring the teacher's pkg/cmdline contract: a Flag is declared once
// as data (ID, bound variable, default, name, usage, optional env keys)
// and registered against one or more *cobra.Command via a CommandManager,
// rather than each subcommand calling cmd.Flags().StringVar et al. by
// hand.
package cmdline

import "fmt"

// Flag describes a single command-line flag and the Go variable it binds
// to. Value's concrete pointer type selects which pflag registration
// function RegisterFlagForCmd uses, and DefaultValue must hold the
// matching element type.
type Flag struct {
	ID           string
	Value        interface{}
	DefaultValue interface{}
	Name         string
	ShortHand    string
	Usage        string
	Deprecated   string
	Hidden       bool
	Required     bool
	// EnvKeys lists environment variable names (without a prefix) that
	// UpdateCmdFlagFromEnv consults, in order, to override the flag's
	// value when the flag was not explicitly set on the command line.
	EnvKeys []string
}

// FlagValTypeErr is returned by RegisterFlagForCmd when a Flag's Value
// and DefaultValue are of a type this package does not know how to
// register against pflag.
type FlagValTypeErr struct {
	ID string
}

func (e *FlagValTypeErr) Error() string {
	return fmt.Sprintf("cmdline: flag %q has an unsupported value type", e.ID)
}
