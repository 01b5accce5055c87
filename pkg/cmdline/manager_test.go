// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cmdline

import (
	"testing"

	"github.com/spf13/cobra"
)

func newTestManager() (*CommandManager, *cobra.Command) {
	root := &cobra.Command{Use: "chrootbox"}
	cmd := &cobra.Command{Use: "run"}
	m := NewCommandManager(root)
	m.RegisterCmd(cmd)
	return m, cmd
}

func TestRegisterFlagForCmdString(t *testing.T) {
	m, cmd := newTestManager()
	var target string
	m.RegisterFlagForCmd(&Flag{
		ID:           "targets",
		Value:        &target,
		DefaultValue: "/var/lib/chrootbox",
		Name:         "targets",
		ShortHand:    "t",
		Usage:        "override target directory",
	}, cmd)

	if errs := m.GetError(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// registerOne binds to PersistentFlags; ParseFlags triggers the same
	// local/persistent merge cobra performs before a command's RunE runs.
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if got := cmd.Flags().Lookup("targets").DefValue; got != "/var/lib/chrootbox" {
		t.Errorf("default value = %q", got)
	}
}

func TestRegisterFlagForCmdTypeMismatch(t *testing.T) {
	m, cmd := newTestManager()
	var target string
	m.RegisterFlagForCmd(&Flag{
		ID:           "bad",
		Value:        &target,
		DefaultValue: 42, // wrong type for *string
		Name:         "bad",
	}, cmd)

	errs := m.GetError()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if _, ok := errs[0].(*FlagValTypeErr); !ok {
		t.Errorf("expected FlagValTypeErr, got %T", errs[0])
	}
}

func TestRegisterFlagForCmdNilFlag(t *testing.T) {
	m, _ := newTestManager()
	m.RegisterFlagForCmd(nil)
	if errs := m.GetError(); len(errs) != 1 {
		t.Fatalf("expected one error for nil flag, got %v", errs)
	}
}

func TestUpdateCmdFlagFromEnvOverridesUnsetFlag(t *testing.T) {
	m, cmd := newTestManager()
	var mountList []string
	m.RegisterFlagForCmd(&Flag{
		ID:           "mount",
		Value:        &mountList,
		DefaultValue: []string{},
		Name:         "mount",
		ShortHand:    "m",
		EnvKeys:      []string{"MOUNT"},
	}, cmd)
	if errs := m.GetError(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	t.Setenv("CHROOTBOX_MOUNT", "dev")
	if err := m.UpdateCmdFlagFromEnv(cmd, "CHROOTBOX"); err != nil {
		t.Fatalf("UpdateCmdFlagFromEnv: %v", err)
	}

	got := cmd.Flags().Lookup("mount").Value.String()
	if got != "[dev]" {
		t.Errorf("mount flag after env update = %q, want [dev]", got)
	}
}

func TestUpdateCmdFlagFromEnvSkipsExplicitlySetFlag(t *testing.T) {
	m, cmd := newTestManager()
	var target string
	m.RegisterFlagForCmd(&Flag{
		ID:           "targets",
		Value:        &target,
		DefaultValue: "",
		Name:         "targets",
		EnvKeys:      []string{"TARGETS"},
	}, cmd)
	if errs := m.GetError(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if err := cmd.Flags().Set("targets", "/explicit"); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHROOTBOX_TARGETS", "/from-env")

	if err := m.UpdateCmdFlagFromEnv(cmd, "CHROOTBOX"); err != nil {
		t.Fatalf("UpdateCmdFlagFromEnv: %v", err)
	}
	if target != "/explicit" {
		t.Errorf("target = %q, want /explicit (explicit flag should win over env)", target)
	}
}
