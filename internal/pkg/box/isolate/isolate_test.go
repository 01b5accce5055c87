// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package isolate

import (
	"os"
	"testing"

	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/box/session"
)

func TestModeStringRoundTrip(t *testing.T) {
	for _, m := range []session.Mode{session.ModeLogin, session.ModeRun} {
		got, err := parseModeString(modeString(m))
		if err != nil {
			t.Fatalf("parseModeString: %v", err)
		}
		if got != m {
			t.Errorf("round trip mode %v got %v", m, got)
		}
	}
}

func TestChildParamsFromEnvRoundTrip(t *testing.T) {
	t.Setenv(envSysRoot, "/var/lib/chrootbox/users/1000/targets/bullseye")
	t.Setenv(envHome, "/home/alice")
	t.Setenv(envMode, "run")
	t.Setenv(envArgv, "echo"+argvSep+"hi there")
	t.Setenv(envMask, "5")

	p, mask, err := ChildParamsFromEnv()
	if err != nil {
		t.Fatalf("ChildParamsFromEnv: %v", err)
	}
	if p.SysRoot != "/var/lib/chrootbox/users/1000/targets/bullseye" {
		t.Errorf("SysRoot = %q", p.SysRoot)
	}
	if p.HomeDir != "/home/alice" {
		t.Errorf("HomeDir = %q", p.HomeDir)
	}
	if p.Mode != session.ModeRun {
		t.Errorf("Mode = %v, want ModeRun", p.Mode)
	}
	if len(p.Argv) != 2 || p.Argv[0] != "echo" || p.Argv[1] != "hi there" {
		t.Errorf("Argv = %v", p.Argv)
	}
	if mask != config.MountMask(5) {
		t.Errorf("mask = %v, want 5", mask)
	}
}

func TestChildParamsFromEnvDefaultsToLoginMode(t *testing.T) {
	os.Unsetenv(envMode)
	t.Setenv(envSysRoot, "/x")
	t.Setenv(envMask, "0")

	p, _, err := ChildParamsFromEnv()
	if err != nil {
		t.Fatalf("ChildParamsFromEnv: %v", err)
	}
	if p.Mode != session.ModeLogin {
		t.Errorf("default Mode = %v, want ModeLogin", p.Mode)
	}
}
