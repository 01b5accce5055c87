// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package config

import "testing"

func TestMountMaskHasAndSet(t *testing.T) {
	var m MountMask
	if m.Has(MountDev) {
		t.Fatal("empty mask should not have MountDev")
	}
	m = m.Set(MountDev)
	if !m.Has(MountDev) {
		t.Fatal("mask should have MountDev after Set")
	}
	if m.Has(MountProc) {
		t.Fatal("mask should not have MountProc")
	}
}

func TestMountAllHasEveryBit(t *testing.T) {
	for _, bit := range []MountBit{MountDev, MountProc, MountSys, MountHome} {
		if !MountAll.Has(bit) {
			t.Fatalf("MountAll missing bit %d", bit)
		}
	}
}

func TestParseMountBit(t *testing.T) {
	cases := map[string]MountBit{
		"dev":  MountDev,
		"proc": MountProc,
		"sys":  MountSys,
		"home": MountHome,
	}
	for name, want := range cases {
		got, err := ParseMountBit(name)
		if err != nil {
			t.Fatalf("ParseMountBit(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseMountBit(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseMountBit("bogus"); err == nil {
		t.Fatal("expected error for unknown mount kind")
	}
}

func TestDefaultTargetDir(t *testing.T) {
	got := DefaultTargetDir(1000)
	want := "/var/lib/chrootbox/users/1000/targets"
	if got != want {
		t.Errorf("DefaultTargetDir(1000) = %q, want %q", got, want)
	}
}

func TestTargetPathRejectsUnsafeNames(t *testing.T) {
	c := &Context{TargetDir: "/var/lib/chrootbox/users/1000/targets"}
	if _, err := c.TargetPath("../escape"); err == nil {
		t.Fatal("expected rejection of path-traversal target name")
	}
	got, err := c.TargetPath("bullseye")
	if err != nil {
		t.Fatalf("TargetPath: %v", err)
	}
	want := "/var/lib/chrootbox/users/1000/targets/bullseye"
	if got != want {
		t.Errorf("TargetPath = %q, want %q", got, want)
	}
}
