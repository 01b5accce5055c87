// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindInterpreterFirstExistingWins(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope")
	present := filepath.Join(dir, "sh")
	if err := os.WriteFile(present, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	saved := interpreters
	interpreters = []string{missing, present}
	defer func() { interpreters = saved }()

	got, err := findInterpreter()
	if err != nil {
		t.Fatalf("findInterpreter: %v", err)
	}
	if got != present {
		t.Errorf("findInterpreter = %q, want %q", got, present)
	}
}

func TestFindInterpreterNoneFound(t *testing.T) {
	saved := interpreters
	interpreters = []string{"/no/such/path/sh"}
	defer func() { interpreters = saved }()

	if _, err := findInterpreter(); err == nil {
		t.Fatal("expected error when no interpreter candidate exists")
	}
}

func TestRepairPkgCacheSymlinkCreatesWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, ".pkg-cache")

	repairPkgCacheSymlinkAt(link)

	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("expected .pkg-cache to be created: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Fatalf(".pkg-cache should be a symlink")
	}
}
