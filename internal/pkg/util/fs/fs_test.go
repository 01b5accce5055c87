// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJoinCleanRoundTrip(t *testing.T) {
	cases := []struct{ a, b string }{
		{"/home/user", "targets/foo"},
		{"/home/user/", "/targets/foo"},
		{"/home/user//", "//targets/foo/"},
		{"/", "etc/passwd"},
	}
	for _, c := range cases {
		got := JoinClean(c.a, c.b)
		want := filepath.Clean(c.a + "/" + c.b)
		if got != want {
			t.Errorf("JoinClean(%q,%q) = %q, want %q", c.a, c.b, got, want)
		}
	}
}

func TestIsNameSafe(t *testing.T) {
	good := []string{"bullseye", "my-target_1", "v1.2.3"}
	for _, n := range good {
		if !IsNameSafe(n) {
			t.Errorf("expected %q to be a safe name", n)
		}
	}

	bad := []string{"", ".", "..", "a/b", "../escape", "has\x00nul", "/abs"}
	for _, n := range bad {
		if IsNameSafe(n) {
			t.Errorf("expected %q to be rejected", n)
		}
	}
}

func TestIsDirOwnedByRejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Fatal(err)
	}

	ok, err := IsDirOwnedBy(link, os.Getuid())
	if err == nil && ok {
		t.Fatalf("expected symlinked target to be rejected")
	}
}

func TestIsSubdirOf(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	ok, err := IsSubdirOf(dir, sub)
	if err != nil || !ok {
		t.Fatalf("expected %q to be a subdir of %q: ok=%v err=%v", sub, dir, ok, err)
	}

	ok, err = IsSubdirOf(sub, dir)
	if err != nil || ok {
		t.Fatalf("did not expect %q to be a subdir of %q", dir, sub)
	}
}
