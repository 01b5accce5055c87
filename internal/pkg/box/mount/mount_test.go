// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package mount

import "testing"

func TestIsMountedRoot(t *testing.T) {
	mounted, err := IsMounted("/")
	if err != nil {
		t.Fatalf("IsMounted(/): %v", err)
	}
	if !mounted {
		t.Fatalf("expected / to be reported as mounted")
	}
}

func TestIsMountedNonMountpoint(t *testing.T) {
	dir := t.TempDir()
	mounted, err := IsMounted(dir)
	if err != nil {
		t.Fatalf("IsMounted(%s): %v", dir, err)
	}
	if mounted {
		t.Fatalf("expected fresh tempdir %s to not be a mountpoint", dir)
	}
}

func TestUnmountOneRefusesOutsideSysRoot(t *testing.T) {
	sysRoot := t.TempDir()
	err := unmountOne(sysRoot, "/../../etc")
	if err == nil {
		t.Fatalf("expected rejection of a path-traversal unmount target")
	}
}
