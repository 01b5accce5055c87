// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package user

import (
	"os"
	"testing"
)

func TestGetPwUIDRoot(t *testing.T) {
	u, err := GetPwUID(0)
	if err != nil {
		t.Fatalf("failed to retrieve information for uid 0: %v", err)
	}
	if u.Name != "root" {
		t.Fatalf("uid 0 resolved to %q, want root", u.Name)
	}
}

func TestGetPwNamRoot(t *testing.T) {
	u, err := GetPwNam("root")
	if err != nil {
		t.Fatalf("failed to retrieve information for root: %v", err)
	}
	if u.UID != 0 {
		t.Fatalf("root resolved to uid %d, want 0", u.UID)
	}
}

func TestGetGrGIDRoot(t *testing.T) {
	g, err := GetGrGID(0)
	if err != nil {
		t.Fatalf("failed to retrieve information for gid 0: %v", err)
	}
	if g.Name != "root" {
		t.Fatalf("gid 0 resolved to %q, want root", g.Name)
	}
}

func TestCurrentMatchesRealUID(t *testing.T) {
	u, err := Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if int(u.UID) != os.Getuid() {
		t.Fatalf("Current returned uid %d, want %d", u.UID, os.Getuid())
	}
}

func TestInGroupOwnPrimaryGroup(t *testing.T) {
	cur, err := Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	grp, err := GetGrGID(cur.GID)
	if err != nil {
		t.Skipf("no group entry for gid %d", cur.GID)
	}
	ok, err := InGroup(cur.Name, grp.Name)
	if err != nil {
		t.Fatalf("InGroup: %v", err)
	}
	if !ok {
		t.Fatalf("expected %q to be a member of its own primary group %q", cur.Name, grp.Name)
	}
}
