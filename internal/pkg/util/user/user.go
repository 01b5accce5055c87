// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package user resolves passwd/group database entries. It is a thin
// wrapper over the standard library's os/user: unlike the teacher, which
// shells out to cgo getpwnam_r/getgrnam_r bindings to support running
// inside minimal containers without nsswitch, chrootbox only ever needs
// to read the *host's* /etc/passwd and /etc/group, which os/user's pure-Go
// fallback parser already covers without cgo.
package user

import (
	"fmt"
	"os/user"
	"strconv"
)

// User mirrors the subset of passwd(5) fields identity propagation and
// the privilege gate need.
type User struct {
	Name  string
	UID   uint32
	GID   uint32
	Dir   string
	Shell string
	Gecos string
}

// Group mirrors the subset of group(5) fields identity propagation needs.
type Group struct {
	Name string
	GID  uint32
}

// GetPwUID looks up a passwd entry by uid.
func GetPwUID(uid uint32) (*User, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return nil, fmt.Errorf("user: uid %d: %w", uid, err)
	}
	return fromOSUser(u)
}

// GetPwNam looks up a passwd entry by login name.
func GetPwNam(name string) (*User, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("user: name %q: %w", name, err)
	}
	return fromOSUser(u)
}

// GetGrGID looks up a group entry by gid.
func GetGrGID(gid uint32) (*Group, error) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return nil, fmt.Errorf("user: gid %d: %w", gid, err)
	}
	return fromOSGroup(g)
}

// GetGrNam looks up a group entry by name.
func GetGrNam(name string) (*Group, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return nil, fmt.Errorf("group: name %q: %w", name, err)
	}
	return fromOSGroup(g)
}

// Current returns the passwd entry for the real uid of the calling
// process, regardless of effective uid. Privileged callers in a raised
// window still want the invoking user's identity here, not root's.
func Current() (*User, error) {
	return GetPwUID(uint32(realUID()))
}

// GroupIDs returns the ids of every group name belongs to, primary and
// supplementary.
func GroupIDs(name string) ([]uint32, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("user: name %q: %w", name, err)
	}
	ids, err := u.GroupIds()
	if err != nil {
		return nil, fmt.Errorf("user: group ids for %q: %w", name, err)
	}
	out := make([]uint32, 0, len(ids))
	for _, s := range ids {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, uint32(n))
	}
	return out, nil
}

// InGroup reports whether name is a member of group, either as primary
// or supplementary group. Used by the privilege gate to enforce the
// build-group membership check (spec.md 4.1).
func InGroup(name, group string) (bool, error) {
	g, err := GetGrNam(group)
	if err != nil {
		return false, err
	}
	u, err := user.Lookup(name)
	if err != nil {
		return false, fmt.Errorf("user: name %q: %w", name, err)
	}
	if u.Gid == strconv.FormatUint(uint64(g.GID), 10) {
		return true, nil
	}
	ids, err := GroupIDs(name)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == g.GID {
			return true, nil
		}
	}
	return false, nil
}

func fromOSUser(u *user.User) (*User, error) {
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("user: malformed uid %q: %w", u.Uid, err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("user: malformed gid %q: %w", u.Gid, err)
	}
	return &User{
		Name:  u.Username,
		UID:   uint32(uid),
		GID:   uint32(gid),
		Dir:   u.HomeDir,
		Gecos: u.Name,
		Shell: loginShell(u.Username),
	}, nil
}

func fromOSGroup(g *user.Group) (*Group, error) {
	gid, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("group: malformed gid %q: %w", g.Gid, err)
	}
	return &Group{Name: g.Name, GID: uint32(gid)}, nil
}
