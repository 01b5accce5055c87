// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package config builds the per-invocation session context chrootbox's
// subcommands operate on: the invoking user's home directory, the target
// root, and the mount/isolation flags derived from CLI options. A Context
// is constructed once per process and never mutated from more than one
// goroutine.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/chrootbox/chrootbox/internal/pkg/buildcfg"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
	"github.com/chrootbox/chrootbox/internal/pkg/util/user"
)

// MountBit is a single-bit value of a MountMask.
type MountBit uint

const (
	MountDev MountBit = 1 << iota
	MountProc
	MountSys
	MountHome
)

// MountMask is a bitset over {Dev, Proc, Sys, Home}.
type MountMask uint

// MountAll is the default mask: every special mount chrootbox knows how
// to set up.
const MountAll MountMask = MountDev | MountProc | MountSys | MountHome

// Has reports whether bit is set in m.
func (m MountMask) Has(bit MountBit) bool {
	return m&MountMask(bit) != 0
}

// Set returns m with bit set.
func (m MountMask) Set(bit MountBit) MountMask {
	return m | MountMask(bit)
}

// ParseMountBit maps a CLI token (dev|proc|sys|home) to its MountBit.
func ParseMountBit(name string) (MountBit, error) {
	switch name {
	case "dev":
		return MountDev, nil
	case "proc":
		return MountProc, nil
	case "sys":
		return MountSys, nil
	case "home":
		return MountHome, nil
	default:
		return 0, fmt.Errorf("unknown mount kind %q", name)
	}
}

// Flags are the boolean session options not covered by MountMask.
type Flags struct {
	CopyIdentityFiles bool
	IsolateNamespaces bool
}

// Context is the read-only configuration driving a single chrootbox
// invocation. It is built once, in NewContext, and never shared across
// goroutines.
type Context struct {
	HomeDir   string
	TargetDir string
	UID       int
	MountMask MountMask
	Flags     Flags
}

// Options carries the dispatch-layer-supplied overrides that NewContext
// folds on top of the password-database defaults.
type Options struct {
	TargetDirOverride string
	MountMask         MountMask
	Flags             Flags
}

// NewContext resolves the real uid's password-database entry, normalizes
// and ownership-checks its home directory, and computes the target root.
// HomeDir is deliberately never read from $HOME: spec.md 3 requires the
// password database be the sole source, since $HOME is caller-controlled.
func NewContext(realUID int, opts Options) (*Context, error) {
	pw, err := user.GetPwUID(uint32(realUID))
	if err != nil {
		return nil, fmt.Errorf("config: resolve uid %d: %w", realUID, err)
	}

	home, err := fs.Realpath(pw.Dir)
	if err != nil {
		return nil, fmt.Errorf("config: normalize home %s: %w", pw.Dir, err)
	}
	owned, err := fs.IsDirOwnedBy(home, realUID)
	if err != nil {
		return nil, fmt.Errorf("config: check home ownership: %w", err)
	}
	if !owned {
		return nil, fmt.Errorf("config: home %s is not a directory owned by uid %d", home, realUID)
	}

	targetDir := opts.TargetDirOverride
	if targetDir == "" {
		targetDir = DefaultTargetDir(realUID)
	}
	targetDir, err = fs.Realpath(targetDir)
	if err != nil {
		return nil, fmt.Errorf("config: normalize target dir: %w", err)
	}

	return &Context{
		HomeDir:   home,
		TargetDir: targetDir,
		UID:       realUID,
		MountMask: opts.MountMask,
		Flags:     opts.Flags,
	}, nil
}

// DefaultTargetDir is the per-user target root template from spec.md 3:
// LOCALSTATEDIR/users/<uid>/targets.
func DefaultTargetDir(uid int) string {
	return filepath.Join(buildcfg.LOCALSTATEDIR, "users", fmt.Sprint(uid), "targets")
}

// TargetPath joins name onto c.TargetDir after validating it as a safe
// identifier. Callers must still IsDirOwnedBy-check the result
// immediately before any privileged operation.
func (c *Context) TargetPath(name string) (string, error) {
	if !fs.IsNameSafe(name) {
		return "", fmt.Errorf("config: %q is not a safe target name", name)
	}
	return fs.JoinClean(c.TargetDir, name), nil
}
