// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package session implements the chroot-and-exec sequence: the ordered,
// irreversible steps that turn a privileged process into an unprivileged
// shell running inside a target. The ordering in Enter is a hard
// contract — chroot needs privilege, drop must happen before any user
// code runs, and the home-directory chdir only makes sense once already
// inside the chroot.
package session

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/chrootbox/chrootbox/internal/pkg/util/env"
	"github.com/chrootbox/chrootbox/internal/pkg/util/priv"
	"github.com/chrootbox/chrootbox/pkg/sylog"
)

// interpreters is the compile-time ordered list of shell candidates
// probed inside the chroot. The first path that exists wins; chrootbox
// never falls back to a host-side shell once inside the chroot.
var interpreters = []string{
	"/tools/bin/sh",
	"/bin/sh",
	"/usr/bin/sh",
}

// Mode selects whether Enter execs an interactive login shell or a
// single command line.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRun
)

// Params carries everything Enter needs to complete the chroot sequence.
type Params struct {
	SysRoot string
	HomeDir string
	RealUID int
	Mode    Mode
	// Argv is only consulted in ModeRun: the command and its arguments,
	// joined with single spaces and handed to "sh -l -c --".
	Argv []string
}

// Enter runs the 9-step chroot sequence documented in spec.md 4.6 and
// never returns on success: execve replaces the calling process. On
// failure it returns an error; privileges are lowered again if the
// failure occurred before the drop in step 5 succeeded, and are
// permanently dropped if it occurred after.
func Enter(p Params) error {
	if err := os.Chdir(p.SysRoot); err != nil {
		return fmt.Errorf("session: chdir %s: %w", p.SysRoot, err)
	}

	fi, err := os.Lstat(".")
	if err != nil {
		return fmt.Errorf("session: lstat sys_root: %w", err)
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || int(st.Uid) != p.RealUID {
		return fmt.Errorf("session: sys_root ownership changed since normalization, refusing")
	}

	guard, err := priv.RaiseGuard()
	if err != nil {
		return fmt.Errorf("session: raise: %w", err)
	}

	if err := syscall.Chroot("."); err != nil {
		guard.Release()
		return fmt.Errorf("session: chroot: %w", err)
	}

	// Drop is used instead of guard.Release: the chroot session must
	// permanently sever the privileged identity, not merely lower it.
	if err := priv.Drop(); err != nil {
		guard.Release()
		return fmt.Errorf("session: drop: %w", err)
	}

	repairPkgCacheSymlink()

	if p.HomeDir != "" {
		if err := os.Chdir(p.HomeDir); err != nil {
			sylog.Warningf("session: chdir home %s: %v", p.HomeDir, err)
		}
	}

	env.Sanitize()

	shell, err := findInterpreter()
	if err != nil {
		return err
	}

	var argv []string
	switch p.Mode {
	case ModeLogin:
		argv = []string{shell, "-l"}
	case ModeRun:
		argv = []string{shell, "-l", "-c", "--", strings.Join(p.Argv, " ")}
	default:
		return fmt.Errorf("session: unknown mode %d", p.Mode)
	}

	execErr := syscall.Exec(shell, argv, os.Environ())
	return fmt.Errorf("session: exec %s: %w", shell, execErr)
}

// repairPkgCacheSymlink is a best-effort repair of the /.pkg-cache
// symlink inside the chroot. Any failure here is a warning: it must
// never block a chroot session from starting.
func repairPkgCacheSymlink() {
	repairPkgCacheSymlinkAt("/.pkg-cache")
}

// repairPkgCacheSymlinkAt does the actual work against an explicit link
// path, split out from repairPkgCacheSymlink so tests can point it at a
// temp directory instead of chrootbox's hardcoded chroot-relative path.
func repairPkgCacheSymlinkAt(link string) {
	const target = "/var/cache/chrootbox"

	fi, err := os.Lstat(link)
	if os.IsNotExist(err) {
		if err := os.Symlink(target, link); err != nil {
			sylog.Warningf("session: create %s: %v", link, err)
		}
		return
	}
	if err != nil {
		sylog.Warningf("session: stat %s: %v", link, err)
		return
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		return
	}
	resolved, err := os.Readlink(link)
	if err != nil {
		sylog.Warningf("session: readlink %s: %v", link, err)
		return
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		sylog.Warningf("session: mkdir -p %s: %v", resolved, err)
	}
}

func findInterpreter() (string, error) {
	for _, candidate := range interpreters {
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("session: no interpreter found among %v", interpreters)
}
