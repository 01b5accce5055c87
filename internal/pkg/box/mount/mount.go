// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package mount implements the bind/special-filesystem mount engine: a
// /proc/mounts-backed idempotence check, and the raise/lower-scoped bind,
// proc, sysfs, and home mount operations that assemble a chroot target.
// The kernel mount table is the only authoritative record of mount
// state — nothing here is persisted.
package mount

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/util/capture"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
	"github.com/chrootbox/chrootbox/internal/pkg/util/priv"
	"github.com/chrootbox/chrootbox/pkg/sylog"
)

// initialScannerBuffer and maxScannerBuffer size the /proc/mounts line
// scanner. A bind-mounted source path can legitimately be longer than
// bufio.Scanner's 64KiB default token limit, so the buffer is grown
// rather than left to error out on a long line.
const (
	initialScannerBuffer = 64 * 1024
	maxScannerBuffer     = 4 * 1024 * 1024
)

// IsMounted reports whether normalized path already appears as a
// mountpoint in /proc/mounts.
func IsMounted(path string) (bool, error) {
	real, err := fs.Realpath(path)
	if err != nil {
		return false, err
	}

	f, err := os.Open("/proc/mounts")
	if err != nil {
		return false, fmt.Errorf("mount: open /proc/mounts: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, initialScannerBuffer), maxScannerBuffer)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[1] == real {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("mount: scan /proc/mounts: %w", err)
	}
	return false, nil
}

// bindMount composes sys_root+p, and if not already mounted, ownership
// checks it and performs the raise-scoped MS_BIND (optionally MS_REC)
// mount followed by an MS_PRIVATE propagation-detach call whose failure
// is downgraded to a warning rather than an error.
func bindMount(realUID int, source, sysRoot, p string, recursive bool) error {
	target := fs.JoinClean(sysRoot, p)

	mounted, err := IsMounted(target)
	if err != nil {
		return err
	}
	if mounted {
		return nil
	}

	owned, err := fs.IsDirOwnedBy(target, realUID)
	if err != nil {
		return fmt.Errorf("mount: bind %s: %w", target, err)
	}
	if !owned {
		return fmt.Errorf("mount: bind target %s is not owned by uid %d", target, realUID)
	}

	flags := uintptr(unix.MS_BIND)
	if recursive {
		flags |= unix.MS_REC
	}

	g, err := priv.RaiseGuard()
	if err != nil {
		return fmt.Errorf("mount: bind %s: %w", target, err)
	}
	defer g.Release()

	if err := unix.Mount(source, target, "", flags, ""); err != nil {
		return fmt.Errorf("mount: bind %s -> %s: %w", source, target, err)
	}
	if err := unix.Mount("", target, "", unix.MS_PRIVATE, ""); err != nil {
		sylog.Warningf("mount: could not detach propagation on %s: %v", target, err)
	}
	return nil
}

// specialMount mounts a pseudo filesystem (proc, sysfs) at sys_root+p.
func specialMount(realUID int, fstype, sysRoot, p string) error {
	target := fs.JoinClean(sysRoot, p)

	mounted, err := IsMounted(target)
	if err != nil {
		return err
	}
	if mounted {
		return nil
	}

	owned, err := fs.IsDirOwnedBy(target, realUID)
	if err != nil {
		return fmt.Errorf("mount: %s: %w", target, err)
	}
	if !owned {
		return fmt.Errorf("mount: %s target %s is not owned by uid %d", fstype, target, realUID)
	}

	g, err := priv.RaiseGuard()
	if err != nil {
		return fmt.Errorf("mount: %s %s: %w", fstype, target, err)
	}
	defer g.Release()

	if err := unix.Mount("", target, fstype, 0, ""); err != nil {
		return fmt.Errorf("mount: %s at %s: %w", fstype, target, err)
	}
	if err := unix.Mount("", target, "", unix.MS_PRIVATE, ""); err != nil {
		sylog.Warningf("mount: could not detach propagation on %s: %v", target, err)
	}
	return nil
}

// MountAny re-verifies sysRoot ownership and mounts every component set
// in mask. A failure aborts immediately; any mounts already performed
// are left in place for UnmountAny to clean up later.
func MountAny(realUID int, sysRoot, homeDir string, mask config.MountMask) error {
	owned, err := fs.IsDirOwnedBy(sysRoot, realUID)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	if !owned {
		return fmt.Errorf("mount: %s is not owned by uid %d", sysRoot, realUID)
	}

	if mask.Has(config.MountDev) {
		if err := bindMount(realUID, "/dev", sysRoot, "/dev", true); err != nil {
			return err
		}
	}
	if mask.Has(config.MountProc) {
		if err := specialMount(realUID, "proc", sysRoot, "/proc"); err != nil {
			return err
		}
	}
	if mask.Has(config.MountSys) {
		if err := specialMount(realUID, "sysfs", sysRoot, "/sys"); err != nil {
			return err
		}
	}
	if mask.Has(config.MountHome) && homeDir != "" {
		target := fs.JoinClean(sysRoot, homeDir)
		// Created without raising, so the new directories belong to
		// realUID as bindMount's ownership check requires.
		out, status, err := capture.Capture(false, "mkdir", "-p", "--", target)
		if err != nil {
			return fmt.Errorf("mount: create home target %s: %w", target, err)
		}
		if status != 0 {
			return fmt.Errorf("mount: create home target %s: mkdir -p exited %d: %s", target, status, out)
		}
		if err := bindMount(realUID, homeDir, sysRoot, homeDir, true); err != nil {
			return err
		}
	}
	return nil
}

// unmountOne refuses to act outside sysRoot, then raise-scoped unmounts
// target if it is currently mounted. Both checks and the idempotence
// probe happen fresh on every call: nothing here is cached.
func unmountOne(sysRoot, p string) error {
	target := fs.JoinClean(sysRoot, p)

	sub, err := fs.IsSubdirOf(sysRoot, target)
	if err != nil {
		return err
	}
	if !sub {
		return fmt.Errorf("mount: refusing to unmount %s: not under %s", target, sysRoot)
	}

	mounted, err := IsMounted(target)
	if err != nil {
		return err
	}
	if !mounted {
		return nil
	}

	g, err := priv.RaiseGuard()
	if err != nil {
		return fmt.Errorf("mount: unmount %s: %w", target, err)
	}
	defer g.Release()

	if err := unix.Unmount(target, 0); err != nil {
		return fmt.Errorf("mount: unmount %s: %w", target, err)
	}
	return nil
}

// UnmountAny unmounts every mount path whose bit is NOT set in keep: the
// umount subcommand inverts mask semantics, tearing down everything the
// caller did not ask to keep.
func UnmountAny(sysRoot, homeDir string, keep config.MountMask) error {
	type entry struct {
		bit  config.MountBit
		path string
	}
	entries := []entry{
		{config.MountDev, "/dev"},
		{config.MountProc, "/proc"},
		{config.MountSys, "/sys"},
	}
	if homeDir != "" {
		entries = append(entries, entry{config.MountHome, homeDir})
	}

	var firstErr error
	for _, e := range entries {
		if keep.Has(e.bit) {
			continue
		}
		if err := unmountOne(sysRoot, e.path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
