// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrootbox/chrootbox/docs"
	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/util/capture"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
	"github.com/chrootbox/chrootbox/internal/pkg/util/priv"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
	"github.com/chrootbox/chrootbox/pkg/util/fs/lock"
)

func init() {
	addCmdInit(func(m *cmdline.CommandManager) {
		m.RegisterCmd(initCmd)
	})
}

var initCmd = &cobra.Command{
	Use:     docs.InitUse,
	Short:   docs.InitShort,
	Long:    docs.InitLong,
	Example: docs.InitExample,
	Args:    cobra.ExactArgs(1),
	RunE:    runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx, err := buildContext(config.Flags{})
	if err != nil {
		return err
	}

	if !fs.IsNameSafe(args[0]) {
		return fmt.Errorf("%q is not a safe target name", args[0])
	}

	lockPath, err := ensureTargetRoot(ctx.TargetDir)
	if err != nil {
		return err
	}

	fd, err := lock.Exclusive(lockPath)
	if err != nil {
		return fmt.Errorf("init: lock %s: %w", lockPath, err)
	}
	defer lock.Release(fd)

	targetPath := fs.JoinClean(ctx.TargetDir, args[0])
	return createOwnedTarget(targetPath, ctx.UID)
}

// ensureTargetRoot creates dir (the per-user targets root) if missing,
// via the process launcher's raise-scoped mkdir, and guarantees its
// ".lock" file exists, returning the lock file's path. A newly created
// targets root is owned by root until the caller's own "init" call below
// chowns the specific target it created, which is fine — the root
// directory itself is never a chroot target.
func ensureTargetRoot(dir string) (string, error) {
	if err := capture.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("init: mkdir -p %s: %w", dir, err)
	}

	lockPath := filepath.Join(dir, ".lock")

	g, err := priv.RaiseGuard()
	if err != nil {
		return "", fmt.Errorf("init: raise: %w", err)
	}
	defer g.Release()

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("init: create lock file %s: %w", lockPath, err)
	}
	f.Close()

	return lockPath, nil
}

// createOwnedTarget creates targetPath via the process launcher's
// raise-scoped mkdir if it does not already exist, then chowns it to
// uid under a second, dedicated raised window. It refuses to chown a
// directory that already existed under someone else's ownership: mkdir
// -p silently succeeds on an existing directory, so without this check
// a caller could "init" a name that collides with a directory another
// uid already populated and have it handed over to them by the chown
// below.
func createOwnedTarget(targetPath string, uid int) error {
	if err := capture.MkdirAll(targetPath); err != nil {
		return fmt.Errorf("init: mkdir %s: %w", targetPath, err)
	}

	ownedByCaller, err := fs.IsDirOwnedBy(targetPath, uid)
	if err != nil {
		return fmt.Errorf("init: stat %s: %w", targetPath, err)
	}
	if !ownedByCaller {
		ownedByRoot, err := fs.IsDirOwnedBy(targetPath, 0)
		if err != nil {
			return fmt.Errorf("init: stat %s: %w", targetPath, err)
		}
		if !ownedByRoot {
			return fmt.Errorf("init: %s already exists and is owned by neither uid %d nor root", targetPath, uid)
		}
	}

	g, err := priv.RaiseGuard()
	if err != nil {
		return fmt.Errorf("init: raise: %w", err)
	}
	defer g.Release()

	if err := syscall.Chown(targetPath, uid, -1); err != nil {
		return fmt.Errorf("init: chown %s: %w", targetPath, err)
	}
	return nil
}
