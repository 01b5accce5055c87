// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package files implements the identity-propagation writers: atomic
// rewrites of a chroot target's /etc/passwd and /etc/group from the host's
// /etc/passwd and /etc/group files, and atomic copies of /etc/resolv.conf
// and /etc/hosts. Entries that exist only in other name-service sources
// (LDAP, SSSD and the like) are not included.
// Every writer here follows the same shape: build the new content fully
// in memory or in a sibling temp file, then rename it into place, so a
// concurrent reader of the destination never observes a partial write
// (spec.md 8, "Identity file atomicity").
package files

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic creates a temp file in dir (the same directory as the
// eventual destination, so the final rename is same-filesystem and
// therefore atomic), writes data, applies mode, and renames it over dst.
func writeAtomic(dst string, data []byte, mode os.FileMode) (err error) {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, dst, err)
	}
	return nil
}

// sourceMode returns the mode of path, or a sane default if path does
// not exist or cannot be stat'd.
func sourceMode(path string, fallback os.FileMode) os.FileMode {
	fi, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return fi.Mode().Perm()
}
