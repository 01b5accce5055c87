// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package files

import (
	"path/filepath"

	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
)

const (
	hostPasswd     = "/etc/passwd"
	hostGroup      = "/etc/group"
	hostResolvConf = "/etc/resolv.conf"
	hostHosts      = "/etc/hosts"
)

// WritePasswd atomically rewrites destDir/etc/passwd from the host's
// /etc/passwd.
func WritePasswd(destDir string) error {
	return RewritePasswd(hostPasswd, filepath.Join(destDir, "etc", "passwd"))
}

// WriteGroup atomically rewrites destDir/etc/group from the host's
// /etc/group.
func WriteGroup(destDir string) error {
	return RewriteGroup(hostGroup, filepath.Join(destDir, "etc", "group"))
}

// PropagateIdentity runs WritePasswd, WriteGroup, and atomic copies of
// resolv.conf and hosts into destDir, in the order spec'd for
// session setup. A source file that does not exist on the host is
// skipped rather than treated as an error.
func PropagateIdentity(destDir string) error {
	if fs.IsFile(hostPasswd) {
		if err := WritePasswd(destDir); err != nil {
			return err
		}
	}
	if fs.IsFile(hostGroup) {
		if err := WriteGroup(destDir); err != nil {
			return err
		}
	}
	if fs.IsFile(hostResolvConf) {
		if err := CopyAtomic(hostResolvConf, filepath.Join(destDir, "etc", "resolv.conf")); err != nil {
			return err
		}
	}
	if fs.IsFile(hostHosts) {
		if err := CopyAtomic(hostHosts, filepath.Join(destDir, "etc", "hosts")); err != nil {
			return err
		}
	}
	return nil
}
