// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package files

import (
	"fmt"
	"os"
)

// CopyAtomic copies srcPath to dstPath byte-for-byte through the same
// temp-in-same-dir-then-rename dance as RewritePasswd/RewriteGroup, with
// the source's mode preserved. Used for /etc/resolv.conf and /etc/hosts,
// which are opaque to chrootbox and copied verbatim rather than parsed.
func CopyAtomic(srcPath, dstPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", srcPath, err)
	}
	mode := sourceMode(srcPath, 0o644)
	return writeAtomic(dstPath, data, mode)
}
