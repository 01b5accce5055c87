// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package fs provides the path-normalization and ownership-containment
// predicates that gate every privileged filesystem operation in
// internal/pkg/box. spec.md 4.3 requires that the immediately preceding
// operation on any path handed to mount/umount/chroot be a realpath
// resolution followed by an ownership check on the resolved form — never
// on the caller-supplied string.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Realpath resolves path to its canonical, symlink-free, ".."-free form.
// It is the single choke point every containment check in this package
// routes through.
func Realpath(path string) (string, error) {
	// SecureJoin resolves "" against "/" component-by-component exactly
	// the way realpath(3) does, which is what we need here: unlike
	// filepath.EvalSymlinks it tolerates a final path component that does
	// not yet exist, which mount targets created moments earlier by a
	// privileged mkdir sometimes are.
	resolved, err := securejoin.SecureJoin("/", path)
	if err != nil {
		return "", fmt.Errorf("realpath %s: %w", path, err)
	}
	return resolved, nil
}

// JoinClean produces a canonical single-separator join of base and sub
// regardless of leading/trailing slashes on either operand, matching the
// round-trip law in spec.md 8: normalize(JoinClean(a,b)) ==
// normalize(a + "/" + b).
func JoinClean(base, sub string) string {
	return filepath.Join(base, sub)
}

// IsDirOwnedBy refuses path if its final component is a symlink, then
// normalizes it via Realpath and verifies the resolved entry is a
// directory (not a symlink, not any other type) owned by uid.
// It must be called again immediately before every privileged operation
// that touches path — never cached from an earlier call (spec.md 3,
// "Target").
func IsDirOwnedBy(path string, uid int) (bool, error) {
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return false, fmt.Errorf("%s is a symlink, refusing", path)
	}
	real, err := Realpath(path)
	if err != nil {
		return false, err
	}
	fi, err := os.Lstat(real)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", real, err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return false, fmt.Errorf("%s is a symlink, refusing", real)
	}
	if !fi.IsDir() {
		return false, fmt.Errorf("%s is not a directory", real)
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return false, fmt.Errorf("%s: could not read owner", real)
	}
	return int(st.Uid) == uid, nil
}

// IsSubdirOf reports whether candidate, once both paths are normalized,
// lies strictly beneath base. Used before every umount to refuse
// unmounting anything outside the target tree (spec.md 4.3).
func IsSubdirOf(base, candidate string) (bool, error) {
	realBase, err := Realpath(base)
	if err != nil {
		return false, err
	}
	realCandidate, err := Realpath(candidate)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(realCandidate, strings.TrimSuffix(realBase, "/")+"/"), nil
}

// IsNameSafe reports whether name is a safe target identifier: no path
// separators, no "..", no NUL, non-empty. Checked at dispatch before a
// name is ever joined onto TargetDir (spec.md 8, boundary behaviors).
func IsNameSafe(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\x00") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
