// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package files

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	pwd "github.com/astromechza/etcpwdparse"
)

// RewritePasswd enumerates every entry of the host's srcPath (normally
// /etc/passwd) and atomically rewrites dstPath (the target's
// <sys_root>/etc/passwd) with the same entries, reproducing the source
// mode on the new file. A line that fails to parse as a passwd(5) entry
// is skipped rather than aborting the whole rewrite: a single malformed
// comment or blank line in the host database must not block a chroot
// session from starting.
func RewritePasswd(srcPath, dstPath string) error {
	lines, err := readPasswdLines(srcPath)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	mode := sourceMode(srcPath, 0o644)
	return writeAtomic(dstPath, []byte(b.String()), mode)
}

func readPasswdLines(srcPath string) ([]string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, err := pwd.ParsePasswdLine(line)
		if err != nil {
			continue
		}
		out = append(out, makePasswdLine(entry.Username(), entry.Uid(), entry.Gid(), entry.Comment(), entry.HomeDir(), entry.Shell()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", srcPath, err)
	}
	return out, nil
}

func makePasswdLine(name string, uid, gid int, gecos, homedir, shell string) string {
	return fmt.Sprintf("%s:x:%d:%d:%s:%s:%s", name, uid, gid, gecos, homedir, shell)
}
