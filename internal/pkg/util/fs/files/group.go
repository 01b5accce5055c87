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
)

// RewriteGroup enumerates every entry of the host's srcPath (normally
// /etc/group) and atomically rewrites dstPath (the target's
// <sys_root>/etc/group) with the same entries in name:passwd:gid:members
// form, reproducing the source mode. Malformed lines are skipped, the
// same as RewritePasswd.
func RewriteGroup(srcPath, dstPath string) error {
	lines, err := readGroupLines(srcPath)
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

func readGroupLines(srcPath string) ([]string, error) {
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
		fields := strings.Split(line, ":")
		if len(fields) != 4 {
			continue
		}
		name, gid, members := fields[0], fields[2], fields[3]
		out = append(out, fmt.Sprintf("%s:x:%s:%s", name, gid, members))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", srcPath, err)
	}
	return out, nil
}
