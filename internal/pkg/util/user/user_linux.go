// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package user

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

func realUID() int {
	return syscall.Getuid()
}

// loginShell reads /etc/passwd directly for the login shell field, since
// os/user.User does not surface it. Falls back to /bin/sh if the entry
// cannot be found or parsed: a missing shell must never block identity
// propagation, only degrade it.
func loginShell(name string) string {
	f, err := os.Open("/etc/passwd")
	if err != nil {
		return "/bin/sh"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 7 || fields[0] != name {
			continue
		}
		return fields[6]
	}
	return "/bin/sh"
}
