// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/chrootbox/chrootbox/internal/pkg/buildcfg"
	"github.com/chrootbox/chrootbox/internal/pkg/util/user"
)

// checkEntryGate runs the three ordered checks of spec.md 4.1. Gate
// calls it exactly once, before main decides whether this process is a
// normal invocation or the isolate reexec child, and lowers effective
// uid to the returned realUID immediately afterward. A failure here is
// always an invocation error (exit code buildcfg.ExitInvocation), never
// a runtime one: none of these checks touch the filesystem or a
// privileged syscall.
func checkEntryGate() (realUID int, err error) {
	if os.Getenv(buildcfg.WRAPPER_TOKEN_ENV) == "" {
		return 0, fmt.Errorf("%s is not set; chrootbox must be invoked through its wrapper", buildcfg.WRAPPER_TOKEN_ENV)
	}

	realUID = syscall.Getuid()
	if realUID == 0 {
		return 0, fmt.Errorf("chrootbox must not be invoked as root")
	}

	pw, err := user.GetPwUID(uint32(realUID))
	if err != nil {
		return 0, fmt.Errorf("resolve uid %d: %w", realUID, err)
	}
	member, err := user.InGroup(pw.Name, buildcfg.BUILD_GROUP)
	if err != nil {
		return 0, fmt.Errorf("check %s group membership: %w", buildcfg.BUILD_GROUP, err)
	}
	if !member {
		return 0, fmt.Errorf("user %s is not a member of the %s group", pw.Name, buildcfg.BUILD_GROUP)
	}

	return realUID, nil
}
