// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Command chrootbox is the setuid-root chroot helper's entry point. It
// must do as little as possible before cli.Gate runs: that call is the
// only thing standing between an attacker-controlled environment and
// privileged code, and it must run identically whether this process
// turns out to be a normal invocation or the isolate reexec child —
// the child is reached by setting CHROOTBOX_ISOLATE_CHILD in the
// environment, which is exactly as attacker-controlled as argv is, so
// it cannot be trusted ahead of the gate any more than cobra's flag
// parsing can.
package main

import (
	"os"

	"github.com/chrootbox/chrootbox/cmd/internal/cli"
	"github.com/chrootbox/chrootbox/internal/pkg/box/isolate"
	"github.com/chrootbox/chrootbox/internal/pkg/buildcfg"
	"github.com/chrootbox/chrootbox/pkg/sylog"
)

func main() {
	realUID, err := cli.Gate()
	if err != nil {
		sylog.Errorf("%s", err)
		os.Exit(buildcfg.ExitInvocation)
	}

	if os.Getenv(isolate.ChildMarkerEnv) == "1" {
		p, mask, err := isolate.ChildParamsFromEnv()
		if err != nil {
			sylog.Fatalf("isolate: %s", err)
		}
		isolate.RunChild(p, mask)
		os.Exit(buildcfg.ExitRuntime)
	}

	cli.Execute(realUID)
}
