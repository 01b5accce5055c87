// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrootbox/chrootbox/docs"
	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/box/isolate"
	"github.com/chrootbox/chrootbox/internal/pkg/box/session"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
)

var runIsolate bool

var runIsolateFlag = cmdline.Flag{
	ID:           "runIsolateFlag",
	Value:        &runIsolate,
	DefaultValue: false,
	Name:         "isolate",
	Usage:        "unshare a fresh PID and mount namespace for the command",
	EnvKeys:      []string{"ISOLATE"},
}

func init() {
	addCmdInit(func(m *cmdline.CommandManager) {
		m.RegisterCmd(runCmd)
		m.RegisterFlagForCmd(&runIsolateFlag, runCmd)
	})
}

var runCmd = &cobra.Command{
	Use:     docs.RunUse,
	Short:   docs.RunShort,
	Long:    docs.RunLong,
	Example: docs.RunExample,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runRun,
}

// parseRunArgs splits "run <name> -- <command...>" into the target name
// and command line, given cobra's ArgsLenAtDash() result. Split out from
// runRun so the argument-shape validation is testable without a real
// cobra.Command invocation.
func parseRunArgs(args []string, dash int) (name string, command []string, err error) {
	if dash != 1 || len(args) < 2 {
		return "", nil, fmt.Errorf("usage: %s", docs.RunUse)
	}
	return args[0], args[dash:], nil
}

func runRun(cmd *cobra.Command, args []string) error {
	name, command, err := parseRunArgs(args, cmd.ArgsLenAtDash())
	if err != nil {
		return err
	}

	ctx, err := buildContext(config.Flags{
		CopyIdentityFiles: !noFileCopy,
		IsolateNamespaces: runIsolate,
	})
	if err != nil {
		return err
	}

	targetPath, err := ctx.TargetPath(name)
	if err != nil {
		return err
	}
	if err := prepareTarget(ctx, targetPath); err != nil {
		return err
	}

	params := session.Params{
		SysRoot: targetPath,
		HomeDir: ctx.HomeDir,
		RealUID: ctx.UID,
		Mode:    session.ModeRun,
		Argv:    command,
	}

	if runIsolate {
		status, err := isolate.Run(params, ctx.MountMask)
		if err != nil {
			return asRuntimeErr(err)
		}
		return &exitStatusError{status}
	}

	return asRuntimeErr(session.Enter(params))
}
