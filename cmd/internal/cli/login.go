// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/chrootbox/chrootbox/docs"
	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/box/session"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
)

func init() {
	addCmdInit(func(m *cmdline.CommandManager) {
		m.RegisterCmd(loginCmd)
	})
}

var loginCmd = &cobra.Command{
	Use:     docs.LoginUse,
	Short:   docs.LoginShort,
	Long:    docs.LoginLong,
	Example: docs.LoginExample,
	Args:    cobra.ExactArgs(1),
	RunE:    runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, err := buildContext(config.Flags{CopyIdentityFiles: !noFileCopy})
	if err != nil {
		return err
	}

	targetPath, err := targetPathArg(ctx, args)
	if err != nil {
		return err
	}

	if err := prepareTarget(ctx, targetPath); err != nil {
		return err
	}

	return asRuntimeErr(session.Enter(session.Params{
		SysRoot: targetPath,
		HomeDir: ctx.HomeDir,
		RealUID: ctx.UID,
		Mode:    session.ModeLogin,
	}))
}
