// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/chrootbox/chrootbox/docs"
	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
)

func init() {
	addCmdInit(func(m *cmdline.CommandManager) {
		m.RegisterCmd(mountCmd)
	})
}

var mountCmd = &cobra.Command{
	Use:     docs.MountUse,
	Short:   docs.MountShort,
	Long:    docs.MountLong,
	Example: docs.MountExample,
	Args:    cobra.ExactArgs(1),
	RunE:    runMount,
}

func runMount(cmd *cobra.Command, args []string) error {
	ctx, err := buildContext(config.Flags{CopyIdentityFiles: !noFileCopy})
	if err != nil {
		return err
	}

	targetPath, err := targetPathArg(ctx, args)
	if err != nil {
		return err
	}

	return prepareTarget(ctx, targetPath)
}
