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
	"github.com/chrootbox/chrootbox/internal/pkg/box/mount"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
)

func init() {
	addCmdInit(func(m *cmdline.CommandManager) {
		m.RegisterCmd(umountCmd)
	})
}

var umountCmd = &cobra.Command{
	Use:     docs.UmountUse,
	Short:   docs.UmountShort,
	Long:    docs.UmountLong,
	Example: docs.UmountExample,
	Args:    cobra.ExactArgs(1),
	RunE:    runUmount,
}

func runUmount(cmd *cobra.Command, args []string) error {
	var keep config.MountMask
	for _, tok := range mountTokens {
		bit, err := config.ParseMountBit(tok)
		if err != nil {
			return err
		}
		keep = keep.Set(bit)
	}

	ctx, err := config.NewContext(gateUID, config.Options{TargetDirOverride: targetsOverride})
	if err != nil {
		return err
	}

	targetPath, err := targetPathArg(ctx, args)
	if err != nil {
		return err
	}

	owned, err := fs.IsDirOwnedBy(targetPath, ctx.UID)
	if err != nil {
		return asRuntimeErr(err)
	}
	if !owned {
		return asRuntimeErr(fmt.Errorf("%s is not a directory owned by uid %d", targetPath, ctx.UID))
	}

	return asRuntimeErr(mount.UnmountAny(targetPath, ctx.HomeDir, keep))
}
