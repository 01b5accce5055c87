// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chrootbox/chrootbox/docs"
	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/box/mount"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
)

func init() {
	addCmdInit(func(m *cmdline.CommandManager) {
		m.RegisterCmd(listCmd)
	})
}

var listCmd = &cobra.Command{
	Use:     docs.ListUse,
	Short:   docs.ListShort,
	Long:    docs.ListLong,
	Example: docs.ListExample,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

// mountLabels pairs each mount bit with the token list.go prints it as,
// in the fixed order "dev proc sys home" that matches the order
// MountAny sets them up in.
var mountLabels = []struct {
	bit   config.MountBit
	label string
}{
	{config.MountDev, "dev"},
	{config.MountProc, "proc"},
	{config.MountSys, "sys"},
	{config.MountHome, "home"},
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, err := config.NewContext(gateUID, config.Options{TargetDirOverride: targetsOverride})
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(ctx.TargetDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list: read %s: %w", ctx.TargetDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		targetPath := fs.JoinClean(ctx.TargetDir, name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, activeMounts(targetPath, ctx.HomeDir))
	}
	return nil
}

func activeMounts(targetPath, homeDir string) string {
	var active []string
	for _, m := range mountLabels {
		p := "/" + m.label
		if m.bit == config.MountHome {
			p = homeDir
		}
		mounted, err := mount.IsMounted(fs.JoinClean(targetPath, p))
		if err == nil && mounted {
			active = append(active, m.label)
		}
	}
	if len(active) == 0 {
		return "-"
	}
	out := active[0]
	for _, a := range active[1:] {
		out += "," + a
	}
	return out
}
