// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package cli wires chrootbox's cobra command tree to the internal
// box/* packages, following the teacher's cmdInits/addCmdInit
// registration idiom: every subcommand file registers itself and its
// flags from an init() function, and Init assembles them all against a
// single CommandManager.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/chrootbox/chrootbox/docs"
	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/box/mount"
	"github.com/chrootbox/chrootbox/internal/pkg/buildcfg"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs"
	"github.com/chrootbox/chrootbox/internal/pkg/util/fs/files"
	"github.com/chrootbox/chrootbox/internal/pkg/util/priv"
	"github.com/chrootbox/chrootbox/pkg/cmdline"
	"github.com/chrootbox/chrootbox/pkg/sylog"
)

var cmdInits = make([]func(*cmdline.CommandManager), 0)

func addCmdInit(f func(*cmdline.CommandManager)) {
	cmdInits = append(cmdInits, f)
}

// Global persistent flags, shared by every subcommand that builds a
// config.Context.
var (
	targetsOverride string
	mountTokens     []string
	noMount         bool
	noFileCopy      bool

	targetsFlag = cmdline.Flag{
		ID:           "targetsFlag",
		Value:        &targetsOverride,
		DefaultValue: "",
		Name:         "targets",
		ShortHand:    "t",
		Usage:        "override the per-user target directory root",
		EnvKeys:      []string{"TARGETS"},
	}
	mountFlag = cmdline.Flag{
		ID:           "mountFlag",
		Value:        &mountTokens,
		DefaultValue: []string{},
		Name:         "mount",
		ShortHand:    "m",
		Usage:        "mount kind to include (dev|proc|sys|home), repeatable",
		EnvKeys:      []string{"MOUNT"},
	}
	noMountFlag = cmdline.Flag{
		ID:           "noMountFlag",
		Value:        &noMount,
		DefaultValue: false,
		Name:         "no-mount",
		Usage:        "skip all bind/special mount setup",
		EnvKeys:      []string{"NO_MOUNT"},
	}
	noFileCopyFlag = cmdline.Flag{
		ID:           "noFileCopyFlag",
		Value:        &noFileCopy,
		DefaultValue: false,
		Name:         "no-file-copy",
		Usage:        "skip propagating passwd/group/resolv.conf/hosts into the target",
		EnvKeys:      []string{"NO_FILE_COPY"},
	}
)

// chrootboxCmd is the base command when called without any subcommands.
var chrootboxCmd = &cobra.Command{
	Use:           docs.ChrootboxUse,
	Short:         docs.ChrootboxShort,
	Long:          docs.ChrootboxLong,
	Example:       docs.ChrootboxExample,
	Version:       buildcfg.PACKAGE_VERSION,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// RootCmd returns the root chrootbox cobra command.
func RootCmd() *cobra.Command {
	return chrootboxCmd
}

// gateUID is the real uid resolved by Gate, which main calls before
// cobra is ever given control of argv; Execute stores it here. Every subcommand that builds a
// config.Context reads it through buildContext rather than re-running
// the gate itself: spec.md §4.1 runs the three ordered checks exactly
// once, at process entry, and nowhere else.
var gateUID int

// Init registers every subcommand and flag against the root command.
func Init() {
	cmdManager := cmdline.NewCommandManager(chrootboxCmd)

	cmdManager.RegisterFlagForCmd(&targetsFlag, chrootboxCmd)
	cmdManager.RegisterFlagForCmd(&mountFlag, chrootboxCmd)
	cmdManager.RegisterFlagForCmd(&noMountFlag, chrootboxCmd)
	cmdManager.RegisterFlagForCmd(&noFileCopyFlag, chrootboxCmd)

	chrootboxCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmdManager.UpdateCmdFlagFromEnv(chrootboxCmd, "CHROOTBOX"); err != nil {
			return err
		}
		return cmdManager.UpdateCmdFlagFromEnv(cmd, "CHROOTBOX")
	}

	for _, cmdInit := range cmdInits {
		cmdInit(cmdManager)
	}

	if errs := cmdManager.GetError(); len(errs) > 0 {
		for _, e := range errs {
			sylog.Errorf("%s", e)
		}
		sylog.Fatalf("command manager reported %d registration error(s)", len(errs))
	}
}

// Gate runs the three ordered checks of spec.md §4.1 and, on success,
// lowers effective uid to the real uid it resolved. main calls this
// exactly once, before it decides whether the process is a normal
// invocation or the isolate reexec child: both reach privileged code
// eventually (the child through isolate.RunChild, everything else
// through Execute), so both must clear the gate before main hands
// either one control. Neither cobra's flag parsing nor the isolate
// child's environment-variable decoding may run first — an attacker
// chooses both the argv and the environment chrootbox starts with.
func Gate() (realUID int, err error) {
	realUID, err = checkEntryGate()
	if err != nil {
		return 0, err
	}
	if err := priv.Lower(); err != nil {
		return 0, fmt.Errorf("lower privileges: %w", err)
	}
	return realUID, nil
}

// Execute runs the command tree against the real uid Gate already
// resolved. Called by main.main once it has established this process
// is not the isolate reexec child.
func Execute(realUID int) {
	gateUID = realUID

	Init()

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer func() {
		signal.Stop(sigCh)
		cancel()
	}()
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := chrootboxCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var exitErr *exitStatusError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.status)
	}

	sylog.Errorf("%s", err)

	var rtErr *runtimeErr
	if errors.As(err, &rtErr) {
		os.Exit(buildcfg.ExitRuntime)
	}
	os.Exit(buildcfg.ExitInvocation)
}

// exitStatusError carries the exit status of an isolated child process
// (run --isolate) back through cobra's RunE without chrootbox logging
// it as an invocation error: the child's own output already explains
// whatever made it exit non-zero.
type exitStatusError struct {
	status int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("child exited with status %d", e.status)
}

// runtimeErr marks err as spec.md §7's "runtime error" category: a
// mount, chroot, exec, or identity-propagation failure encountered after
// every invocation-level check (entry gate, argument shape, unknown
// target) has already passed. Execute branches on this to exit with
// buildcfg.ExitRuntime instead of the default buildcfg.ExitInvocation.
type runtimeErr struct {
	err error
}

func (e *runtimeErr) Error() string { return e.err.Error() }
func (e *runtimeErr) Unwrap() error { return e.err }

// asRuntimeErr wraps a non-nil err as a runtimeErr; asRuntimeErr(nil) is
// nil, so call sites can wrap a bare "if err != nil { return ... }"
// return value without an extra nil check.
func asRuntimeErr(err error) error {
	if err == nil {
		return nil
	}
	return &runtimeErr{err: err}
}

// buildMountMask resolves the -m/--mount tokens (and --no-mount) into a
// config.MountMask. No tokens given and --no-mount absent defaults to
// every mount kind, matching spec.md's "mount everything by default"
// behavior. The umount subcommand does not use it: umount's -m/--mount
// selects what to keep, and runUmount builds that keep mask itself with
// no implicit default.
func buildMountMask() (config.MountMask, error) {
	if noMount {
		return 0, nil
	}
	if len(mountTokens) == 0 {
		return config.MountAll, nil
	}
	var mask config.MountMask
	for _, tok := range mountTokens {
		bit, err := config.ParseMountBit(tok)
		if err != nil {
			return 0, err
		}
		mask = mask.Set(bit)
	}
	return mask, nil
}

// buildContext constructs a config.Context from the gate-resolved real
// uid and the global flags. Every subcommand that touches the
// filesystem or a privileged syscall calls this first; none of them
// re-run the entry gate, which main already ran exactly once via Gate.
func buildContext(flags config.Flags) (*config.Context, error) {
	mask, err := buildMountMask()
	if err != nil {
		return nil, err
	}

	return config.NewContext(gateUID, config.Options{
		TargetDirOverride: targetsOverride,
		MountMask:         mask,
		Flags:             flags,
	})
}

// prepareTarget re-verifies targetPath is owned by ctx.UID, then
// performs mount setup and identity propagation as configured. It is
// shared by every subcommand that enters or merely prepares a target
// (login, run, mount). Every failure here falls under spec.md §7's
// runtime-error category (a mount/identity-propagation syscall failed,
// or the non-owner rejection spec.md §8's scenario 4 requires), so each
// is wrapped with asRuntimeErr before returning.
func prepareTarget(ctx *config.Context, targetPath string) error {
	owned, err := fs.IsDirOwnedBy(targetPath, ctx.UID)
	if err != nil {
		return asRuntimeErr(err)
	}
	if !owned {
		return asRuntimeErr(fmt.Errorf("%s is not a directory owned by uid %d", targetPath, ctx.UID))
	}

	if err := mount.MountAny(ctx.UID, targetPath, ctx.HomeDir, ctx.MountMask); err != nil {
		return asRuntimeErr(err)
	}

	if ctx.Flags.CopyIdentityFiles {
		if err := files.PropagateIdentity(targetPath); err != nil {
			return asRuntimeErr(err)
		}
	}

	return nil
}

// targetPathArg validates args[0] as a target name and joins it onto
// c.TargetDir, returning an invocation error for a malformed name
// rather than letting it reach a privileged path operation.
func targetPathArg(c *config.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one target name, got %d", len(args))
	}
	return c.TargetPath(args[0])
}
