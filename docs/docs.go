// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package docs holds the help and man-page text shown by each chrootbox
// subcommand, mirroring the teacher's docs package: one Use/Short/Long/
// Example const group per command, consumed by cmd/internal/cli.
package docs

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// root command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	ChrootboxUse   string = `chrootbox [global options...] <command>`
	ChrootboxShort string = `Enter and manage per-user chroot targets`
	ChrootboxLong  string = `
  chrootbox is a setuid-root helper that lets an unprivileged, but
  authorized, caller chroot(2) into a target directory tree it owns,
  with optional bind mounts of /dev, /proc, /sys, and its own home
  directory, and optional PID/mount namespace isolation.

  chrootbox never trusts the calling environment for identity: the
  invoking user's home directory always comes from the password
  database, never from $HOME, and every target path is re-verified as
  owned by the real uid immediately before the privileged operation
  that touches it.`
	ChrootboxExample string = `
  $ chrootbox init bullseye
  $ chrootbox login bullseye
  $ chrootbox run bullseye -- apt-get update
  $ chrootbox list
  $ chrootbox umount bullseye`
)

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// init command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	InitUse   string = `init <name>`
	InitShort string = `Create a new target directory owned by the caller`
	InitLong  string = `
  The 'init' command creates <targetdir-root>/<name> if it does not
  already exist and chowns it to the invoking real uid. Concurrent
  'init' invocations for the same target root are serialized with an
  advisory lock so two racing callers cannot corrupt the directory
  creation and ownership fixup sequence.`
	InitExample string = `
  $ chrootbox init bullseye`
)

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// login command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	LoginUse   string = `login <name>`
	LoginShort string = `Chroot into a target and start an interactive login shell`
	LoginLong  string = `
  The 'login' command mounts the configured bind/special filesystems
  (unless disabled), propagates identity files into the target (unless
  disabled), chroots into it, and execs an interactive login shell.
  This call never returns on success.`
	LoginExample string = `
  $ chrootbox login bullseye
  $ chrootbox login -m dev -m proc bullseye`
)

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// run command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	RunUse   string = `run <name> -- <command> [args...]`
	RunShort string = `Chroot into a target and run a single command`
	RunLong  string = `
  The 'run' command behaves like 'login' but execs the given command
  line through "sh -l -c --" instead of an interactive shell. With
  --isolate, the chroot session additionally unshares a fresh PID and
  mount namespace, so the command runs as PID 1 of its own namespace.`
	RunExample string = `
  $ chrootbox run bullseye -- apt-get update
  $ chrootbox run --isolate bullseye -- ps aux`
)

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// mount command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	MountUse   string = `mount <name>`
	MountShort string = `Mount the configured bind/special filesystems into a target`
	MountLong  string = `
  The 'mount' command performs the same mount setup as 'login'/'run'
  without entering the chroot, so a target can be prepared and
  inspected from outside before a session begins.`
	MountExample string = `
  $ chrootbox mount bullseye
  $ chrootbox mount -m dev -m home bullseye`
)

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// umount command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	UmountUse   string = `umount <name>`
	UmountShort string = `Unmount everything mount set up in a target`
	UmountLong  string = `
  The 'umount' command tears down every bind/special mount under
  <targetdir-root>/<name> that 'mount', 'login', or 'run' may have set
  up. -m/--mount on 'umount' selects what to keep mounted rather than
  what to mount, inverting its meaning on the other commands.`
	UmountExample string = `
  $ chrootbox umount bullseye
  $ chrootbox umount -m home bullseye`
)

// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
// list command
// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
const (
	ListUse   string = `list`
	ListShort string = `List targets owned by the caller`
	ListLong  string = `
  The 'list' command enumerates the entries directly under the
  caller's target directory root, without descending into them, and
  reports which of the known mount points are currently active in
  each.`
	ListExample string = `
  $ chrootbox list`
)
