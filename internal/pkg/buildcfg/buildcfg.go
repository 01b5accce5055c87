// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package buildcfg holds compile-time constants that would otherwise be
// generated by the build system (c.f. apptainer's buildcfg.go.in). None of
// these are meant to be runtime-configurable: a setuid-root binary must
// not expose a new privileged code path through an environment variable
// or flag that a caller could use to redirect where privileged operations
// land.
package buildcfg

const (
	// PACKAGE_NAME is the program name.
	PACKAGE_NAME = "chrootbox"

	// PACKAGE_VERSION is the released version string.
	PACKAGE_VERSION = "1.0.0"

	// BUILD_GROUP is the name of the system group whose members are
	// permitted to invoke chrootbox. Resolved through the group database
	// at runtime, never read from the environment.
	BUILD_GROUP = "chrootbox"

	// WRAPPER_TOKEN_ENV is the environment variable the outer driver
	// must set to a non-empty value before invoking chrootbox. Its
	// absence is an invocation error (spec.md 4.1).
	WRAPPER_TOKEN_ENV = "CHROOTBOX_WRAPPER_TOKEN"

	// LOCALSTATEDIR is the root under which per-user target directories
	// live by default: LOCALSTATEDIR/users/<uid>/targets.
	LOCALSTATEDIR = "/var/lib/chrootbox"

	// ExitInvocation and ExitRuntime are the two exit-code conventions
	// this rewrite picked per spec.md's Open Question on exit codes
	// (design notes 9, "two overlapping conventions"). 0 remains
	// success, or the exit status of an executed program.
	ExitInvocation = 1
	ExitRuntime    = 2
)
