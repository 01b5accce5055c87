// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package isolate implements "run --isolate": unshare a fresh PID and
// mount namespace, then fork so the child becomes PID 1 of the new
// namespace before entering the chroot session.
//
// The Go runtime cannot safely continue running arbitrary Go code in a
// bare fork()ed child — only the calling thread is duplicated, every
// other goroutine's thread simply vanishes, and any lock one of them
// held stays held forever. So instead of a bare fork, the child is
// produced by re-executing chrootbox's own binary via /proc/self/exe
// (the same self-reexec idiom the retrieved pack's lxd "forkmount"
// subcommand uses for its own privileged child operations), with the
// chroot parameters handed across as environment variables rather than
// kept in memory across the fork. The unshare happens in the parent
// before that reexec, so the new process is born inside the already
// unshared namespaces and becomes PID 1 there — this is exactly why
// os/exec's SysProcAttr.Cloneflags is not used here: that form applies
// the unshare to the child at clone time, one step too late for the
// child to observe itself as PID 1.
package isolate

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/chrootbox/chrootbox/internal/pkg/box/config"
	"github.com/chrootbox/chrootbox/internal/pkg/box/session"
	"github.com/chrootbox/chrootbox/internal/pkg/buildcfg"
	"github.com/chrootbox/chrootbox/internal/pkg/util/priv"
	"github.com/chrootbox/chrootbox/pkg/sylog"
)

// ChildMarkerEnv, when set to "1" in the environment, tells chrootbox's
// entry point to skip normal command dispatch and call RunChild instead.
// Like argv, this is attacker-controlled whenever the binary is invoked
// directly, so main must only act on it after cli.Gate has already run
// and passed.
const ChildMarkerEnv = "CHROOTBOX_ISOLATE_CHILD"

const (
	envSysRoot = "CHROOTBOX_ISOLATE_SYSROOT"
	envHome    = "CHROOTBOX_ISOLATE_HOME"
	envMode    = "CHROOTBOX_ISOLATE_MODE"
	envArgv    = "CHROOTBOX_ISOLATE_ARGV"
	envMask    = "CHROOTBOX_ISOLATE_MASK"
	argvSep    = "\x00"
)

// Run unshares new PID and mount namespaces, then re-execs chrootbox's
// own binary to produce the PID-1 child, and waits for it, forwarding
// SIGTERM/SIGINT/SIGHUP as SIGKILL. It returns the child's exit status.
func Run(p session.Params, mask config.MountMask) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	guard, err := priv.RaiseGuard()
	if err != nil {
		return -1, fmt.Errorf("isolate: raise: %w", err)
	}
	unshareErr := unix.Unshare(unix.CLONE_NEWPID | unix.CLONE_NEWNS)
	if relErr := guard.Release(); relErr != nil && unshareErr == nil {
		unshareErr = relErr
	}
	if unshareErr != nil {
		return -1, fmt.Errorf("isolate: unshare: %w", unshareErr)
	}

	env := append(os.Environ(),
		ChildMarkerEnv+"=1",
		envSysRoot+"="+p.SysRoot,
		envHome+"="+p.HomeDir,
		envMode+"="+modeString(p.Mode),
		envArgv+"="+strings.Join(p.Argv, argvSep),
		envMask+"="+strconv.FormatUint(uint64(mask), 10),
	)

	self := "/proc/self/exe"
	pid, err := syscall.ForkExec(self, os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd()},
		Sys:   &syscall.SysProcAttr{},
	})
	if err != nil {
		return -1, fmt.Errorf("isolate: reexec: %w", err)
	}

	return waitForward(pid)
}

// ChildParamsFromEnv decodes the parameters Run encoded into the
// environment. Called from main when ChildMarkerEnv is set.
func ChildParamsFromEnv() (session.Params, config.MountMask, error) {
	mode, err := parseModeString(os.Getenv(envMode))
	if err != nil {
		return session.Params{}, 0, err
	}

	var argv []string
	if raw := os.Getenv(envArgv); raw != "" {
		argv = strings.Split(raw, argvSep)
	}

	maskVal, err := strconv.ParseUint(os.Getenv(envMask), 10, 64)
	if err != nil {
		return session.Params{}, 0, fmt.Errorf("isolate: malformed %s: %w", envMask, err)
	}

	return session.Params{
		SysRoot: os.Getenv(envSysRoot),
		HomeDir: os.Getenv(envHome),
		// RealUID is deliberately not threaded through the environment:
		// the reexec'd child's real uid is already the invoking user's
		// (exec preserves real uid; only the setuid bit changes the
		// effective uid), so reading it straight from the kernel here
		// is both simpler and not caller-overridable the way an env var
		// would be.
		RealUID: syscall.Getuid(),
		Mode:    mode,
		Argv:    argv,
	}, config.MountMask(maskVal), nil
}

// RunChild is the PID-1 entry point: mount a fresh /proc if requested,
// then hand off to session.Enter, which drops privileges permanently
// before exec. It does not return on success.
func RunChild(p session.Params, mask config.MountMask) {
	if mask.Has(config.MountProc) {
		if err := mountFreshProc(p.SysRoot); err != nil {
			sylog.Errorf("isolate: mount fresh /proc: %v", err)
		}
	}
	if err := session.Enter(p); err != nil {
		sylog.Errorf("isolate: %v", err)
		os.Exit(buildcfg.ExitRuntime)
	}
}

// mountFreshProc mounts a new procfs at sysRoot+/proc: the new PID
// namespace's processes are only visible through a procfs mounted after
// the unshare, never through one bind-mounted from the host.
func mountFreshProc(sysRoot string) error {
	target := sysRoot + "/proc"
	guard, err := priv.RaiseGuard()
	if err != nil {
		return err
	}
	defer guard.Release()
	return unix.Mount("", target, "proc", 0, "")
}

// waitForward installs SIGTERM/SIGINT/SIGHUP handlers in the parent that
// forward SIGKILL to pid, then waits for the child, retrying on EINTR.
func waitForward(pid int) (int, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigCh:
				syscall.Kill(pid, syscall.SIGKILL)
			case <-done:
				return
			}
		}
	}()

	var ws syscall.WaitStatus
	for {
		_, err := syscall.Wait4(pid, &ws, 0, nil)
		if err == syscall.EINTR {
			continue
		}
		close(done)
		if err != nil {
			return -1, fmt.Errorf("isolate: wait4: %w", err)
		}
		return ws.ExitStatus(), nil
	}
}

func modeString(m session.Mode) string {
	if m == session.ModeRun {
		return "run"
	}
	return "login"
}

func parseModeString(s string) (session.Mode, error) {
	switch s {
	case "run":
		return session.ModeRun, nil
	case "login", "":
		return session.ModeLogin, nil
	default:
		return 0, fmt.Errorf("isolate: malformed %s: %q", envMode, s)
	}
}
