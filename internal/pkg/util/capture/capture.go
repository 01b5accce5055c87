// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package capture runs a short-lived helper command (mkdir, mount probes,
// the like) and captures its combined output, optionally scoped inside a
// raised-privilege window. Unlike fakeroot.UnshareRootMapped in the
// teacher, which lets a long-lived child inherit the terminal directly,
// capture is for small synchronous commands whose output the caller wants
// back as a value.
package capture

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/chrootbox/chrootbox/internal/pkg/util/priv"
)

// MaxOutput bounds how much combined stdout+stderr Capture will buffer
// before truncating. A runaway helper must not be able to exhaust memory
// in a setuid-root process.
const MaxOutput = 4 << 20 // 4MiB

// Capture runs name with args under LC_ALL=C and returns its combined,
// right-trimmed output and exit status. With raise set, the parent
// raises privileges immediately before cmd.Start and lowers them as
// soon as Start returns; Start forks and execs the child within that
// call, so the raised window spans the fork and the child inherits
// effective uid 0 from the parent rather than raising itself.
//
// The returned output slice is never nil, even on failure.
func Capture(raise bool, name string, args ...string) ([]byte, int, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	var buf limitedBuffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	var guard *priv.Guard
	if raise {
		g, err := priv.RaiseGuard()
		if err != nil {
			return []byte{}, -1, fmt.Errorf("capture %s: raise: %w", name, err)
		}
		guard = g
	}
	err := cmd.Start()
	if guard != nil {
		guard.Release()
	}
	if err != nil {
		return []byte{}, -1, fmt.Errorf("capture %s: start: %w", name, err)
	}

	waitErr := cmd.Wait()
	status := exitStatus(cmd, waitErr)
	out := rtrim(buf.Bytes())
	if out == nil {
		out = []byte{}
	}

	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return out, status, fmt.Errorf("capture %s: %w", name, waitErr)
		}
	}
	return out, status, nil
}

// MkdirAll creates dir and any missing parents by shelling out to the
// system mkdir under a raised window, rather than calling os.MkdirAll
// directly: it is the one launcher every raise-scoped "mkdir -p" call
// site in chrootbox goes through, so the output of a misbehaving mkdir
// is always bounded and visible the same way any other captured helper
// invocation is.
func MkdirAll(dir string) error {
	out, status, err := Capture(true, "mkdir", "-p", "--", dir)
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("mkdir -p %s exited %d: %s", dir, status, out)
	}
	return nil
}

func exitStatus(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
			return ws.ExitStatus()
		}
		return 0
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return ws.ExitStatus()
		}
	}
	return -1
}

// rtrim strips trailing whitespace and control bytes, matching the C
// original's interactive-prompt-trimming loop in spirit (without the
// byte-at-a-time read it used to implement it).
func rtrim(b []byte) []byte {
	end := len(b)
	for end > 0 {
		c := b[end-1]
		if c <= ' ' || c == 0x7f {
			end--
			continue
		}
		break
	}
	return b[:end]
}

// limitedBuffer is a bytes.Buffer that silently stops accepting writes
// past MaxOutput rather than growing without bound.
type limitedBuffer struct {
	bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	total := len(p)
	if b.Len() >= MaxOutput {
		return total, nil
	}
	room := MaxOutput - b.Len()
	if len(p) > room {
		p = p[:room]
	}
	if _, err := b.Buffer.Write(p); err != nil {
		return 0, err
	}
	return total, nil
}
