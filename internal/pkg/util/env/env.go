// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package env sanitizes the process environment before a chroot session
// execs into a target. Go's os.Environ returns a snapshot slice rather
// than a live view onto a compacting C array, so unlike the C original,
// nothing here needs to restart iteration after an Unsetenv call.
package env

import "os"

// allowedPrefixes is the set of environment variable name prefixes that
// survive Sanitize. An exact name is just a prefix of length len(name)
// matched against itself.
var allowedPrefixes = []string{
	"BOLT_",
	"DISPLAY",
	"SSH_CONNECTION",
	"SSH_CLIENT",
	"SSH_TTY",
	"USER",
	"TERM",
	"HOME",
	"CFLAGS",
	"CXXFLAGS",
	"CPPFLAGS",
	"LDFLAGS",
}

// Sanitize unsets every environment variable whose name does not match
// one of allowedPrefixes. It operates on a snapshot taken at call time,
// so it is safe even though Unsetenv mutates the live environment.
func Sanitize() {
	for _, kv := range os.Environ() {
		name, ok := splitName(kv)
		if !ok {
			continue
		}
		if !allowed(name) {
			os.Unsetenv(name)
		}
	}
}

func splitName(kv string) (string, bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], true
		}
	}
	return "", false
}

func allowed(name string) bool {
	for _, prefix := range allowedPrefixes {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
