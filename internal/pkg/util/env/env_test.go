// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package env

import (
	"os"
	"testing"
)

func TestSanitizeKeepsAllowlistedDropsRest(t *testing.T) {
	keep := map[string]string{
		"HOME":       "/home/alice",
		"TERM":       "xterm-256color",
		"BOLT_TOKEN": "deadbeef",
	}
	drop := map[string]string{
		"SECRET_API_KEY": "xyz",
		"PATH":           "/usr/bin",
		"LD_PRELOAD":     "/evil.so",
	}

	for k, v := range keep {
		t.Setenv(k, v)
	}
	for k, v := range drop {
		t.Setenv(k, v)
	}

	Sanitize()

	for k, v := range keep {
		if got := os.Getenv(k); got != v {
			t.Errorf("allowlisted %s = %q, want %q", k, got, v)
		}
	}
	for k := range drop {
		if _, ok := os.LookupEnv(k); ok {
			t.Errorf("%s should have been unset by Sanitize", k)
		}
	}
}

func TestSanitizeSkipsMalformedEntries(t *testing.T) {
	name, ok := splitName("NOEQUALSIGN")
	if ok {
		t.Errorf("splitName should report ok=false for %q, got name %q", "NOEQUALSIGN", name)
	}
}

func TestAllowedPrefixMatch(t *testing.T) {
	cases := map[string]bool{
		"BOLT_FOO":    true,
		"BOLTONE":     false,
		"SSH_CLIENT":  true,
		"SSH_AGENT":   false,
		"CFLAGS":      true,
		"RANDOM_VARS": false,
	}
	for name, want := range cases {
		if got := allowed(name); got != want {
			t.Errorf("allowed(%q) = %v, want %v", name, got, want)
		}
	}
}
