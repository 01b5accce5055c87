// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package capture

import "testing"

func TestCaptureTrimsOutput(t *testing.T) {
	out, status, err := Capture(false, "/bin/echo", "hello  \t")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if string(out) != "hello" {
		t.Fatalf("output = %q, want %q", out, "hello")
	}
}

func TestCaptureNonZeroExit(t *testing.T) {
	_, status, err := Capture(false, "/bin/sh", "-c", "exit 7")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if status != 7 {
		t.Fatalf("status = %d, want 7", status)
	}
}

func TestCaptureNeverReturnsNilOutput(t *testing.T) {
	out, _, err := Capture(false, "/bin/true")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if out == nil {
		t.Fatalf("output must never be nil")
	}
}

func TestRtrim(t *testing.T) {
	cases := map[string]string{
		"hello\n":     "hello",
		"hello \t\r\n": "hello",
		"":            "",
		"no-trailing": "no-trailing",
	}
	for in, want := range cases {
		if got := string(rtrim([]byte(in))); got != want {
			t.Errorf("rtrim(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLimitedBufferCapsWrites(t *testing.T) {
	var b limitedBuffer
	big := make([]byte, MaxOutput+100)
	n, err := b.Write(big)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(big) {
		t.Fatalf("Write returned %d, want %d (must report full length to satisfy io.Writer)", n, len(big))
	}
	if b.Len() != MaxOutput {
		t.Fatalf("buffered %d bytes, want capped at %d", b.Len(), MaxOutput)
	}
}
