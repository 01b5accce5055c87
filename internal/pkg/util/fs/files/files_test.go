// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRewritePasswdReproducesEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "passwd")
	dst := filepath.Join(dir, "etc-passwd")

	const content = "root:x:0:0:root:/root:/bin/bash\n" +
		"# a comment line, not valid passwd(5)\n" +
		"\n" +
		"nobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RewritePasswd(src, dst); err != nil {
		t.Fatalf("RewritePasswd: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "root:x:0:0:root:/root:/bin/bash") {
		t.Errorf("root entry missing from rewritten passwd: %s", got)
	}
	if !strings.Contains(string(got), "nobody:x:65534:65534") {
		t.Errorf("nobody entry missing from rewritten passwd: %s", got)
	}
	if strings.Contains(string(got), "comment") {
		t.Errorf("comment line leaked into rewritten passwd: %s", got)
	}
}

func TestRewriteGroupReproducesEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "group")
	dst := filepath.Join(dir, "etc-group")

	const content = "root:x:0:\nwheel:x:10:alice,bob\nbad-line-no-colons\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RewriteGroup(src, dst); err != nil {
		t.Fatalf("RewriteGroup: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "wheel:x:10:alice,bob") {
		t.Errorf("wheel entry missing from rewritten group: %s", got)
	}
}

func TestCopyAtomicPreservesContentAndMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "resolv.conf")
	dst := filepath.Join(dir, "target-resolv.conf")

	if err := os.WriteFile(src, []byte("nameserver 1.1.1.1\n"), 0o640); err != nil {
		t.Fatal(err)
	}

	if err := CopyAtomic(src, dst); err != nil {
		t.Fatalf("CopyAtomic: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "nameserver 1.1.1.1\n" {
		t.Errorf("copied content = %q", got)
	}

	fi, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o640 {
		t.Errorf("copied mode = %o, want 0640", fi.Mode().Perm())
	}
}

func TestRewritePasswdNoPartialFileOnOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "passwd")
	dst := filepath.Join(dir, "etc-passwd")

	if err := os.WriteFile(src, []byte("root:x:0:0:root:/root:/bin/bash\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("stale content that must fully disappear\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RewritePasswd(src, dst); err != nil {
		t.Fatalf("RewritePasswd: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(got), "stale") {
		t.Errorf("destination retained stale content: %s", got)
	}
}
