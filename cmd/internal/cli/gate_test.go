// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"testing"

	"github.com/chrootbox/chrootbox/internal/pkg/buildcfg"
)

// TestCheckEntryGateRejectsMissingWrapperToken covers spec.md §8's first
// end-to-end scenario: invoking chrootbox with an empty environment must
// fail the gate before any of the later, privilege-adjacent checks run.
func TestCheckEntryGateRejectsMissingWrapperToken(t *testing.T) {
	t.Setenv(buildcfg.WRAPPER_TOKEN_ENV, "")

	if _, err := checkEntryGate(); err == nil {
		t.Fatal("expected an error when the wrapper token env var is unset")
	}
}
