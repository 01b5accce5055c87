// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package sylog implements a small leveled logger used by every chrootbox
// command. Messages always go to stderr so that stdout stays free for
// output that a caller might capture (e.g. the output of a chrooted
// command run via "chrootbox run").
package sylog
