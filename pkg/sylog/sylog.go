// Copyright (c) Contributors to the chrootbox project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sylog

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
)

var messageColors = map[messageLevel]color.Attribute{
	FatalLevel: color.FgRed,
	ErrorLevel: color.FgRed,
	WarnLevel:  color.FgYellow,
}

var (
	loggerLevel = InfoLevel
	useColor    = true
	logWriter   = (io.Writer)(os.Stderr)
)

func init() {
	if l, err := strconv.Atoi(os.Getenv("CHROOTBOX_MESSAGELEVEL")); err == nil {
		loggerLevel = messageLevel(l)
	}
}

func prefix(msgLevel messageLevel) string {
	label := fmt.Sprintf("%-8s", msgLevel.String()+":")
	if attr, ok := messageColors[msgLevel]; ok && useColor {
		return color.New(attr).Sprint(label) + " "
	}
	return label + " "
}

func writef(msgLevel messageLevel, format string, a ...interface{}) {
	if loggerLevel < msgLevel {
		return
	}
	fmt.Fprintf(logWriter, "%s%s\n", prefix(msgLevel), fmt.Sprintf(format, a...))
}

// Fatalf logs an ERROR-level message and terminates the process with the
// runtime-error exit code (see internal/pkg/buildcfg).
func Fatalf(format string, a ...interface{}) {
	writef(ErrorLevel, format, a...)
	os.Exit(2)
}

// Errorf logs an ERROR-level message without exiting. Use this when the
// error will be returned to a caller instead of being fatal here.
func Errorf(format string, a ...interface{}) {
	writef(ErrorLevel, format, a...)
}

// Warningf logs a WARNING-level message for a condition spec.md documents
// as "noted as a warning" rather than propagated as an error.
func Warningf(format string, a ...interface{}) {
	writef(WarnLevel, format, a...)
}

// Infof logs an INFO-level message. Printed unless the level is lowered.
func Infof(format string, a ...interface{}) {
	writef(InfoLevel, format, a...)
}

// Verbosef logs a VERBOSE-level message, printed only when the level is
// raised to VERBOSE or above (CHROOTBOX_MESSAGELEVEL or SetLevel).
func Verbosef(format string, a ...interface{}) {
	writef(VerboseLevel, format, a...)
}

// Debugf logs a DEBUG-level message, printed only when the level is
// raised to DEBUG (CHROOTBOX_MESSAGELEVEL or SetLevel).
func Debugf(format string, a ...interface{}) {
	writef(DebugLevel, format, a...)
}

// SetLevel sets the active logger verbosity and whether color is applied.
func SetLevel(l int, colorize bool) {
	loggerLevel = messageLevel(l)
	useColor = colorize
}

// GetLevel returns the active logger verbosity.
func GetLevel() int {
	return int(loggerLevel)
}

// Writer returns the underlying io.Writer, for code that needs to hand its
// own output stream to an external library.
func Writer() io.Writer {
	return logWriter
}

// SetWriter replaces the log writer, returning the previous one so a
// caller (typically a test) can restore it.
func SetWriter(w io.Writer) io.Writer {
	old := logWriter
	if w != nil {
		logWriter = w
	}
	return old
}
