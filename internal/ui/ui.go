// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the colored, TTY-aware terminal output cmd/blaze uses
// for its resolve subcommand: headers, labeled fields, and leveled
// info/warning/success messages that degrade to plain text when stdout
// isn't a terminal or color has been explicitly disabled.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	Cyan   = color.New(color.FgCyan)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors disables color output when noColor is set, stdout isn't a
// terminal, or NO_COLOR is present in the environment.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a bold section title.
func Header(title string) {
	fmt.Println(Bold.Sprint(title))
}

// SubHeader prints a secondary, unbolded section title.
func SubHeader(title string) {
	fmt.Println(title)
}

// Label renders a field name for use ahead of fmt.Printf's own value
// formatting, matching the "Label: value" alignment callers build by hand.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText renders supplementary, low-emphasis text (paths, defaults).
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText renders a numeric count, highlighted when non-zero.
func CountText(n int) string {
	if n == 0 {
		return Dim.Sprint("0")
	}
	return Cyan.Sprint(n)
}

func Info(msg string)                    { fmt.Println(msg) }
func Infof(format string, args ...any)   { fmt.Printf(format+"\n", args...) }
func Success(msg string)                 { fmt.Println(Green.Sprint(msg)) }
func Successf(format string, args ...any) { fmt.Println(Green.Sprintf(format, args...)) }
func Warning(msg string)                 { fmt.Fprintln(os.Stderr, Yellow.Sprint(msg)) }
func Warningf(format string, args ...any) { fmt.Fprintln(os.Stderr, Yellow.Sprintf(format, args...)) }
func Error(msg string)                   { fmt.Fprintln(os.Stderr, Red.Sprint(msg)) }
func Errorf(format string, args ...any)  { fmt.Fprintln(os.Stderr, Red.Sprintf(format, args...)) }
