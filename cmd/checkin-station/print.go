package main

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// printResult writes one line per scan so staff can follow along and the
// output can be piped into other tools.
func printResult(w io.Writer, at time.Time, kind, message string, nameMismatch bool) {
	line := fmt.Sprintf("%s  %-18s %s", at.Local().Format("15:04:05"), strings.ToUpper(kind), message)
	if nameMismatch {
		line += " (name on code differs from registration)"
	}
	fmt.Fprintln(w, line)
}
