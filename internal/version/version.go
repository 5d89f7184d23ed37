package version

import (
	"fmt"

	"github.com/fatih/color"
)

// Version information for the licm CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	nameColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgGreen, color.Bold)
	metaColor    = color.New(color.Faint)
)

// Banner returns the one-line version banner, coloured when color output is enabled.
func Banner() string {
	s := nameColor.Sprint("licm") + " " + versionColor.Sprint(Version)
	if GitCommit != "" {
		s += metaColor.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		s += metaColor.Sprintf(" built %s", BuildDate)
	}
	return s
}

// String returns the plain version string.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s+%s", Version, GitCommit)
}
