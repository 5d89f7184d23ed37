package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether to run the progress view. It draws on
// stderr, so auto mode follows that stream.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	switch {
	case quiet || mode == uiModeOff:
		return false
	case mode == uiModeOn:
		return true
	default:
		return isTerminal(os.Stderr)
	}
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// applyColorMode forces both colour libraries on or off; auto leaves
// their own terminal detection in place.
func applyColorMode(mode colorMode) {
	switch mode {
	case colorOn:
		color.NoColor = false
		lipgloss.SetColorProfile(termenv.ANSI256)
	case colorOff:
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// styled reports whether output written to f should carry colour.
func (m colorMode) styled(f *os.File) bool {
	switch m {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(f)
	}
}
