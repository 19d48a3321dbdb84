// Package styles provides shared lipgloss styles for CLI and shell output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorRed    = lipgloss.Color("#d75f6b")
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner ASCII art for the shell header.
const Banner = `
 ╔═╗╔═╗╦  ╔═╗
 ║  ╠═╣║  ║
 ╚═╝╩ ╩╩═╝╚═╝`

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	SectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// CommandNameStyle styles command names in the menu.
var CommandNameStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// ResultStyle styles calculation results.
var ResultStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Bold(true)
