package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette. The accent is the red of an IR LED; the host side is teal.
var (
	ColorAccent  = lipgloss.Color("#E4572E")
	ColorHost    = lipgloss.Color("#17BEBB")
	ColorOK      = lipgloss.Color("#76B041")
	ColorCaution = lipgloss.Color("#FFC914")
	ColorFault   = lipgloss.Color("#D7263D")
	ColorDim     = lipgloss.Color("#7A7D84")
	ColorText    = lipgloss.Color("#EDEDED")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	ArgStyle = lipgloss.NewStyle().
			Foreground(ColorHost)

	CommandStyle = lipgloss.NewStyle().
			Foreground(ColorHost).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorOK)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorCaution)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFault)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorHost).
			Background(lipgloss.Color("#1F2329")).
			Padding(0, 1)
)

// Status screen
var (
	statusBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)

	connectedStyle = lipgloss.NewStyle().
			Foreground(ColorOK)

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(ColorDim)
)

// Devices and mapping tables
var (
	deviceIDStyle = lipgloss.NewStyle().
			Foreground(ColorHost).
			Bold(true)

	deviceNameStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	configuredStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	protocolStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	hidCodeStyle = lipgloss.NewStyle().
			Foreground(ColorHost)
)

// Title renders a section title
func Title(text string) string {
	return TitleStyle.Render(text)
}

// Success renders text with a checkmark
func Success(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

func Warning(text string) string {
	return WarningStyle.Render("⚠ " + text)
}

func Error(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

func Muted(text string) string {
	return MutedStyle.Render(text)
}

func Code(text string) string {
	return CodeStyle.Render(text)
}

func Bold(text string) string {
	return BoldStyle.Render(text)
}

// deviceID formats a vendor/product pair the way set-device accepts it
func deviceID(vendorID, productID uint16) string {
	return deviceIDStyle.Render(fmt.Sprintf("0x%04X 0x%04X", vendorID, productID))
}
