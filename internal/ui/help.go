package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/ir2hid/internal/utils"
)

type example struct {
	cmd  string
	desc string
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	name := utils.ExecutableName()

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		Render(name)

	versionTag := lipgloss.NewStyle().
		Foreground(ColorDim).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
	fmt.Println(Muted("Types keyboard keys for infrared remote buttons"))
	fmt.Println()

	printSection("Usage", []string{
		name + " [flags]                Translate remote buttons into key presses",
		name + " list-devices [flags]   List available HID bridge boards",
		name + " set-device [args]      Configure the HID bridge board",
		name + " check-table [file]     Validate a mapping table",
		name + " help                   Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-headless         Log translations instead of showing the status screen",
		"-verbose          Enable debug logging",
		"-version          Print version and exit",
	})

	printCommandSection()

	printExamples("Examples", []example{
		{name, "Run with default config.yaml"},
		{name + " -config my.yaml", "Run with custom config file"},
		{name + " -headless", "Run as a service"},
		{name + " list-devices", "List connected HID devices"},
		{name + " set-device 0x1234 0x5678", "Use a bridge board by vendor/product ID"},
		{name + " check-table lut.csv", "Check a mapping table for mistakes"},
	})
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printCommandSection() {
	fmt.Println(Bold("Commands"))

	fmt.Printf("  %s\n", CommandStyle.Render("list-devices"))
	fmt.Printf("      List attached HID devices and mark the configured bridge board\n")
	fmt.Println()

	fmt.Printf("  %s\n", CommandStyle.Render("set-device"))
	fmt.Printf("      Switch the config to a HID bridge board\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" set-device --help"))
	fmt.Println()

	fmt.Printf("  %s\n", CommandStyle.Render("check-table"))
	fmt.Printf("      Show the entries a mapping table loads and the rows it skips\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" check-table --help"))
	fmt.Println()
}

func printExamples(title string, examples []example) {
	fmt.Println(Bold(title))

	maxLen := 0
	for _, ex := range examples {
		maxLen = max(maxLen, len(ex.cmd))
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.cmd)+2)
		fmt.Printf("  %s%s%s\n", ArgStyle.Render(ex.cmd), padding, Muted(ex.desc))
	}
	fmt.Println()
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	name := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), name+" set-device [options] [vendor_id product_id]")
	fmt.Println()
	fmt.Println("Select the HID bridge board that types keys on the host.")
	fmt.Println()
	fmt.Println(Muted("If vendor_id and product_id are provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of connected devices to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Device vendor ID (hex with 0x prefix or decimal)\n", ArgStyle.Render("vendor_id"))
	fmt.Printf("  %s   Device product ID (hex with 0x prefix or decimal)\n", ArgStyle.Render("product_id"))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", ArgStyle.Render("-config string"))
	fmt.Println()

	printExamples("Examples", []example{
		{name + " set-device", "Interactive selection"},
		{name + " set-device 0x1234 0x5678", "Direct specification"},
		{name + " set-device -config my.yaml", "Use different config"},
	})
}

// PrintCheckTableUsage displays the styled help text for check-table subcommand
func PrintCheckTableUsage() {
	name := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), name+" check-table [options] [file]")
	fmt.Println()
	fmt.Println("Parse a mapping table the way the translator does and report the result.")
	fmt.Println()
	fmt.Println(Muted("Without a file argument the table named in the config is checked."))
	fmt.Println(Muted("Exits with status 1 when any row is skipped."))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", ArgStyle.Render("-config string"))
	fmt.Println()

	printExamples("Examples", []example{
		{name + " check-table", "Check the configured table"},
		{name + " check-table remote.csv", "Check a specific file"},
	})
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(ColorOK).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
}

// PrintError displays a styled error message
func PrintError(message string) {
	fmt.Println(Error(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
