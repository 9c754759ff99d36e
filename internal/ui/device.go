package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// DeviceInfo describes a USB HID device that could serve as the bridge board
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string

	// Configured is set for the board the current config points at
	Configured bool
}

// Name returns a human readable name for the device
func (d DeviceInfo) Name() string {
	name := d.Product
	if name == "" {
		name = "Unnamed device"
	}
	if d.Manufacturer != "" {
		name = d.Manufacturer + " " + name
	}
	return name
}

// MarkConfigured flags every device matching the configured bridge IDs
func MarkConfigured(devices []DeviceInfo, vendorID, productID uint16) {
	for i := range devices {
		devices[i].Configured = devices[i].VendorID == vendorID && devices[i].ProductID == productID
	}
}

// boardPicker wraps the huh form so esc and q cancel instead of being
// swallowed by the select field
type boardPicker struct {
	form    *huh.Form
	aborted bool
}

func (m boardPicker) Init() tea.Cmd {
	return m.form.Init()
}

func (m boardPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}
	return m, cmd
}

func (m boardPicker) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

func newBoardForm(devices []DeviceInfo, selected *int) *huh.Form {
	options := make([]huh.Option[int], len(devices))
	for i, d := range devices {
		label := deviceID(d.VendorID, d.ProductID) + "  " + d.Name()
		if d.Configured {
			label += " " + configuredStyle.Render("(current)")
			*selected = i
		}
		options[i] = huh.NewOption(label, i)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Bridge board").
				Description("The board that types keys on the host (esc to cancel)").
				Options(options...).
				Value(selected),
		),
	).WithTheme(pickerTheme()).WithShowHelp(false)
}

// SelectDevice asks the user to pick the bridge board. The configured board,
// if present, starts out selected. A nil result means the user cancelled.
func SelectDevice(devices []DeviceInfo) (*DeviceInfo, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices to select from")
	}

	var selected int
	p := tea.NewProgram(boardPicker{form: newBoardForm(devices, &selected)})
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if final.(boardPicker).aborted {
		return nil, nil
	}
	return &devices[selected], nil
}

// PrintDeviceList lists the HID devices that could act as the bridge board
func PrintDeviceList(devices []DeviceInfo) {
	if len(devices) == 0 {
		fmt.Println(Warning("No USB HID devices found"))
		return
	}

	fmt.Println()
	fmt.Println(Title("Bridge board candidates"))
	fmt.Println(Muted(fmt.Sprintf("%d HID device(s) attached", len(devices))))
	fmt.Println()

	for _, d := range devices {
		fmt.Println("  " + deviceLine(d))
	}
	fmt.Println()
}

func deviceLine(d DeviceInfo) string {
	parts := []string{deviceID(d.VendorID, d.ProductID), deviceNameStyle.Render(d.Name())}
	if d.Configured {
		parts = append(parts, configuredStyle.Render("(current)"))
	}
	return strings.Join(parts, "  ")
}

// PrintBridgeSaved confirms that the config now drives keys through the
// given bridge board
func PrintBridgeSaved(configPath string, vendorID, productID uint16, created bool) {
	msg := "Bridge board updated"
	if created {
		msg = "Config created for bridge board"
	}

	fmt.Println()
	fmt.Println(Success(msg))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config: "), configPath)
	fmt.Printf("  %s %s\n", Muted("Board:  "), deviceID(vendorID, productID))
	fmt.Printf("  %s %s\n", Muted("Backend:"), "bridge")
	fmt.Println()
}

func pickerTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(ColorAccent).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorDim)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorAccent)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(ColorText)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorAccent)
	return t
}
