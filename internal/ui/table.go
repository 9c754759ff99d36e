package ui

import (
	"fmt"
	"strings"

	"github.com/pleimann/ir2hid/internal/table"
)

// PrintTableReport displays the entries loaded from a mapping table along
// with every skipped row and every entry shadowed by an earlier one.
func PrintTableReport(path string, t *table.Table, rejected []table.RowError) {
	fmt.Println()
	fmt.Println(Title("Mapping Table"))
	fmt.Println(Muted(fmt.Sprintf("%s: %d entries, %d skipped", path, t.Len(), len(rejected))))
	fmt.Println()

	entries := t.Entries()
	if len(entries) == 0 {
		fmt.Println(Warning("No entries loaded"))
		fmt.Println()
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Protocol.String()))
	}
	for i, e := range entries {
		name := e.Protocol.String()
		fmt.Printf("  %3d  %s%s  addr 0x%04X  cmd 0x%04X  %s\n",
			i+1,
			protocolStyle.Render(name),
			strings.Repeat(" ", width-len(name)),
			e.Address,
			e.Command,
			hidCodeStyle.Render(fmt.Sprintf("-> 0x%02X", e.HID)),
		)
	}
	if len(entries) > 0 {
		fmt.Println()
	}

	if dups := t.Duplicates(); len(dups) > 0 {
		fmt.Println(Bold("Shadowed"))
		for _, i := range dups {
			e := entries[i]
			fmt.Printf("  %s\n", Warning(fmt.Sprintf("entry %d (%s) never matches, an earlier entry has the same signature", i+1, e.Signature)))
		}
		fmt.Println()
	}

	if len(rejected) > 0 {
		fmt.Println(Bold("Skipped"))
		for _, r := range rejected {
			fmt.Printf("  %s\n", Error(r.Error()))
			fmt.Printf("      %s\n", Muted(r.Text))
		}
		fmt.Println()
	}
}
