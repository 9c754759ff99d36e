// Package table loads the IR to HID mapping table and answers lookups.
package table

import "github.com/pleimann/ir2hid/internal/irproto"

// Entry maps one remote button to a HID key code
type Entry struct {
	irproto.Signature
	HID uint8
}

// Table is the ordered set of mapping entries, in the order their rows
// appeared in the source file. It is never modified after it is built.
type Table struct {
	entries []Entry
}

// New creates a table from entries. The slice is copied.
func New(entries []Entry) *Table {
	t := &Table{entries: make([]Entry, len(entries))}
	copy(t.entries, entries)
	return t
}

// Lookup returns the HID code of the first entry matching sig. Later entries
// with the same signature are unreachable.
func (t *Table) Lookup(sig irproto.Signature) (uint8, bool) {
	if t == nil {
		return 0, false
	}
	for i := range t.entries {
		if t.entries[i].Signature == sig {
			return t.entries[i].HID, true
		}
	}
	return 0, false
}

// Len returns the number of loaded entries
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the loaded entries
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Duplicates returns the indices of entries shadowed by an earlier entry
// with the same signature.
func (t *Table) Duplicates() []int {
	if t == nil {
		return nil
	}
	seen := make(map[irproto.Signature]bool, len(t.entries))
	var dups []int
	for i, e := range t.entries {
		if seen[e.Signature] {
			dups = append(dups, i)
			continue
		}
		seen[e.Signature] = true
	}
	return dups
}
