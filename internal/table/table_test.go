package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pleimann/ir2hid/internal/irproto"
)

func TestLookupFirstMatchWins(t *testing.T) {
	tbl, _ := Parse([]byte("h\nNEC,0x04,0x0A,0x01\nNEC,0x04,0x0A,0x02\nNEC,0x04,0x0B,0x03\n"))

	code, ok := tbl.Lookup(sig(irproto.NEC, 0x04, 0x0A))
	assert.True(t, ok)
	assert.Equal(t, uint8(0x01), code)

	assert.Equal(t, []int{1}, tbl.Duplicates())
}

func TestLookupComparesAllFields(t *testing.T) {
	tbl := New([]Entry{{Signature: sig(irproto.NEC, 1, 2), HID: 9}})

	tests := []struct {
		name string
		sig  irproto.Signature
		ok   bool
	}{
		{"exact", sig(irproto.NEC, 1, 2), true},
		{"protocol differs", sig(irproto.NECext, 1, 2), false},
		{"address differs", sig(irproto.NEC, 2, 2), false},
		{"command differs", sig(irproto.NEC, 1, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tbl.Lookup(tt.sig)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	_, ok := tbl.Lookup(sig(irproto.NEC, 1, 2))
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
	assert.Nil(t, tbl.Entries())
	assert.Nil(t, tbl.Duplicates())
}

func TestEntriesIsACopy(t *testing.T) {
	tbl := New([]Entry{{Signature: sig(irproto.NEC, 1, 2), HID: 9}})
	entries := tbl.Entries()
	entries[0].HID = 1

	code, _ := tbl.Lookup(sig(irproto.NEC, 1, 2))
	assert.Equal(t, uint8(9), code)
}
