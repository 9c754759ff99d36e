package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pleimann/ir2hid/internal/irproto"
)

// Row rejection reasons
var (
	ErrTooFewColumns   = errors.New("expected protocol,address,command,hid")
	ErrUnknownProtocol = errors.New("unknown protocol")
	ErrEmptyHex        = errors.New("empty hex value")
	ErrInvalidHex      = errors.New("invalid hex digit")
	ErrHexOverflow     = errors.New("hex value exceeds 32 bits")
	ErrHIDRange        = errors.New("hid code exceeds 0xFF")
)

// columns holds the number of meaningful columns in a data row. Anything
// after the fourth comma-separated column is a comment.
const columns = 4

// RowError describes a data row that was skipped
type RowError struct {
	Line int // 1-based line number in the source
	Text string
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Parse builds a table from the contents of a mapping file.
//
// The first non-blank line is a header and is discarded without looking at
// it. Each following non-blank line is a row of the form
//
//	protocol,address,command,hid[,comment...]
//
// Malformed rows are skipped and reported in the returned slice; they never
// prevent the remaining rows from loading.
func Parse(data []byte) (*Table, []RowError) {
	text := string(data)

	var (
		entries  []Entry
		rejected []RowError
		header   = true
		line     = 1
		start    = 0
		startLn  = 1
	)

	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\r' && text[i] != '\n' {
			continue
		}

		row := text[start:i]
		if row != "" {
			if header {
				header = false
			} else if entry, err := parseRow(row); err != nil {
				rejected = append(rejected, RowError{Line: startLn, Text: row, Err: err})
			} else {
				entries = append(entries, entry)
			}
		}

		if i < len(text) && text[i] == '\n' {
			line++
		}
		start = i + 1
		startLn = line
	}

	return &Table{entries: entries}, rejected
}

func parseRow(row string) (Entry, error) {
	cols := strings.SplitN(row, ",", columns+1)
	if len(cols) < columns {
		return Entry{}, ErrTooFewColumns
	}

	name := cols[0]
	proto := irproto.ByName(name)
	if !proto.Valid() {
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownProtocol, name)
	}

	addr, err := ParseHex(cols[1])
	if err != nil {
		return Entry{}, fmt.Errorf("address: %w", err)
	}
	cmd, err := ParseHex(cols[2])
	if err != nil {
		return Entry{}, fmt.Errorf("command: %w", err)
	}
	hid, err := ParseHex(cols[3])
	if err != nil {
		return Entry{}, fmt.Errorf("hid: %w", err)
	}
	if hid > 0xFF {
		return Entry{}, ErrHIDRange
	}

	return Entry{
		Signature: irproto.Signature{Protocol: proto, Address: addr, Command: cmd},
		HID:       uint8(hid),
	}, nil
}

// ParseHex parses a hexadecimal number with an optional 0x/0X prefix.
// Whitespace is not a hex digit. Values that do not fit in 32 bits are
// rejected rather than wrapped; leading zeros are allowed.
func ParseHex(s string) (uint32, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" {
		return 0, ErrEmptyHex
	}

	var value uint32
	for i := 0; i < len(s); i++ {
		nibble, ok := hexNibble(s[i])
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrInvalidHex, s[i])
		}
		if value > 0x0FFFFFFF {
			return 0, ErrHexOverflow
		}
		value = value<<4 | uint32(nibble)
	}
	return value, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
