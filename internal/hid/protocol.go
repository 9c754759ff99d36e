package hid

import (
	"encoding/binary"
	"fmt"
)

// Report IDs understood by the bridge board firmware
const (
	ReportIDButtonEvent byte = 0x01
	ReportIDDisplay     byte = 0x02
	ReportIDKey         byte = 0x03
)

// Event types for button events
const (
	EventTypePress   byte = 0x01
	EventTypeRelease byte = 0x02
)

// Key actions carried in ReportIDKey reports
const (
	KeyActionPress   byte = 0x01
	KeyActionRelease byte = 0x02
)

// Display commands
const (
	DisplayCmdPartial byte = 0x02
	DisplayCmdClear   byte = 0x03
)

// KeyReportSize is the length of a bridge key report, report ID included
const KeyReportSize = 8

// BootReportSize is the length of a boot protocol keyboard input report
const BootReportSize = 8

// Event represents a button event from the bridge board
type Event struct {
	Type       EventType
	ButtonMask uint16
	Timestamp  uint32
}

type EventType byte

const (
	Press   EventType = EventType(EventTypePress)
	Release EventType = EventType(EventTypeRelease)
)

func (e EventType) String() string {
	switch e {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("unknown(%d)", e)
	}
}

// ParseEvent parses a raw HID report into an Event
// Expected format:
//
//	Byte 0: Report ID (0x01)
//	Byte 1: Event type (0x01=press, 0x02=release)
//	Byte 2-3: Button bitmask (16 buttons max, little-endian)
//	Byte 4-7: Timestamp (ms since boot, little-endian u32)
func ParseEvent(data []byte) (*Event, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("event data too short: %d bytes", len(data))
	}

	if data[0] != ReportIDButtonEvent {
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	eventType := data[1]
	if eventType != EventTypePress && eventType != EventTypeRelease {
		return nil, fmt.Errorf("unknown event type: 0x%02X", eventType)
	}

	return &Event{
		Type:       EventType(eventType),
		ButtonMask: binary.LittleEndian.Uint16(data[2:4]),
		Timestamp:  binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// PressedButtons returns a slice of button indices that are pressed
func (e *Event) PressedButtons() []int {
	var buttons []int
	for i := 0; i < 16; i++ {
		if e.ButtonMask&(1<<i) != 0 {
			buttons = append(buttons, i)
		}
	}
	return buttons
}

// EncodeKeyReport builds the bridge report that presses or releases a key
// on the host the bridge board is plugged into.
//
//	Byte 0: Report ID (0x03)
//	Byte 1: Action (0x01=press, 0x02=release)
//	Byte 2: HID usage code
//	Byte 3-7: Reserved, zero
func EncodeKeyReport(action, code byte) []byte {
	buf := make([]byte, KeyReportSize)
	buf[0] = ReportIDKey
	buf[1] = action
	buf[2] = code
	return buf
}

// BootKeyboardReport builds a boot protocol keyboard report with code as the
// only pressed key. Code 0 releases all keys.
//
//	Byte 0: Modifier bits
//	Byte 1: Reserved
//	Byte 2-7: Pressed key codes
func BootKeyboardReport(code byte) [BootReportSize]byte {
	var r [BootReportSize]byte
	r[2] = code
	return r
}

// DisplayFrame represents a frame to be sent to the bridge board's display
type DisplayFrame struct {
	Command byte
	X       uint16
	Y       uint16
	Width   uint16
	Height  uint16
	Data    []byte // 1-bit packed pixel data, row-major
}

// Encode serializes the DisplayFrame for transmission
// Format:
//
//	Byte 0: Report ID (0x02)
//	Byte 1: Command (0x02=partial, 0x03=clear)
//	Byte 2-3: X offset
//	Byte 4-5: Y offset
//	Byte 6-7: Width
//	Byte 8-9: Height
//	Byte 10+: Pixel data (1-bit packed, row-major)
func (f *DisplayFrame) Encode() []byte {
	headerSize := 10
	buf := make([]byte, headerSize+len(f.Data))

	buf[0] = ReportIDDisplay
	buf[1] = f.Command
	binary.LittleEndian.PutUint16(buf[2:4], f.X)
	binary.LittleEndian.PutUint16(buf[4:6], f.Y)
	binary.LittleEndian.PutUint16(buf[6:8], f.Width)
	binary.LittleEndian.PutUint16(buf[8:10], f.Height)

	if len(f.Data) > 0 {
		copy(buf[headerSize:], f.Data)
	}

	return buf
}

// NewPartialFrame creates a partial frame display update
func NewPartialFrame(x, y, width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdPartial,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Data:    data,
	}
}

// NewClearCommand creates a display clear command
func NewClearCommand() *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdClear,
	}
}
