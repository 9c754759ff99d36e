// Package irproto is the registry of infrared protocols understood by ir2hid.
//
// Protocol names follow the conventions of common remote databases (NEC,
// NECext, Samsung32, RC5, SIRC, ...). Names are case-sensitive.
package irproto

import "fmt"

// Protocol identifies a decoded infrared protocol
type Protocol int

const (
	Unknown Protocol = iota
	NEC
	NECext
	NEC42
	NEC42ext
	Samsung32
	RC6
	RC5
	RC5X
	SIRC
	SIRC15
	SIRC20
	Kaseikyo
	RCA
	Pioneer
)

var names = [...]string{
	Unknown:   "Unknown",
	NEC:       "NEC",
	NECext:    "NECext",
	NEC42:     "NEC42",
	NEC42ext:  "NEC42ext",
	Samsung32: "Samsung32",
	RC6:       "RC6",
	RC5:       "RC5",
	RC5X:      "RC5X",
	SIRC:      "SIRC",
	SIRC15:    "SIRC15",
	SIRC20:    "SIRC20",
	Kaseikyo:  "Kaseikyo",
	RCA:       "RCA",
	Pioneer:   "Pioneer",
}

var byName = func() map[string]Protocol {
	m := make(map[string]Protocol, len(names))
	for p := NEC; int(p) < len(names); p++ {
		m[names[p]] = p
	}
	return m
}()

// ByName resolves a protocol name. Unknown is returned for anything that is
// not in the registry, including the literal "Unknown".
func ByName(name string) Protocol {
	if p, ok := byName[name]; ok {
		return p
	}
	return Unknown
}

// Valid reports whether p is a registered protocol
func (p Protocol) Valid() bool {
	return p > Unknown && int(p) < len(names)
}

func (p Protocol) String() string {
	if p.Valid() {
		return names[p]
	}
	if p == Unknown {
		return names[Unknown]
	}
	return fmt.Sprintf("unknown(%d)", int(p))
}

// Names returns the registered protocol names in registry order
func Names() []string {
	out := make([]string, 0, len(names)-1)
	for p := NEC; int(p) < len(names); p++ {
		out = append(out, names[p])
	}
	return out
}

// Signature is the addressable identity of a decoded message: the triple that
// names one logical remote button. Signatures compare with ==.
type Signature struct {
	Protocol Protocol
	Address  uint32
	Command  uint32
}

func (s Signature) String() string {
	return fmt.Sprintf("%s/0x%X/0x%X", s.Protocol, s.Address, s.Command)
}
