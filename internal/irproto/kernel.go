package irproto

// KernelProto is a Linux rc_proto value as reported in struct lirc_scancode
type KernelProto uint16

// Subset of enum rc_proto from <linux/lirc.h>.
const (
	KernelUnknown  KernelProto = 0
	KernelOther    KernelProto = 1
	KernelRC5      KernelProto = 2
	KernelRC5X20   KernelProto = 3
	KernelRC5SZ    KernelProto = 4
	KernelJVC      KernelProto = 5
	KernelSony12   KernelProto = 6
	KernelSony15   KernelProto = 7
	KernelSony20   KernelProto = 8
	KernelNEC      KernelProto = 9
	KernelNECX     KernelProto = 10
	KernelNEC32    KernelProto = 11
	KernelSanyo    KernelProto = 12
	KernelRC6Mode0 KernelProto = 15
)

// FromKernel maps a kernel scancode to a protocol, address and command.
// Kernel protocols without a registry counterpart yield Unknown with the raw
// scancode split into its upper and lower halves so the value is still
// visible on the status screen.
func FromKernel(proto KernelProto, scancode uint64) (Protocol, uint32, uint32) {
	switch proto {
	case KernelNEC:
		return NEC, uint32(scancode>>8) & 0xff, uint32(scancode) & 0xff
	case KernelNECX:
		return NECext, uint32(scancode>>8) & 0xffff, uint32(scancode) & 0xff
	case KernelNEC32:
		return NECext, uint32(scancode>>16) & 0xffff, uint32(scancode) & 0xffff
	case KernelRC5:
		return RC5, uint32(scancode>>8) & 0x1f, uint32(scancode) & 0x7f
	case KernelRC5X20:
		return RC5X, uint32(scancode>>16) & 0x1f, uint32(scancode>>8) & 0x7f
	case KernelSony12:
		return SIRC, uint32(scancode>>16) & 0x1f, uint32(scancode) & 0x7f
	case KernelSony15:
		return SIRC15, uint32(scancode>>16) & 0xff, uint32(scancode) & 0x7f
	case KernelSony20:
		addr := uint32(scancode>>16)&0x1f | (uint32(scancode>>8)&0xff)<<5
		return SIRC20, addr, uint32(scancode) & 0x7f
	case KernelRC6Mode0:
		return RC6, uint32(scancode>>8) & 0xff, uint32(scancode) & 0xff
	default:
		return Unknown, uint32(scancode >> 32), uint32(scancode)
	}
}
