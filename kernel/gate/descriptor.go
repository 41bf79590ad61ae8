package gate

// KernelCodeSelector is the GDT selector of the 64-bit kernel code segment
// set up by the boot code. All gates transfer control to this segment.
const KernelCodeSelector uint16 = 0x08

// MaxIST is the highest interrupt stack table index supported by the TSS.
const MaxIST = 7

const (
	// gateTypeInterrupt clears IF on entry so handlers run with
	// interrupts disabled.
	gateTypeInterrupt uint8 = 0xe

	attrPresent uint8 = 1 << 7
	attrDPLMask uint8 = 3 << 5
	attrDPLShft       = 5
	istMask     uint8 = 7
)

// Descriptor is the 16-byte hardware representation of an IDT gate.
type Descriptor struct {
	OffsetLow  uint16
	Selector   uint16
	IST        uint8
	TypeAttr   uint8
	OffsetMid  uint16
	OffsetHigh uint32
	reserved   uint32
}

// Present returns true if the gate's present bit is set. Raising a vector
// whose gate is not present causes a #NP fault.
func (d Descriptor) Present() bool {
	return d.TypeAttr&attrPresent != 0
}

// Offset returns the address of the entry point referenced by the gate.
func (d Descriptor) Offset() uintptr {
	return uintptr(d.OffsetLow) | uintptr(d.OffsetMid)<<16 | uintptr(d.OffsetHigh)<<32
}

// DPL returns the descriptor privilege level.
func (d Descriptor) DPL() uint8 {
	return (d.TypeAttr & attrDPLMask) >> attrDPLShft
}

// StackIndex returns the IST slot used by the gate; 0 means the CPU stays on
// the current stack.
func (d Descriptor) StackIndex() uint8 {
	return d.IST & istMask
}

// setInterruptGate turns d into a present 64-bit interrupt gate.
func (d *Descriptor) setInterruptGate(addr uintptr, ist, dpl uint8) {
	*d = Descriptor{
		OffsetLow:  uint16(addr),
		Selector:   KernelCodeSelector,
		IST:        ist & istMask,
		TypeAttr:   attrPresent | (dpl<<attrDPLShft)&attrDPLMask | gateTypeInterrupt,
		OffsetMid:  uint16(addr >> 16),
		OffsetHigh: uint32(addr >> 32),
	}
}
