// Package ioport provides access to the x86 I/O port address space. Drivers
// talk to their hardware through the Bus interface so that the same code can
// run against the CPU's IN/OUT instructions or an emulated device.
package ioport

//go:generate mockgen -destination=mock_ioport/mock_ioport.go -package=mock_ioport tinykern/kernel/ioport Bus

import "tinykern/kernel/cpu"

// PortPOST is the BIOS power-on self test port. Writes to it have no effect
// on modern hardware but take long enough to be used as an I/O delay.
const PortPOST uint16 = 0x80

// Bus is implemented by objects that can service 8-bit port I/O.
type Bus interface {
	// In8 reads a byte from the given port.
	In8(port uint16) uint8

	// Out8 writes a byte to the given port.
	Out8(port uint16, val uint8)
}

// CPU is a Bus that issues IN and OUT instructions.
var CPU Bus = cpuBus{}

type cpuBus struct{}

func (cpuBus) In8(port uint16) uint8       { return cpu.PortReadByte(port) }
func (cpuBus) Out8(port uint16, val uint8) { cpu.PortWriteByte(port, val) }

// Wait gives slow devices time to latch a previous write by issuing a dummy
// write to the POST port.
func Wait(b Bus) {
	b.Out8(PortPOST, 0)
}
