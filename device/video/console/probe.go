package console

import (
	"tinykern/device"
	"tinykern/kernel/ioport"
	"unsafe"
)

var (
	// The following are mocked by tests.
	probeBus         = ioport.CPU
	mapFramebufferFn = mapFramebuffer
)

// mapFramebuffer returns a slice backed by count 16-bit cells starting at
// addr. The boot code identity-maps the low 1M of physical memory.
func mapFramebuffer(addr uintptr, count uint32) []uint16 {
	return unsafe.Slice((*uint16)(unsafe.Pointer(addr)), count)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderConsole,
		Probe: probeForVgaTextConsole,
	})
}
