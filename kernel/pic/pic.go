// Package pic drives a pair of cascaded 8259 programmable interrupt
// controllers.
package pic

import (
	"tinykern/kernel"
	"tinykern/kernel/ioport"
	"tinykern/kernel/sync"
)

// Controller ports.
const (
	PrimaryCommand   uint16 = 0x20
	PrimaryData      uint16 = 0x21
	SecondaryCommand uint16 = 0xa0
	SecondaryData    uint16 = 0xa1
)

// Default vector offsets. The first 32 vectors are reserved for CPU
// exceptions.
const (
	PrimaryOffset   uint8 = 32
	SecondaryOffset       = PrimaryOffset + LinesPerController
)

const (
	// LinesPerController is the number of IRQ lines served by one 8259.
	LinesPerController uint8 = 8

	// CascadeLine is the primary controller line wired to the secondary.
	CascadeLine uint8 = 2
)

// Command words.
const (
	icw1Init     uint8 = 0x10
	icw1NeedICW4 uint8 = 0x01
	icw4Mode8086 uint8 = 0x01

	cmdEndOfInterrupt uint8 = 0x20
)

var (
	errOffsetReserved = &kernel.Error{Module: "pic", Message: "vector offsets must not overlap the CPU exception range"}
	errOffsetLayout   = &kernel.Error{Module: "pic", Message: "secondary offset must directly follow the primary offset"}
	errOffsetAlign    = &kernel.Error{Module: "pic", Message: "vector offsets must be multiples of 8"}
)

// Controller describes one 8259 in the chain.
type Controller struct {
	command uint16
	data    uint16

	// offset is the vector raised for line 0.
	offset uint8

	// mask caches the last value written to the IMR. Set bits disable
	// the matching line.
	mask uint8
}

// handles returns true if vector maps to one of the controller's lines.
func (c *Controller) handles(vector uint8) bool {
	return vector >= c.offset && vector < c.offset+LinesPerController
}

// Chain is a primary 8259 with a secondary cascaded on CascadeLine. All
// methods are safe to call from interrupt handlers and from regular kernel
// code.
type Chain struct {
	// Bus services the controllers' port I/O.
	Bus ioport.Bus

	lock      sync.IRQSpinlock
	primary   Controller
	secondary Controller
}

// Initialize remaps the controllers so that the primary raises vectors
// offset1..offset1+7 and the secondary raises offset2..offset2+7. Both
// controllers are left fully masked.
func (c *Chain) Initialize(offset1, offset2 uint8) *kernel.Error {
	switch {
	case offset1 < 32 || offset2 < 32:
		return errOffsetReserved
	case offset1%LinesPerController != 0 || offset2%LinesPerController != 0:
		return errOffsetAlign
	case offset1 > 0xff-2*LinesPerController+1 || offset2 != offset1+LinesPerController:
		return errOffsetLayout
	}

	c.lock.Acquire()
	defer c.lock.Release()

	c.primary = Controller{command: PrimaryCommand, data: PrimaryData, offset: offset1}
	c.secondary = Controller{command: SecondaryCommand, data: SecondaryData, offset: offset2}

	// ICW1: start the init sequence in cascade mode.
	c.write(c.primary.command, icw1Init|icw1NeedICW4)
	c.write(c.secondary.command, icw1Init|icw1NeedICW4)

	// ICW2: vector offsets.
	c.write(c.primary.data, offset1)
	c.write(c.secondary.data, offset2)

	// ICW3: the primary gets a bitmask of lines with a secondary attached
	// while the secondary gets its cascade identity.
	c.write(c.primary.data, 1<<CascadeLine)
	c.write(c.secondary.data, CascadeLine)

	// ICW4
	c.write(c.primary.data, icw4Mode8086)
	c.write(c.secondary.data, icw4Mode8086)

	c.setMask(0xff, 0xff)
	return nil
}

// SetMask writes the interrupt mask registers of both controllers. Mask
// updates have no effect before Initialize is called.
func (c *Chain) SetMask(primary, secondary uint8) {
	c.lock.Acquire()
	if c.initialized() {
		c.setMask(primary, secondary)
	}
	c.lock.Release()
}

// Mask returns the cached mask registers of both controllers.
func (c *Chain) Mask() (primary, secondary uint8) {
	c.lock.Acquire()
	primary, secondary = c.primary.mask, c.secondary.mask
	c.lock.Release()
	return primary, secondary
}

// MaskLine disables IRQ line irq (0-15).
func (c *Chain) MaskLine(irq uint8) {
	c.updateLine(irq, true)
}

// UnmaskLine enables IRQ line irq (0-15). Lines on the secondary controller
// also need the cascade line unmasked to reach the CPU.
func (c *Chain) UnmaskLine(irq uint8) {
	c.updateLine(irq, false)
}

// EndOfInterrupt acknowledges the interrupt that raised vector. Vectors
// served by the secondary controller need an EOI on both controllers; the
// secondary is acknowledged first. Vectors that do not belong to the chain
// are ignored.
func (c *Chain) EndOfInterrupt(vector uint8) {
	c.lock.Acquire()
	defer c.lock.Release()

	switch {
	case !c.initialized():
	case c.secondary.handles(vector):
		c.Bus.Out8(c.secondary.command, cmdEndOfInterrupt)
		c.Bus.Out8(c.primary.command, cmdEndOfInterrupt)
	case c.primary.handles(vector):
		c.Bus.Out8(c.primary.command, cmdEndOfInterrupt)
	}
}

// Handles returns true if vector is raised by one of the chained
// controllers. It always returns false before Initialize is called.
func (c *Chain) Handles(vector uint8) bool {
	c.lock.Acquire()
	handles := c.initialized() && (c.primary.handles(vector) || c.secondary.handles(vector))
	c.lock.Release()
	return handles
}

func (c *Chain) updateLine(irq uint8, masked bool) {
	if irq >= 2*LinesPerController {
		return
	}

	c.lock.Acquire()
	defer c.lock.Release()

	if !c.initialized() {
		return
	}

	ctrl, bit := &c.primary, irq
	if irq >= LinesPerController {
		ctrl, bit = &c.secondary, irq-LinesPerController
	}

	if masked {
		ctrl.mask |= 1 << bit
	} else {
		ctrl.mask &^= 1 << bit
	}
	c.Bus.Out8(ctrl.data, ctrl.mask)
}

func (c *Chain) initialized() bool {
	return c.primary.command != 0
}

func (c *Chain) setMask(primary, secondary uint8) {
	c.primary.mask, c.secondary.mask = primary, secondary
	c.Bus.Out8(c.primary.data, primary)
	c.Bus.Out8(c.secondary.data, secondary)
}

// write outputs an init command word and waits for the controller to latch
// it.
func (c *Chain) write(port uint16, val uint8) {
	c.Bus.Out8(port, val)
	ioport.Wait(c.Bus)
}
