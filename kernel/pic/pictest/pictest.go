// Package pictest provides an emulated pair of cascaded 8259 controllers and
// a PS/2 keyboard controller for testing code that drives them through
// ioport.Bus.
package pictest

// Ports decoded by Emulator.
const (
	PortPrimaryCommand   uint16 = 0x20
	PortPrimaryData      uint16 = 0x21
	PortSecondaryCommand uint16 = 0xa0
	PortSecondaryData    uint16 = 0xa1
	PortKeyboardData     uint16 = 0x60
	PortKeyboardStatus   uint16 = 0x64
	PortPOST             uint16 = 0x80
)

const (
	icw1Init     uint8 = 0x10
	icw1Single   uint8 = 0x02
	icw1NeedICW4 uint8 = 0x01

	ocw2EOI      uint8 = 0x20
	ocw2Specific uint8 = 0x40
	ocw3Select   uint8 = 0x08
	ocw3ReadReg  uint8 = 0x02
	ocw3ReadISR  uint8 = 0x01

	cascadeLine = 2
	keyboardIRQ = 1

	statusOutputFull uint8 = 0x01
)

// Op records a single port access.
type Op struct {
	Write bool
	Port  uint16
	Val   uint8
}

// controller models one 8259.
type controller struct {
	offset  uint8
	cascade uint8
	mode    uint8
	imr     uint8
	irr     uint8
	isr     uint8

	// initStep is the next expected ICW (2-4) or 0 when the controller is
	// operational.
	initStep int
	needICW4 bool
	ready    bool
	readISR  bool
	spurious int
	eoiCount int
}

func (c *controller) writeCommand(val uint8) {
	switch {
	case val&icw1Init != 0:
		*c = controller{initStep: 2, needICW4: val&icw1NeedICW4 != 0}
		if val&icw1Single != 0 {
			c.cascade = 0xff
		}
	case val&0x18 == ocw3Select:
		if val&ocw3ReadReg != 0 {
			c.readISR = val&ocw3ReadISR != 0
		}
	case val&ocw2EOI != 0:
		c.eoiCount++
		if val&ocw2Specific != 0 {
			c.isr &^= 1 << (val & 0x7)
			return
		}

		for line := uint8(0); line < 8; line++ {
			if c.isr&(1<<line) != 0 {
				c.isr &^= 1 << line
				return
			}
		}
		c.spurious++
	}
}

func (c *controller) writeData(val uint8) {
	switch c.initStep {
	case 2:
		c.offset = val &^ 0x7
		c.initStep = 3
		if c.cascade == 0xff {
			c.initStep = 4
		}
		if c.initStep == 4 && !c.needICW4 {
			c.initStep, c.ready = 0, true
		}
	case 3:
		c.cascade = val
		c.initStep = 4
		if !c.needICW4 {
			c.initStep, c.ready = 0, true
		}
	case 4:
		c.mode = val
		c.initStep, c.ready = 0, true
	default:
		c.imr = val
	}
}

func (c *controller) readCommand() uint8 {
	if c.readISR {
		return c.isr
	}
	return c.irr
}

// pending returns the highest priority line that can be delivered under the
// fully nested priority scheme, or -1. A line is deliverable when it is
// requested, unmasked and no line of equal or higher priority is in service.
func (c *controller) pending(cascaded func() bool) int {
	if !c.ready {
		return -1
	}

	for line := 0; line < 8; line++ {
		bit := uint8(1) << uint(line)
		if c.isr&bit != 0 {
			return -1
		}

		if c.imr&bit != 0 {
			continue
		}

		if c.irr&bit != 0 || (cascaded != nil && line == cascadeLine && cascaded()) {
			return line
		}
	}

	return -1
}

// Emulator implements ioport.Bus on top of an emulated primary/secondary
// 8259 pair and a keyboard controller. Its zero value is not usable; use
// New.
type Emulator struct {
	primary   controller
	secondary controller

	// Ops logs every port access in the order it was issued.
	Ops []Op

	kbdData  uint8
	kbdFull  bool
	kbdQueue []uint8
}

// New returns an emulator whose controllers have not been initialized and
// have all lines masked.
func New() *Emulator {
	return &Emulator{
		primary:   controller{imr: 0xff},
		secondary: controller{imr: 0xff},
	}
}

// Out8 implements ioport.Bus.
func (e *Emulator) Out8(port uint16, val uint8) {
	e.Ops = append(e.Ops, Op{Write: true, Port: port, Val: val})

	switch port {
	case PortPrimaryCommand:
		e.primary.writeCommand(val)
	case PortPrimaryData:
		e.primary.writeData(val)
	case PortSecondaryCommand:
		e.secondary.writeCommand(val)
	case PortSecondaryData:
		e.secondary.writeData(val)
	}
}

// In8 implements ioport.Bus.
func (e *Emulator) In8(port uint16) uint8 {
	var val uint8

	switch port {
	case PortPrimaryCommand:
		val = e.primary.readCommand()
	case PortPrimaryData:
		val = e.primary.imr
	case PortSecondaryCommand:
		val = e.secondary.readCommand()
	case PortSecondaryData:
		val = e.secondary.imr
	case PortKeyboardData:
		val = e.kbdData
		e.kbdFull = false
		e.fillKeyboardBuffer()
	case PortKeyboardStatus:
		if e.kbdFull {
			val = statusOutputFull
		}
	}

	e.Ops = append(e.Ops, Op{Port: port, Val: val})
	return val
}

// Raise signals an edge on IRQ line irq (0-15). The request is latched until
// the CPU acknowledges it with Next.
func (e *Emulator) Raise(irq uint8) {
	switch {
	case irq < 8:
		e.primary.irr |= 1 << irq
	case irq < 16:
		e.secondary.irr |= 1 << (irq - 8)
	}
}

// Next emulates the CPU acknowledging the highest priority deliverable
// interrupt. It returns the vector supplied by the controllers and moves the
// request to the in-service register. ok is false if nothing can be
// delivered.
func (e *Emulator) Next() (vector uint8, ok bool) {
	slaveLine := -1
	line := e.primary.pending(func() bool {
		slaveLine = e.secondary.pending(nil)
		return slaveLine >= 0
	})

	switch {
	case line < 0:
		return 0, false
	case line == cascadeLine && slaveLine >= 0 && e.primary.irr&(1<<cascadeLine) == 0:
		bit := uint8(1) << uint(slaveLine)
		e.primary.isr |= 1 << cascadeLine
		e.secondary.isr |= bit
		e.secondary.irr &^= bit
		return e.secondary.offset + uint8(slaveLine), true
	default:
		bit := uint8(1) << uint(line)
		e.primary.isr |= bit
		e.primary.irr &^= bit
		return e.primary.offset + uint8(line), true
	}
}

// PushScancode queues bytes from the keyboard. The first byte is placed in
// the controller's output buffer and IRQ1 is raised; the remaining bytes
// follow, one per read of the data port.
func (e *Emulator) PushScancode(codes ...uint8) {
	e.kbdQueue = append(e.kbdQueue, codes...)
	e.fillKeyboardBuffer()
}

func (e *Emulator) fillKeyboardBuffer() {
	if e.kbdFull || len(e.kbdQueue) == 0 {
		return
	}

	e.kbdData, e.kbdQueue = e.kbdQueue[0], e.kbdQueue[1:]
	e.kbdFull = true
	e.Raise(keyboardIRQ)
}

// KeyboardPending returns the number of scancodes that have not been read
// from the data port yet.
func (e *Emulator) KeyboardPending() int {
	n := len(e.kbdQueue)
	if e.kbdFull {
		n++
	}
	return n
}

// Initialized returns true once both controllers completed their ICW
// sequence.
func (e *Emulator) Initialized() bool {
	return e.primary.ready && e.secondary.ready
}

// Offsets returns the vector offsets programmed with ICW2.
func (e *Emulator) Offsets() (primary, secondary uint8) {
	return e.primary.offset, e.secondary.offset
}

// Cascade returns the values programmed with ICW3.
func (e *Emulator) Cascade() (primary, secondary uint8) {
	return e.primary.cascade, e.secondary.cascade
}

// Modes returns the values programmed with ICW4.
func (e *Emulator) Modes() (primary, secondary uint8) {
	return e.primary.mode, e.secondary.mode
}

// IMR returns the interrupt mask registers.
func (e *Emulator) IMR() (primary, secondary uint8) {
	return e.primary.imr, e.secondary.imr
}

// IRR returns the interrupt request registers.
func (e *Emulator) IRR() (primary, secondary uint8) {
	return e.primary.irr, e.secondary.irr
}

// ISR returns the in-service registers.
func (e *Emulator) ISR() (primary, secondary uint8) {
	return e.primary.isr, e.secondary.isr
}

// EOICount returns the number of EOI commands received by each controller.
func (e *Emulator) EOICount() (primary, secondary int) {
	return e.primary.eoiCount, e.secondary.eoiCount
}

// SpuriousEOICount returns the number of non-specific EOI commands each
// controller received while nothing was in service.
func (e *Emulator) SpuriousEOICount() (primary, secondary int) {
	return e.primary.spurious, e.secondary.spurious
}

// Writes returns the values written to port, in order.
func (e *Emulator) Writes(port uint16) []uint8 {
	var vals []uint8
	for _, op := range e.Ops {
		if op.Write && op.Port == port {
			vals = append(vals, op.Val)
		}
	}
	return vals
}

// ResetOps clears the port access log.
func (e *Emulator) ResetOps() {
	e.Ops = e.Ops[:0]
}
