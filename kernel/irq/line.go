package irq

import (
	"tinykern/kernel/gate"
	"tinykern/kernel/pic"
)

// Line identifies an IRQ line of the chained interrupt controllers.
type Line uint8

const (
	// Timer is the programmable interval timer.
	Timer Line = iota

	// Keyboard is the PS/2 keyboard controller.
	Keyboard
)

// numLines is the number of lines served by the controller chain.
const numLines = 2 * pic.LinesPerController

// Vector returns the interrupt vector raised by the line once the
// controllers have been remapped.
func (l Line) Vector() gate.InterruptNumber {
	if uint8(l) >= pic.LinesPerController {
		return gate.InterruptNumber(pic.SecondaryOffset + uint8(l) - pic.LinesPerController)
	}
	return gate.InterruptNumber(pic.PrimaryOffset + uint8(l))
}

// String implements fmt.Stringer.
func (l Line) String() string {
	switch l {
	case Timer:
		return "timer"
	case Keyboard:
		return "keyboard"
	default:
		return "irq"
	}
}

// lineMask returns the controller masks that enable exactly the supplied
// lines. Enabling a line on the secondary controller also enables the
// cascade line.
func lineMask(lines ...Line) (primary, secondary uint8) {
	primary, secondary = 0xff, 0xff
	for _, l := range lines {
		switch {
		case uint8(l) < pic.LinesPerController:
			primary &^= 1 << l
		case uint8(l) < numLines:
			secondary &^= 1 << (uint8(l) - pic.LinesPerController)
			primary &^= 1 << pic.CascadeLine
		}
	}
	return primary, secondary
}
