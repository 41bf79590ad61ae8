package irq

import (
	"sync/atomic"
	"tinykern/device/keyboard"
	"tinykern/kernel/gate"
	"tinykern/kernel/kfmt"
)

func breakpointHandler(regs *gate.Registers) {
	kfmt.Printf("\nEXCEPTION: BREAKPOINT\n")
	regs.DumpTo(kfmt.GetOutputSink())
}

// doubleFaultHandler reports the fault and halts. The CPU does not provide
// a valid return address for a double fault.
func doubleFaultHandler(regs *gate.Registers) {
	kfmt.Printf("\nEXCEPTION: DOUBLE FAULT\n")
	regs.DumpTo(kfmt.GetOutputSink())
	panicFn(errDoubleFault)
}

func timerHandler(_ *gate.Registers) {
	atomic.AddUint64(&ticks, 1)
	controllers.EndOfInterrupt(uint8(Timer.Vector()))
}

// keyboardHandler drains the controller's output buffer before the EOI.
// The controller does not raise another interrupt until the scan code has
// been read, even for key releases that produce no output.
func keyboardHandler(_ *gate.Registers) {
	code := keyboardBus.In8(keyboard.DataPort)
	if ch, ok := keyboard.Translate(code); ok {
		kfmt.Printf("%c", ch)
	}
	controllers.EndOfInterrupt(uint8(Keyboard.Vector()))
}
