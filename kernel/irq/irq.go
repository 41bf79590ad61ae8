// Package irq wires the CPU exceptions and device interrupts serviced by the
// kernel into the vector table and the interrupt controllers.
package irq

import (
	"sync/atomic"
	"tinykern/kernel"
	"tinykern/kernel/cpu"
	"tinykern/kernel/gate"
	"tinykern/kernel/ioport"
	"tinykern/kernel/kfmt"
	"tinykern/kernel/pic"
)

// DoubleFaultStack is the TSS interrupt stack slot used by the double fault
// handler. The boot code must point it at a valid stack before interrupts
// are enabled.
const DoubleFaultStack uint8 = 1

var (
	vectorTable gate.Table
	tableLoaded bool

	controllers            = &pic.Chain{Bus: ioport.CPU}
	keyboardBus ioport.Bus = ioport.CPU

	// bootLines are the lines left unmasked by Init.
	bootLines = []Line{Timer, Keyboard}

	// ticks counts timer interrupts since EnableInterrupts.
	ticks uint64

	// The following functions are mocked by tests.
	installFn           = (*gate.Table).Install
	enableInterruptsFn  = cpu.EnableInterrupts
	interruptsEnabledFn = func() bool { return cpu.InterruptsEnabled(cpu.Flags()) }
	haltFn              = cpu.Halt
	panicFn             = kfmt.Panic

	errTableNotLoaded = &kernel.Error{Module: "irq", Message: "interrupts can not be enabled before the vector table is installed"}
	errDoubleFault    = &kernel.Error{Module: "irq", Message: "double fault"}
)

// buildVectorTable resets t and registers the kernel's exception and device
// handlers. Every other vector is left absent.
func buildVectorTable(t *gate.Table) *kernel.Error {
	if err := t.Reset(); err != nil {
		return err
	}

	for _, spec := range []struct {
		vec   gate.InterruptNumber
		entry gate.Entry
	}{
		// int3 must work from any privilege level.
		{gate.Breakpoint, gate.Entry{Kind: gate.KindException, Handler: breakpointHandler, Resumable: true, DPL: 3}},
		{gate.DoubleFault, gate.Entry{Kind: gate.KindException, Handler: doubleFaultHandler, IST: DoubleFaultStack}},
		{Timer.Vector(), gate.Entry{Kind: gate.KindDevice, Handler: timerHandler}},
		{Keyboard.Vector(), gate.Entry{Kind: gate.KindDevice, Handler: keyboardHandler}},
	} {
		if err := t.Set(spec.vec, spec.entry); err != nil {
			return err
		}
	}

	return nil
}

// Init builds and installs the vector table, then remaps the interrupt
// controllers past the CPU exception vectors with only the timer and
// keyboard lines unmasked. Interrupts stay disabled until EnableInterrupts
// is called.
func Init() *kernel.Error {
	if err := buildVectorTable(&vectorTable); err != nil {
		return err
	}

	installFn(&vectorTable)
	tableLoaded = true

	if err := controllers.Initialize(pic.PrimaryOffset, pic.SecondaryOffset); err != nil {
		return err
	}
	controllers.SetMask(lineMask(bootLines...))

	return nil
}

// EnableInterrupts allows the CPU to service maskable interrupts. It fails if
// the vector table has not been installed by Init.
func EnableInterrupts() *kernel.Error {
	if !tableLoaded {
		return errTableNotLoaded
	}

	enableInterruptsFn()
	return nil
}

// Ticks returns the number of timer interrupts serviced so far.
func Ticks() uint64 {
	return atomic.LoadUint64(&ticks)
}

// SleepTicks halts the CPU until at least n timer interrupts have been
// serviced. It returns immediately if interrupts are disabled.
func SleepTicks(n uint64) {
	if !interruptsEnabledFn() {
		return
	}

	for deadline := Ticks() + n; Ticks() < deadline; {
		haltFn()
	}
}
