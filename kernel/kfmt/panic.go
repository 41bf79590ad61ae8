package kfmt

import (
	"tinykern/kernel"
	"tinykern/kernel/cpu"
	"tinykern/kernel/sync"
)

// Text attributes used for the panic banner (red on black).
const (
	panicFg uint8 = 4
	panicBg uint8 = 0
)

var (
	// The following functions are mocked by tests.
	disableInterruptsFn = cpu.DisableInterrupts
	haltFn              = haltForever

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// colorSetter is implemented by sinks that can change the attributes of
// subsequently written text.
type colorSetter interface {
	SetColors(fg, bg uint8)
}

// Panic disables interrupts, outputs the supplied error (if not nil) to the
// active sink and halts the CPU. Calls to Panic never return.
func Panic(e interface{}) {
	var err *kernel.Error

	disableInterruptsFn()

	// The CPU never returns to the code that was interrupted by the panic,
	// so a print it left half-done must not keep the report from going out.
	outputLock = sync.IRQSpinlock{}

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if cs, ok := outputSink.(colorSetter); ok {
		cs.SetColors(panicFg, panicBg)
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	haltFn()
}

// haltForever parks the CPU. With interrupts disabled only an NMI can wake
// it, in which case it halts again.
func haltForever() {
	for {
		cpu.Halt()
	}
}
