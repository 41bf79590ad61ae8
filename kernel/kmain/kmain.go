package kmain

import (
	"tinykern/kernel"
	"tinykern/kernel/cpu"
	"tinykern/kernel/hal"
	"tinykern/kernel/irq"
	"tinykern/kernel/kfmt"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// The following functions are mocked by tests.
	detectHardwareFn   = hal.DetectHardware
	activeTTYFn        = hal.ActiveTTY
	irqInitFn          = irq.Init
	enableInterruptsFn = irq.EnableInterrupts
	haltFn             = cpu.Halt
	panicFn            = kfmt.Panic

	// idleFn runs the idle loop. It only returns in tests.
	idleFn = idle
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code
// after setting up the GDT, the TSS (including the double fault stack) and a
// minimal g0 struct that allows Go code to run.
//
// Kmain brings up the diagnostic console, installs the interrupt vector
// table, remaps the interrupt controllers and enables interrupts before
// showing the startup splash and entering the idle loop.
//
// Kmain is not expected to return. If it does, the kernel panics.
//
//go:noinline
func Kmain() {
	detectHardwareFn()

	if err := irqInitFn(); err != nil {
		panicFn(err)
		return
	}

	if err := enableInterruptsFn(); err != nil {
		panicFn(err)
		return
	}

	term := activeTTYFn()
	if term != nil {
		playSplash(term)
	}
	printBanner(term)

	idleFn()

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating it as dead-code and eliminating it.
	panicFn(errKmainReturned)
}

// idle halts the CPU until the next interrupt, forever.
func idle() {
	for {
		haltFn()
	}
}
