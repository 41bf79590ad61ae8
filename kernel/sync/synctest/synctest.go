// Package synctest lets hosted tests run code that takes a sync.IRQSpinlock.
// Outside ring 0 the CLI instruction faults, so the flag register is
// replaced by an emulation.
package synctest

import (
	"tinykern/kernel/cpu"
	"tinykern/kernel/sync"
)

// CPUFlags emulates the RFLAGS register of a single CPU.
type CPUFlags struct {
	RFlags uint64

	// OnInterruptsEnabled, if set, runs whenever a restore sets the
	// interrupt flag after it was clear. Tests use it to deliver interrupts
	// that were held off while a lock was held, the way the CPU does.
	OnInterruptsEnabled func()
}

// InterruptsEnabled returns true if the emulated interrupt flag is set.
func (f *CPUFlags) InterruptsEnabled() bool {
	return cpu.InterruptsEnabled(f.RFlags)
}

func (f *CPUFlags) saveAndDisable() uint64 {
	prev := f.RFlags
	f.RFlags &^= cpu.FlagInterruptEnable
	return prev
}

func (f *CPUFlags) restore(flags uint64) {
	wasEnabled := f.InterruptsEnabled()
	f.RFlags = flags
	if !wasEnabled && f.InterruptsEnabled() && f.OnInterruptsEnabled != nil {
		f.OnInterruptsEnabled()
	}
}

// EmulateCPUFlags routes sync.IRQSpinlock flag handling to a CPUFlags value
// that starts with interrupts enabled. Calling restore reinstates the
// previous flag functions.
func EmulateCPUFlags() (flags *CPUFlags, restore func()) {
	flags = &CPUFlags{RFlags: 0x2 | cpu.FlagInterruptEnable}
	return flags, sync.SetFlagFuncs(flags.saveAndDisable, flags.restore)
}
