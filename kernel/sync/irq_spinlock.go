package sync

import "tinykern/kernel/cpu"

var (
	// The following functions are mocked by tests.
	saveFlagsFn    = cpu.SaveFlagsAndDisableInterrupts
	restoreFlagsFn = cpu.RestoreFlags
)

// IRQSpinlock is a Spinlock for state that is shared between interrupt
// handlers and regular kernel code.
//
// Acquire disables interrupts before spinning and Release restores the
// interrupt flag to the value it had before Acquire. While normal-context code
// holds the lock no handler can run on this CPU, so a handler can never spin
// on a lock held by the code it interrupted. Handlers are entered through
// interrupt gates with interrupts already disabled and may acquire the lock
// the same way.
//
// Locks must be released in the reverse order they were acquired.
type IRQSpinlock struct {
	lock  Spinlock
	flags uint64
}

// Acquire disables interrupts and blocks until the lock is available.
func (l *IRQSpinlock) Acquire() {
	flags := saveFlagsFn()
	l.lock.Acquire()
	l.flags = flags
}

// TryToAcquire disables interrupts and attempts to acquire the lock. If the
// lock is already held, the interrupt flag is restored and false is returned.
func (l *IRQSpinlock) TryToAcquire() bool {
	flags := saveFlagsFn()
	if !l.lock.TryToAcquire() {
		restoreFlagsFn(flags)
		return false
	}

	l.flags = flags
	return true
}

// Release relinquishes the lock and restores the interrupt flag that was
// active when the lock was acquired.
func (l *IRQSpinlock) Release() {
	flags := l.flags
	l.lock.Release()
	restoreFlagsFn(flags)
}

// SetFlagFuncs replaces the functions IRQSpinlock uses to save and restore
// the CPU flags register and returns a function that reinstates the previous
// pair. Code running outside ring 0 (such as hosted tests of packages built
// on IRQSpinlock) can not clear the interrupt flag and must install
// emulations before taking a lock.
func SetFlagFuncs(save func() uint64, restore func(uint64)) (undo func()) {
	prevSave, prevRestore := saveFlagsFn, restoreFlagsFn
	saveFlagsFn, restoreFlagsFn = save, restore
	return func() {
		saveFlagsFn, restoreFlagsFn = prevSave, prevRestore
	}
}
