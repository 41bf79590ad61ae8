package gate

import (
	"tinykern/kernel"
	"tinykern/kernel/cpu"
	"tinykern/kernel/kfmt"
	"unsafe"
)

// Kind identifies the calling contract of a vector table entry.
type Kind uint8

const (
	// KindAbsent marks an unused vector. Its gate is not present and
	// raising it ends in a double fault.
	KindAbsent Kind = iota

	// KindException marks a CPU exception handler. If the entry is not
	// Resumable the kernel halts after the handler returns.
	KindException

	// KindDevice marks a hardware interrupt handler. The handler must
	// drain its device and acknowledge the interrupt controller before
	// returning.
	KindDevice
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindException:
		return "exception"
	case KindDevice:
		return "device"
	default:
		return "absent"
	}
}

// Handler services an interrupt. Changes to the supplied Registers are
// restored to the CPU when the handler returns to a resumable context.
type Handler func(*Registers)

// Entry describes a single vector table slot.
type Entry struct {
	Kind    Kind
	Handler Handler

	// Resumable reports whether an exception handler may return to the
	// interrupted instruction stream. Ignored for device entries.
	Resumable bool

	// IST selects a TSS interrupt stack (1-7) for the handler; 0 keeps
	// the current stack.
	IST uint8

	// DPL is the lowest privilege level (numerically highest) from which
	// the vector may be raised with an INT instruction.
	DPL uint8
}

var (
	// The following functions are mocked by tests.
	loadIDTFn   = cpu.LoadIDT
	entryAddrFn = entryAddr
	fatalFn     = kfmt.Panic

	// activeTable is the table most recently loaded with Install.
	activeTable *Table

	errTableInstalled  = &kernel.Error{Module: "gate", Message: "vector table is read-only once installed"}
	errNilHandler      = &kernel.Error{Module: "gate", Message: "present vector requires a handler"}
	errNotAnException  = &kernel.Error{Module: "gate", Message: "exception handlers can only use vectors 0-31"}
	errReservedVector  = &kernel.Error{Module: "gate", Message: "device handlers can not use vectors reserved for CPU exceptions"}
	errInvalidIST      = &kernel.Error{Module: "gate", Message: "interrupt stack index out of range"}
	errInvalidDPL      = &kernel.Error{Module: "gate", Message: "privilege level out of range"}
	errUnhandledVector = &kernel.Error{Module: "gate", Message: "unhandled interrupt vector"}
	errNonResumable    = &kernel.Error{Module: "gate", Message: "returned from non-resumable exception"}
)

// Table is the kernel's interrupt vector table. It keeps the Go-side entry
// for every vector next to the hardware descriptor loaded into the CPU.
//
// A Table is populated with Set, loaded with Install and is read-only from
// then on. The zero value has every vector absent.
type Table struct {
	entries   [NumVectors]Entry
	descs     [NumVectors]Descriptor
	installed bool
}

// Reset marks every vector as absent.
func (t *Table) Reset() *kernel.Error {
	if t.installed {
		return errTableInstalled
	}

	for i := range t.entries {
		t.entries[i] = Entry{}
		t.descs[i] = Descriptor{}
	}

	return nil
}

// Set installs e as the entry for vector n and points the vector's gate at
// the matching entry stub. Passing an entry of KindAbsent clears the vector.
func (t *Table) Set(n InterruptNumber, e Entry) *kernel.Error {
	switch {
	case t.installed:
		return errTableInstalled
	case e.Kind == KindAbsent:
		t.entries[n], t.descs[n] = Entry{}, Descriptor{}
		return nil
	case e.Handler == nil:
		return errNilHandler
	case e.Kind == KindException && !IsException(n):
		return errNotAnException
	case e.Kind == KindDevice && IsException(n):
		return errReservedVector
	case e.IST > MaxIST:
		return errInvalidIST
	case e.DPL > 3:
		return errInvalidDPL
	}

	t.entries[n] = e
	t.descs[n].setInterruptGate(entryAddrFn(n), e.IST, e.DPL)
	return nil
}

// Entry returns the entry for vector n.
func (t *Table) Entry(n InterruptNumber) Entry {
	return t.entries[n]
}

// Descriptor returns the hardware gate descriptor for vector n.
func (t *Table) Descriptor(n InterruptNumber) Descriptor {
	return t.descs[n]
}

// Installed returns true once the table has been loaded into the CPU.
func (t *Table) Installed() bool {
	return t.installed
}

// Install loads the table into the CPU's IDTR and makes it the target of
// all subsequent interrupt dispatches. Installing the same table again
// reloads the IDTR.
func (t *Table) Install() {
	t.installed = true
	activeTable = t
	loadIDTFn(uintptr(unsafe.Pointer(&t.descs[0])), uint16(unsafe.Sizeof(t.descs)-1))
}

// Dispatch invokes the handler registered for the vector recorded in regs.
//
// Resumable exceptions and device interrupts return to the caller, which
// resumes the interrupted context. Non-resumable exceptions and vectors
// without a handler are fatal: the kernel reports them and halts.
func (t *Table) Dispatch(regs *Registers) {
	e := &t.entries[regs.Vector()]

	switch e.Kind {
	case KindException:
		e.Handler(regs)
		if !e.Resumable {
			fatalFn(errNonResumable)
		}
	case KindDevice:
		e.Handler(regs)
	default:
		reportUnhandled(regs)
	}
}

// reportUnhandled prints the state of a vector that has no handler and halts.
func reportUnhandled(regs *Registers) {
	kfmt.Printf("\nunhandled interrupt vector %d\n", uint8(regs.Info))
	regs.DumpTo(kfmt.GetOutputSink())
	fatalFn(errUnhandledVector)
}
