package gate

// InterruptNumber describes an x86 interrupt/exception/trap slot.
type InterruptNumber uint8

// NumVectors is the number of slots in the interrupt descriptor table.
const NumVectors = 256

const (
	// DivideByZero occurs when dividing any number by 0 using the DIV or
	// IDIV instruction.
	DivideByZero = InterruptNumber(0)

	// Debug is raised by hardware breakpoints and single-stepping.
	Debug = InterruptNumber(1)

	// NMI (non-maskable-interrupt) is a hardware interrupt that indicates
	// issues with RAM or unrecoverable hardware problems.
	NMI = InterruptNumber(2)

	// Breakpoint is raised by the INT3 instruction.
	Breakpoint = InterruptNumber(3)

	// Overflow is raised by INTO when the overflow flag is set.
	Overflow = InterruptNumber(4)

	// InvalidOpcode occurs when the CPU attempts to execute an invalid or
	// undefined instruction opcode.
	InvalidOpcode = InterruptNumber(6)

	// DoubleFault occurs when the CPU fails to invoke an exception
	// handler, e.g. because its gate is not present, or when an exception
	// occurs while the CPU is invoking another exception handler.
	DoubleFault = InterruptNumber(8)

	// InvalidTSS occurs when the TSS points to an invalid task segment
	// selector.
	InvalidTSS = InterruptNumber(10)

	// SegmentNotPresent occurs when the CPU attempts to use a segment or
	// gate whose present bit is clear.
	SegmentNotPresent = InterruptNumber(11)

	// StackSegmentFault occurs on stack segment limit or canonical
	// address violations.
	StackSegmentFault = InterruptNumber(12)

	// GPFException occurs when a general protection fault occurs.
	GPFException = InterruptNumber(13)

	// PageFaultException occurs when a page table entry is not present or
	// when a privilege and/or RW protection check fails.
	PageFaultException = InterruptNumber(14)

	// AlignmentCheck occurs when alignment checks are enabled and an
	// unaligned memory access is performed.
	AlignmentCheck = InterruptNumber(17)

	// ControlProtection is raised by CET control-flow violations.
	ControlProtection = InterruptNumber(21)

	// VMMCommunication and Security are raised by SEV and SVM guests.
	VMMCommunication = InterruptNumber(29)
	Security         = InterruptNumber(30)

	// FirstExternalVector is the first vector that is not reserved for CPU
	// exceptions.
	FirstExternalVector = InterruptNumber(32)
)

// HasErrorCode returns true if the CPU pushes an error code to the stack when
// raising the exception with number n. The entry stubs push a dummy code for
// all other vectors so every handler sees the same frame layout.
func HasErrorCode(n InterruptNumber) bool {
	switch n {
	case DoubleFault, InvalidTSS, SegmentNotPresent, StackSegmentFault,
		GPFException, PageFaultException, AlignmentCheck,
		ControlProtection, VMMCommunication, Security:
		return true
	}

	return false
}

// IsException returns true if n falls in the range reserved for CPU
// exceptions.
func IsException(n InterruptNumber) bool {
	return n < FirstExternalVector
}
