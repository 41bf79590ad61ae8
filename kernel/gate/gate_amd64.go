package gate

//go:generate go run ../../tools/genstubs -out gate_entries_amd64.s

// entryAddr returns the address of the assembly entry stub for vector n.
// Each stub pushes the vector number (and a dummy error code when the CPU
// does not supply one) before jumping to gateCommonEntry.
func entryAddr(n InterruptNumber) uintptr

// gateCommonEntry saves the interrupted context as a Registers value on the
// current stack, calls dispatchInterrupt and returns with IRETQ. It is only
// reachable through the entry stubs.
func gateCommonEntry()

// dispatchInterrupt is called by gateCommonEntry with a pointer to the saved
// register state. It runs with interrupts disabled. Vectors raised before a
// table is installed are reported as unhandled.
//
//go:nosplit
func dispatchInterrupt(regs *Registers) {
	if activeTable == nil {
		reportUnhandled(regs)
		return
	}

	activeTable.Dispatch(regs)
}
