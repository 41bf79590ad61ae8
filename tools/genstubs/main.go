// Command genstubs generates the amd64 interrupt entry stubs used by the gate
// package. Every stub normalizes the stack frame (by pushing a dummy error
// code for vectors where the CPU does not push one), pushes its vector number
// and jumps to the common entry point. The generated file also contains the
// table of stub addresses that is used to populate IDT gates.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
)

const numVectors = 256

// errorCodeVectors lists the exceptions for which the CPU pushes an error
// code. It must agree with gate.HasErrorCode.
var errorCodeVectors = map[int]bool{
	8:  true, // double fault
	10: true, // invalid TSS
	11: true, // segment not present
	12: true, // stack segment fault
	13: true, // general protection fault
	14: true, // page fault
	17: true, // alignment check
	21: true, // control protection
	29: true, // VMM communication
	30: true, // security
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[genstubs] error: %s\n", err.Error())
	os.Exit(1)
}

func genStubs() []byte {
	var buf bytes.Buffer

	fmt.Fprint(&buf, "// Code generated by genstubs; DO NOT EDIT.\n\n")
	fmt.Fprint(&buf, "#include \"textflag.h\"\n")

	for vec := 0; vec < numVectors; vec++ {
		fmt.Fprintf(&buf, "\nTEXT ·gateEntry%d(SB),NOSPLIT|NOFRAME,$0\n", vec)
		if !errorCodeVectors[vec] {
			fmt.Fprint(&buf, "\tPUSHQ $0 // dummy error code\n")
		}
		fmt.Fprintf(&buf, "\tPUSHQ $%d\n", vec)
		fmt.Fprint(&buf, "\tJMP ·gateCommonEntry(SB)\n")
	}

	fmt.Fprint(&buf, "\n")
	for vec := 0; vec < numVectors; vec++ {
		fmt.Fprintf(&buf, "DATA gateEntryAddrs<>+%d(SB)/8, $·gateEntry%d(SB)\n", vec*8, vec)
	}
	fmt.Fprintf(&buf, "GLOBL gateEntryAddrs<>(SB), RODATA, $%d\n", numVectors*8)

	fmt.Fprint(&buf, `
// func entryAddr(n InterruptNumber) uintptr
TEXT ·entryAddr(SB),NOSPLIT,$0-16
	MOVBQZX n+0(FP), AX
	MOVQ $gateEntryAddrs<>(SB), BX
	MOVQ (BX)(AX*8), AX
	MOVQ AX, ret+8(FP)
	RET
`)

	return buf.Bytes()
}

func main() {
	out := flag.String("out", "gate_entries_amd64.s", "the file to write the generated stubs to")
	flag.Parse()

	if err := os.WriteFile(*out, genStubs(), 0644); err != nil {
		exit(err)
	}
}
