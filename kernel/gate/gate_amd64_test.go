package gate

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"
	"tinykern/kernel/kfmt"
)

func TestEntryAddr(t *testing.T) {
	seen := make(map[uintptr]InterruptNumber, NumVectors)
	for vec := 0; vec < NumVectors; vec++ {
		n := InterruptNumber(vec)
		addr := entryAddr(n)
		if addr == 0 {
			t.Fatalf("expected entry stub for vector %d to have a non-zero address", vec)
		}

		if other, exists := seen[addr]; exists {
			t.Fatalf("vectors %d and %d share entry stub address 0x%x", other, vec, addr)
		}
		seen[addr] = n
	}
}

// TestEntryStubsMatchErrorCodeVectors ensures that the generated stubs only
// push a dummy error code for vectors where the CPU does not push one.
func TestEntryStubsMatchErrorCodeVectors(t *testing.T) {
	f, err := os.Open("gate_entries_amd64.s")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var (
		curVector = -1
		pushes    = make(map[int]bool)
		scanner   = bufio.NewScanner(f)
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "TEXT ·gateEntry"):
			num := strings.TrimPrefix(line, "TEXT ·gateEntry")
			num = num[:strings.Index(num, "(")]
			if curVector, err = strconv.Atoi(num); err != nil {
				t.Fatal(err)
			}
		case strings.HasSuffix(line, "// dummy error code"):
			pushes[curVector] = true
		}
	}

	for vec := 0; vec < NumVectors; vec++ {
		if exp := !HasErrorCode(InterruptNumber(vec)); pushes[vec] != exp {
			t.Errorf("vector %d: expected dummy error code push to be %t; got %t", vec, exp, pushes[vec])
		}
	}
}

func TestDispatchInterruptWithoutTable(t *testing.T) {
	defer func(origTable *Table) { activeTable = origTable }(activeTable)
	activeTable = nil

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	regs := Registers{Info: uint64(FirstExternalVector)}
	fatalErr, returned := runUntilHalt(func() { dispatchInterrupt(&regs) })

	if returned {
		t.Fatal("expected dispatch without an installed table to never return")
	}

	if fatalErr != errUnhandledVector {
		t.Fatalf("expected fatal error %v; got %v", errUnhandledVector, fatalErr)
	}

	if got := buf.String(); !strings.Contains(got, "unhandled interrupt vector 32") {
		t.Fatalf("expected a diagnostic report; got:\n%s", got)
	}
}
