package gate

import (
	"bytes"
	"testing"
)

func TestRegistersDumpTo(t *testing.T) {
	regs := Registers{
		RAX:       1,
		RBX:       2,
		RCX:       3,
		RDX:       4,
		RSI:       5,
		RDI:       6,
		RBP:       7,
		R8:        8,
		R9:        9,
		R10:       10,
		R11:       11,
		R12:       12,
		R13:       13,
		R14:       14,
		R15:       15,
		Info:      8,
		ErrorCode: 0,
		RIP:       16,
		CS:        17,
		RFlags:    18,
		RSP:       19,
		SS:        20,
	}

	exp := "RAX = 0000000000000001 RBX = 0000000000000002\nRCX = 0000000000000003 RDX = 0000000000000004\nRSI = 0000000000000005 RDI = 0000000000000006\nRBP = 0000000000000007\nR8  = 0000000000000008 R9  = 0000000000000009\nR10 = 000000000000000a R11 = 000000000000000b\nR12 = 000000000000000c R13 = 000000000000000d\nR14 = 000000000000000e R15 = 000000000000000f\n\nVEC = 0000000000000008 ERR = 0000000000000000\nRIP = 0000000000000010 CS  = 0000000000000011\nRSP = 0000000000000013 SS  = 0000000000000014\nRFL = 0000000000000012\n"

	var buf bytes.Buffer
	regs.DumpTo(&buf)

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}

	if got := regs.Vector(); got != DoubleFault {
		t.Fatalf("expected Vector() to return %d; got %d", DoubleFault, got)
	}
}
