package kfmt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"tinykern/kernel/sync/synctest"
)

func TestPrintf(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	// mute vet warnings about malformed printf formatting strings
	printfn := Printf

	specs := []struct {
		fn        func()
		expOutput string
	}{
		{
			func() { printfn("no args") },
			"no args",
		},
		// bool values
		{
			func() { printfn("%t", true) },
			"true",
		},
		{
			func() { printfn("%41t", false) },
			"false",
		},
		// chars
		{
			func() { printfn("key: '%c'", byte('a')) },
			"key: 'a'",
		},
		{
			func() { printfn("key: '%c'", ' ') },
			"key: ' '",
		},
		{
			func() { printfn("%c", 'ü') },
			"%!(WRONGTYPE)",
		},
		// strings and byte slices
		{
			func() { printfn("%s arg", "STRING") },
			"STRING arg",
		},
		{
			func() { printfn("%s arg", []byte("BYTE SLICE")) },
			"BYTE SLICE arg",
		},
		{
			func() { printfn("'%4s' arg with padding", "ABC") },
			"' ABC' arg with padding",
		},
		{
			func() { printfn("'%4s' arg longer than padding", "ABCDE") },
			"'ABCDE' arg longer than padding",
		},
		// uints
		{
			func() { printfn("vector: %d", uint8(33)) },
			"vector: 33",
		},
		{
			func() { printfn("uint arg: %o", uint16(0777)) },
			"uint arg: 777",
		},
		{
			func() { printfn("mask: 0x%2x", uint8(0xc)) },
			"mask: 0x0c",
		},
		{
			func() { printfn("uint arg with padding: '%10d'", uint64(123)) },
			"uint arg with padding: '       123'",
		},
		{
			func() { printfn("RIP = %16x", uint64(0x10a3f0)) },
			"RIP = 000000000010a3f0",
		},
		{
			func() { printfn("uint arg longer than padding: '0x%5x'", int64(0xbadf00d)) },
			"uint arg longer than padding: '0xbadf00d'",
		},
		{
			func() { printfn("uintptr 0x%x", uintptr(0xb8000)) },
			"uintptr 0xb8000",
		},
		// ints
		{
			func() { printfn("int arg: %d", int8(-10)) },
			"int arg: -10",
		},
		{
			func() { printfn("int arg: %d", 0) },
			"int arg: 0",
		},
		{
			func() { printfn("int arg: %x", int32(-0xbadf00d)) },
			"int arg: -badf00d",
		},
		{
			func() { printfn("int arg with padding: '%10d'", int64(-12345678)) },
			"int arg with padding: ' -12345678'",
		},
		{
			func() { printfn("int arg with padding: '%10d'", int64(-1234567890)) },
			"int arg with padding: '-1234567890'",
		},
		{
			func() { printfn("int arg with padding: '%10x'", int64(-0xbadf00d)) },
			"int arg with padding: '-00badf00d'",
		},
		{
			func() { printfn("padding longer than numBufSize '%128x'", int(-0xbadf00d)) },
			fmt.Sprintf("padding longer than numBufSize '-%sbadf00d'", strings.Repeat("0", numBufSize-9)),
		},
		// multiple arguments
		{
			func() { printfn("%%%s%d%t", "foo", 123, true) },
			`%foo123true`,
		},
		// errors
		{
			func() { printfn("more args", "foo", "bar", "baz") },
			`more args%!(EXTRA)%!(EXTRA)%!(EXTRA)`,
		},
		{
			func() { printfn("missing args %s") },
			`missing args (MISSING)`,
		},
		{
			func() { printfn("bad verb %Q") },
			`bad verb %!(NOVERB)`,
		},
		{
			func() { printfn("trailing %") },
			`trailing %!(NOVERB)`,
		},
		{
			func() { printfn("not bool %t", "foo") },
			`not bool %!(WRONGTYPE)`,
		},
		{
			func() { printfn("not int %d", "foo") },
			`not int %!(WRONGTYPE)`,
		},
		{
			func() { printfn("not string %s", 123) },
			`not string %!(WRONGTYPE)`,
		},
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)

	for specIndex, spec := range specs {
		buf.Reset()
		spec.fn()

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestPrintfToRingBuffer(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	outputSink = nil
	earlyPrintBuffer.rIndex, earlyPrintBuffer.wIndex = 0, 0

	exp := "early output before the tty is attached"
	Printf("early output %s", "before the tty is attached")

	if GetOutputSink() != &earlyPrintBuffer {
		t.Fatal("expected GetOutputSink to return the early print buffer while no sink is set")
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}

	if GetOutputSink() != &buf {
		t.Fatal("expected GetOutputSink to return the attached sink")
	}
}

func TestFprintf(t *testing.T) {
	var buf bytes.Buffer

	exp := "hello world"
	Fprintf(&buf, exp)

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}

// preemptedSink simulates an interrupt request that arrives while the first
// byte of a print is being written. The bytes are recorded after the
// interrupt got its chance to run.
type preemptedSink struct {
	bytes.Buffer
	interrupt func()
	fired     bool
}

func (s *preemptedSink) Write(p []byte) (int, error) {
	if !s.fired {
		s.fired = true
		s.interrupt()
	}

	return s.Buffer.Write(p)
}

func TestPrintfHoldsOffInterrupts(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	flags, restore := synctest.EmulateCPUFlags()
	defer restore()

	var pending, handled bool
	handler := func() {
		handled = true
		Printf("%c%d", byte('k'), 7)
	}
	flags.OnInterruptsEnabled = func() {
		if pending {
			pending = false
			handler()
		}
	}

	sink := &preemptedSink{
		interrupt: func() {
			if flags.InterruptsEnabled() {
				handler()
				return
			}
			pending = true
		},
	}
	outputSink = sink

	Printf("%c%d", byte('X'), 42)

	if !handled {
		t.Fatal("expected the held off interrupt to be delivered once Printf returned")
	}

	if exp, got := "X42k7", sink.String(); got != exp {
		t.Fatalf("expected output %q; got %q", exp, got)
	}

	if !flags.InterruptsEnabled() {
		t.Fatal("expected interrupts to be enabled after Printf returned")
	}
}
