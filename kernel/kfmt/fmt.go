package kfmt

import (
	"io"
	"tinykern/kernel/sync"
	"unsafe"
)

// numBufSize bounds the length of a formatted number including its padding.
const numBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	digits = "0123456789abcdef"

	// outputLock serializes all output produced by this package. Interrupt
	// handlers print too, so the lock keeps interrupts disabled while held;
	// a handler can never run in the middle of a foreground Printf.
	outputLock sync.IRQSpinlock

	// earlyPrintBuffer captures Printf output until a sink is attached.
	earlyPrintBuffer ringBuffer

	// outputSink receives the output of Printf. While nil, output goes to
	// earlyPrintBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf to w and flushes any
// output accumulated in the early print buffer to it.
func SetOutputSink(w io.Writer) {
	outputLock.Acquire()
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
	outputLock.Release()
}

// GetOutputSink returns the writer that Printf currently sends its output to.
func GetOutputSink() io.Writer {
	if outputSink == nil {
		return &earlyPrintBuffer
	}

	return outputSink
}

// Printf is a minimal, allocation-free Printf that can be called from
// interrupt handlers and before the Go allocator is available. Each call
// writes its output to the sink as one uninterrupted unit.
//
// The following verbs are supported:
//
//	%s  string or []byte
//	%c  a single byte (uint8) or an ASCII rune
//	%d  integer, base 10
//	%o  integer, base 8
//	%x  integer, base 16 with lower-case letters
//	%t  bool
//
// A decimal width may precede the verb. Strings and base-10 integers are
// left-padded with spaces; base-8 and base-16 integers with zeroes.
//
// Arguments that do not match their verb are reported inline the way fmt
// does (e.g. %!(WRONGTYPE)). Pointers (%p) are not supported as formatting
// them would require reflect.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but writes its output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		verb     byte
	)

	outputLock.Acquire()
	defer outputLock.Release()

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		width = 0
		for i++; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, errNoVerb)
			break
		}

		switch verb = format[i]; verb {
		case '%':
			writeByte(w, '%')
			continue
		case 'c', 'd', 'o', 's', 't', 'x':
		default:
			doWrite(w, errNoVerb)
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		switch arg := args[argIndex]; verb {
		case 'c':
			fmtChar(w, arg)
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'o':
			fmtInt(w, arg, 8, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 's':
			fmtString(w, arg, width)
		case 't':
			fmtBool(w, arg)
		}
		argIndex++
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case b:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

func fmtChar(w io.Writer, v interface{}) {
	switch ch := v.(type) {
	case uint8:
		writeByte(w, ch)
	case int32:
		if ch < 0 || ch > 0x7f {
			doWrite(w, errWrongArgType)
			return
		}
		writeByte(w, byte(ch))
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		pad(w, ' ', width-len(s))
		// Converting s to a []byte would allocate.
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		pad(w, ' ', width-len(s))
		doWrite(w, s)
	default:
		doWrite(w, errWrongArgType)
	}
}

func pad(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt writes v in the requested base. The width includes the sign of
// negative values and is capped to numBufSize-1.
func fmtInt(w io.Writer, v interface{}, base uint64, width int) {
	var (
		mag uint64
		neg bool
	)

	switch n := v.(type) {
	case uint8:
		mag = uint64(n)
	case uint16:
		mag = uint64(n)
	case uint32:
		mag = uint64(n)
	case uint64:
		mag = n
	case uint:
		mag = uint64(n)
	case uintptr:
		mag = uint64(n)
	case int8:
		mag, neg = abs(int64(n))
	case int16:
		mag, neg = abs(int64(n))
	case int32:
		mag, neg = abs(int64(n))
	case int64:
		mag, neg = abs(n)
	case int:
		mag, neg = abs(int64(n))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if width > numBufSize-1 {
		width = numBufSize - 1
	}

	var numBuf [numBufSize]byte

	pos := numBufSize
	for {
		pos--
		numBuf[pos] = digits[mag%base]
		if mag /= base; mag == 0 {
			break
		}
	}

	padCh, signLen := byte('0'), 0
	switch {
	case base == 10 && neg:
		padCh = ' '
		pos--
		numBuf[pos] = '-'
	case base == 10:
		padCh = ' '
	case neg:
		signLen = 1
	}

	for numBufSize-pos+signLen < width {
		pos--
		numBuf[pos] = padCh
	}

	if signLen != 0 {
		pos--
		numBuf[pos] = '-'
	}

	doWrite(w, numBuf[pos:])
}

func abs(n int64) (uint64, bool) {
	if n < 0 {
		return uint64(-n), true
	}
	return uint64(n), false
}

func writeByte(w io.Writer, b byte) {
	buf := [1]byte{b}
	doWrite(w, buf[:])
}

// doWrite hides p from escape analysis before handing it to w. Without it
// the compiler cannot prove that p does not escape through the io.Writer
// interface and heap-allocates the arguments of every Printf call, which
// crashes the kernel when Printf runs inside an interrupt handler.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyPrintBuffer.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. Copied from runtime/stubs.go.
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
