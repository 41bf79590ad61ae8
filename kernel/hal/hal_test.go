package hal

import (
	"io"
	"strings"
	"testing"
	"tinykern/device"
	"tinykern/device/tty"
	"tinykern/device/video/console"
	"tinykern/kernel"
	"tinykern/kernel/kfmt"
)

func TestProbe(t *testing.T) {
	defer func() {
		devices = managedDevices{}
		kfmt.SetOutputSink(nil)
	}()

	cons := newFakeConsole(80, 25)
	errInit := &kernel.Error{Module: "test", Message: "device not responding"}

	probe(device.DriverInfoList{
		{Order: device.DetectOrderEarly, Probe: func() device.Driver { return nil }},
		{Order: device.DetectOrderConsole, Probe: func() device.Driver { return cons }},
		{Order: device.DetectOrderConsole, Probe: func() device.Driver { return newFakeConsole(40, 25) }},
		{Order: device.DetectOrderNormal, Probe: func() device.Driver { return &brokenDriver{err: errInit} }},
		{Order: device.DetectOrderLast, Probe: func() device.Driver { return tty.NewVT(tty.DefaultTabWidth, 0) }},
	})

	if len(devices.activeDrivers) != 3 {
		t.Fatalf("expected 3 initialized drivers; got %d", len(devices.activeDrivers))
	}

	if devices.activeConsole != cons {
		t.Fatal("expected the first detected console to become the active console")
	}

	term := ActiveTTY()
	if term == nil {
		t.Fatal("expected a TTY to be attached")
	}

	if term.State() != tty.StateActive || kfmt.GetOutputSink() != io.Writer(term) {
		t.Fatal("expected the TTY to become active and receive kfmt output")
	}

	kfmt.Printf("hello")

	expLines := []string{
		"[hal] fake_console(1.0.0): initialized",
		"[hal] fake_console(1.0.0): initialized",
		"[hal] broken(0.0.1): init failed: device not responding",
		"[hal] vt(0.1.0): initialized",
		"hello",
	}

	for i, exp := range expLines {
		if got := cons.line(uint32(i + 1)); got != exp {
			t.Errorf("expected console line %d to be %q; got %q", i+1, exp, got)
		}
	}
}

type brokenDriver struct {
	err *kernel.Error
}

func (d *brokenDriver) DriverName() string                      { return "broken" }
func (d *brokenDriver) DriverVersion() (uint16, uint16, uint16) { return 0, 0, 1 }
func (d *brokenDriver) DriverInit(_ io.Writer) *kernel.Error    { return d.err }

type fakeConsole struct {
	width, height uint32
	chars         []byte
}

func newFakeConsole(w, h uint32) *fakeConsole {
	cons := &fakeConsole{width: w, height: h, chars: make([]byte, w*h)}
	for i := range cons.chars {
		cons.chars[i] = ' '
	}
	return cons
}

func (c *fakeConsole) line(y uint32) string {
	return strings.TrimRight(string(c.chars[(y-1)*c.width:y*c.width]), " ")
}

func (c *fakeConsole) Dimensions() (uint32, uint32) { return c.width, c.height }
func (c *fakeConsole) DefaultColors() (uint8, uint8) { return console.LightGray, console.Black }
func (c *fakeConsole) Scroll(_ console.ScrollDir, _ uint32) {}

func (c *fakeConsole) Fill(x, y, width, height uint32, _, _ uint8) {
	for fy := y; fy < y+height && fy <= c.height; fy++ {
		for fx := x; fx < x+width && fx <= c.width; fx++ {
			c.chars[(fy-1)*c.width+fx-1] = ' '
		}
	}
}

func (c *fakeConsole) Write(ch byte, _, _ uint8, x, y uint32) {
	c.chars[(y-1)*c.width+x-1] = ch
}

func (c *fakeConsole) DriverName() string                      { return "fake_console" }
func (c *fakeConsole) DriverVersion() (uint16, uint16, uint16) { return 1, 0, 0 }
func (c *fakeConsole) DriverInit(_ io.Writer) *kernel.Error    { return nil }
