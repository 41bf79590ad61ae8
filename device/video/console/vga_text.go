package console

import (
	"io"
	"tinykern/device"
	"tinykern/kernel"
	"tinykern/kernel/ioport"
	"tinykern/kernel/kfmt"
)

const (
	// VgaTextFramebuffer is the physical address of the color text mode
	// framebuffer.
	VgaTextFramebuffer uintptr = 0xb8000

	// VGA CRT controller registers used for the hardware cursor.
	crtcIndexPort   uint16 = 0x3d4
	crtcDataPort    uint16 = 0x3d5
	crtcCursorHigh  uint8  = 0x0e
	crtcCursorLow   uint8  = 0x0f
	miscOutputPort  uint16 = 0x3cc
	miscOutputColor uint8  = 0x01
)

var errNoFramebuffer = &kernel.Error{Module: "vga_text_console", Message: "framebuffer address not set"}

// VgaTextConsole implements an 80x25 text console using VGA mode 0x3. The
// console supports the 16 EGA colors.
//
// Each character in the console framebuffer is represented using two bytes,
// a byte for the character ASCII code and a byte that encodes the foreground
// and background colors (4 bits for each).
//
// The default settings for the console are:
//   - light gray text (color 7) on black background (color 0).
//   - space as the clear character
type VgaTextConsole struct {
	width  uint32
	height uint32

	fbAddr uintptr
	fb     []uint16

	// bus services the CRT controller port I/O.
	bus ioport.Bus

	defaultFg uint8
	defaultBg uint8
	clearChar uint16
}

// NewVgaTextConsole creates a new vga text console with its framebuffer at
// fbAddr.
func NewVgaTextConsole(columns, rows uint32, fbAddr uintptr, bus ioport.Bus) *VgaTextConsole {
	return &VgaTextConsole{
		width:     columns,
		height:    rows,
		fbAddr:    fbAddr,
		bus:       bus,
		clearChar: uint16(' '),
		defaultFg: LightGray,
		defaultBg: Black,
	}
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.width, cons.height
}

// DefaultColors returns the default foreground and background colors
// used by this console.
func (cons *VgaTextConsole) DefaultColors() (fg uint8, bg uint8) {
	return cons.defaultFg, cons.defaultBg
}

// Fill sets the contents of the specified rectangular region to the requested
// color. Both x and y coordinates are 1-based.
func (cons *VgaTextConsole) Fill(x, y, width, height uint32, fg, bg uint8) {
	var (
		clr                  = cons.attr(fg, bg) | cons.clearChar
		rowOffset, colOffset uint32
	)

	// clip rectangle
	if x == 0 {
		x = 1
	} else if x >= cons.width {
		x = cons.width
	}

	if y == 0 {
		y = 1
	} else if y >= cons.height {
		y = cons.height
	}

	if x+width-1 > cons.width {
		width = cons.width - x + 1
	}

	if y+height-1 > cons.height {
		height = cons.height - y + 1
	}

	rowOffset = ((y - 1) * cons.width) + (x - 1)
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset = rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = clr
		}
	}
}

// Scroll the console contents to the specified direction. The caller
// is responsible for updating (e.g. clear or replace) the contents of
// the region that was scrolled.
func (cons *VgaTextConsole) Scroll(dir ScrollDir, lines uint32) {
	if lines == 0 || lines > cons.height {
		return
	}

	offset := lines * cons.width

	switch dir {
	case ScrollDirUp:
		copy(cons.fb, cons.fb[offset:cons.height*cons.width])
	case ScrollDirDown:
		copy(cons.fb[offset:cons.height*cons.width], cons.fb)
	}
}

// Write a char to the specified location. If fg or bg exceed the supported
// colors for this console, they will be set to their default value. Both x and
// y coordinates are 1-based
func (cons *VgaTextConsole) Write(ch byte, fg, bg uint8, x, y uint32) {
	if x < 1 || x > cons.width || y < 1 || y > cons.height {
		return
	}

	cons.fb[((y-1)*cons.width)+(x-1)] = cons.attr(fg, bg) | uint16(ch)
}

// SetCursor moves the hardware cursor to (x, y). Coordinates outside the
// console are clipped.
func (cons *VgaTextConsole) SetCursor(x, y uint32) {
	switch {
	case x < 1:
		x = 1
	case x > cons.width:
		x = cons.width
	}

	switch {
	case y < 1:
		y = 1
	case y > cons.height:
		y = cons.height
	}

	pos := uint16((y-1)*cons.width + (x - 1))
	cons.bus.Out8(crtcIndexPort, crtcCursorLow)
	cons.bus.Out8(crtcDataPort, uint8(pos))
	cons.bus.Out8(crtcIndexPort, crtcCursorHigh)
	cons.bus.Out8(crtcDataPort, uint8(pos>>8))
}

// attr returns the attribute byte for fg/bg shifted into the high byte of a
// framebuffer cell.
func (cons *VgaTextConsole) attr(fg, bg uint8) uint16 {
	if fg >= NumColors {
		fg = cons.defaultFg
	}
	if bg >= NumColors {
		bg = cons.defaultBg
	}

	return ((uint16(bg) << 4) | uint16(fg)) << 8
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	if cons.fbAddr == 0 {
		return errNoFramebuffer
	}

	cons.fb = mapFramebufferFn(cons.fbAddr, cons.width*cons.height)
	kfmt.Fprintf(w, "%dx%d framebuffer at 0x%x\n", cons.width, cons.height, cons.fbAddr)

	return nil
}

// probeForVgaTextConsole checks whether the VGA adapter is in a color mode,
// which places the text framebuffer at 0xb8000.
func probeForVgaTextConsole() device.Driver {
	if probeBus.In8(miscOutputPort)&miscOutputColor == 0 {
		return nil
	}

	return NewVgaTextConsole(80, 25, VgaTextFramebuffer, probeBus)
}
