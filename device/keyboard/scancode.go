// Package keyboard translates PS/2 keyboard scan codes.
package keyboard

const (
	// DataPort is the PS/2 controller port that holds the last received
	// scan code.
	DataPort uint16 = 0x60

	// breakBit is set in the scan code emitted when a key is released.
	breakBit uint8 = 0x80
)

// set1 maps scan code set 1 make codes to the characters they produce. Zero
// entries are unmapped.
var set1 = [breakBit]byte{
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1e: 'a', 0x1f: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x2c: 'z', 0x2d: 'x', 0x2e: 'c', 0x2f: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
	0x39: ' ',
}

// Translate returns the character produced by the key press reported by
// code. ok is false for key releases and for keys without a printable
// mapping; such codes must be ignored by the caller.
func Translate(code uint8) (ch byte, ok bool) {
	if code&breakBit != 0 {
		return 0, false
	}

	ch = set1[code]
	return ch, ch != 0
}
