package keyboard

import "testing"

func TestTranslate(t *testing.T) {
	specs := []struct {
		code  uint8
		expCh byte
		expOK bool
	}{
		{0x1e, 'a', true},
		{0x30, 'b', true},
		{0x10, 'q', true},
		{0x2c, 'z', true},
		{0x32, 'm', true},
		{0x39, ' ', true},
		// key releases
		{0x9e, 0, false},
		{0xb9, 0, false},
		// unmapped make codes
		{0x00, 0, false},
		{0x01, 0, false},
		{0x1c, 0, false},
		{0x7f, 0, false},
	}

	for specIndex, spec := range specs {
		ch, ok := Translate(spec.code)
		if ch != spec.expCh || ok != spec.expOK {
			t.Errorf("[spec %d] expected Translate(0x%x) to return %q, %t; got %q, %t", specIndex, spec.code, spec.expCh, spec.expOK, ch, ok)
		}
	}
}

func TestTranslateCoversAlphabet(t *testing.T) {
	var seen [26]bool
	for code := 0; code < 0x100; code++ {
		ch, ok := Translate(uint8(code))
		if !ok {
			continue
		}

		if code&0x80 != 0 {
			t.Fatalf("expected break code 0x%x to be ignored", code)
		}

		switch {
		case ch >= 'a' && ch <= 'z':
			if seen[ch-'a'] {
				t.Fatalf("letter %q is produced by more than one scan code", ch)
			}
			seen[ch-'a'] = true
		case ch == ' ':
		default:
			t.Fatalf("unexpected character %q for scan code 0x%x", ch, code)
		}
	}

	for i, ok := range seen {
		if !ok {
			t.Errorf("no scan code produces %q", 'a'+i)
		}
	}
}
