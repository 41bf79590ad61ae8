package gate

import (
	"testing"
	"unsafe"
)

func TestDescriptorSize(t *testing.T) {
	if exp, got := uintptr(16), unsafe.Sizeof(Descriptor{}); got != exp {
		t.Fatalf("expected descriptor size to be %d bytes; got %d", exp, got)
	}
}

func TestDescriptorSetInterruptGate(t *testing.T) {
	specs := []struct {
		addr     uintptr
		ist, dpl uint8
	}{
		{0x0000000000101234, 0, 0},
		{0xffff800000abcdef, 1, 0},
		{0x00007fffdeadbeef, 0, 3},
	}

	for specIndex, spec := range specs {
		var d Descriptor
		d.setInterruptGate(spec.addr, spec.ist, spec.dpl)

		if !d.Present() {
			t.Errorf("[spec %d] expected descriptor to be present", specIndex)
		}

		if got := d.Offset(); got != spec.addr {
			t.Errorf("[spec %d] expected offset 0x%x; got 0x%x", specIndex, spec.addr, got)
		}

		if got := d.StackIndex(); got != spec.ist {
			t.Errorf("[spec %d] expected IST %d; got %d", specIndex, spec.ist, got)
		}

		if got := d.DPL(); got != spec.dpl {
			t.Errorf("[spec %d] expected DPL %d; got %d", specIndex, spec.dpl, got)
		}

		if d.Selector != KernelCodeSelector {
			t.Errorf("[spec %d] expected selector 0x%x; got 0x%x", specIndex, KernelCodeSelector, d.Selector)
		}

		if got := d.TypeAttr & 0xf; got != gateTypeInterrupt {
			t.Errorf("[spec %d] expected an interrupt gate (0x%x); got type 0x%x", specIndex, gateTypeInterrupt, got)
		}
	}
}

func TestDescriptorZeroValueIsNotPresent(t *testing.T) {
	var d Descriptor
	if d.Present() {
		t.Fatal("expected zero descriptor to be absent")
	}
}
