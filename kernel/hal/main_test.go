package hal

import (
	"os"
	"testing"
	"tinykern/kernel/sync/synctest"
)

// TestMain emulates the CPU flags register for the whole package; code under
// test takes IRQ spinlocks and the CLI instruction faults outside ring 0.
func TestMain(m *testing.M) {
	_, restore := synctest.EmulateCPUFlags()
	code := m.Run()
	restore()
	os.Exit(code)
}
