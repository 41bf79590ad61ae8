package cpu

// FlagInterruptEnable is the RFLAGS bit that controls whether the CPU
// accepts maskable interrupts.
const FlagInterruptEnable = 1 << 9

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives. If
// interrupts are disabled, Halt never returns.
func Halt()

// Flags returns the contents of the RFLAGS register.
func Flags() uint64

// SaveFlagsAndDisableInterrupts returns the contents of the RFLAGS register
// and then disables interrupt handling. The returned value can be passed to
// RestoreFlags to return the interrupt flag to its previous state.
func SaveFlagsAndDisableInterrupts() uint64

// RestoreFlags loads the RFLAGS register with the supplied value.
func RestoreFlags(flags uint64)

// LoadIDT loads the IDTR register with the address and limit of an interrupt
// descriptor table. The limit is the table size in bytes minus one.
func LoadIDT(base uintptr, limit uint16)

// InterruptsEnabled returns true if the interrupt flag is set in the supplied
// RFLAGS value.
func InterruptsEnabled(flags uint64) bool {
	return flags&FlagInterruptEnable != 0
}

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8
