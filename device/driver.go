package device

import (
	"io"
	"tinykern/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it or nil if the hardware is
// not present.
type ProbeFn func() Driver

// DetectOrder specifies when a driver is probed relative to the other
// registered drivers. Drivers with a lower order are probed first.
type DetectOrder int8

const (
	// DetectOrderEarly is used by drivers for hardware that the kernel
	// needs before anything else can report progress.
	DetectOrderEarly DetectOrder = -128

	// DetectOrderConsole is used by display hardware drivers.
	DetectOrderConsole DetectOrder = -64

	// DetectOrderNormal is the default detection order.
	DetectOrderNormal DetectOrder = 0

	// DetectOrderLast is used by drivers that sit on top of other
	// drivers, such as terminals.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo describes a driver registered with RegisterDriver.
type DriverInfo struct {
	// Order controls when the driver is probed.
	Order DetectOrder

	// Probe checks for the hardware served by the driver.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers that implements
// sort.Interface.
type DriverInfoList []*DriverInfo

// Len returns the length of the driver info list.
func (l DriverInfoList) Len() int { return len(l) }

// Swap exchanges 2 elements in the driver info list.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less compares 2 elements of the driver info list by their detection order.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

var registeredDrivers DriverInfoList

// RegisterDriver adds the supplied driver info to the list of drivers
// probed by the hal package. Drivers call it from an init() block.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the registered drivers in registration order.
func DriverList() DriverInfoList {
	return registeredDrivers
}
