// Package burstfire provides the register-bus client for BurstFire
// burst-fire power controllers (ATtiny202 firmware) on a shared I²C bus.
package burstfire

// Register map of the ATtiny202 BurstFire firmware. Byte-wide cells.
const (
	RegDuty    = 0x00 // R/W: duty cycle (0-10)
	RegMaxDuty = 0x01 // R:   maximum duty (always 10)
	RegGridHz  = 0x02 // R/W: grid frequency (0=50Hz, 1=60Hz)
	RegFWMajor = 0x10 // R:   firmware major version
	RegFWMinor = 0x11 // R:   firmware minor version
	RegFWPatch = 0x12 // R:   firmware patch version
	RegStatus  = 0x13 // R:   status bits
	RegI2CAddr = 0x14 // R:   device's own bus address
)

// DutyMax is the highest legal duty value; the firmware fires N half-cycles
// out of every 10.
const DutyMax = 10

// Read-any mode: setting the high bit of the command byte asks the firmware
// to return the addressed register in the read phase of the same transaction.
const readAnyFlag = 0x80

// Default scan range for strapped controller addresses.
const (
	ScanFirst = 0x20
	ScanLast  = 0x23
)

// Status is the STATUS register (0x13) bitfield.
type Status uint8

const (
	// StatusRunning is set while the controller is firing.
	StatusRunning Status = 1 << 0
	// StatusGrid60Hz is set when the firmware is timed for a 60 Hz grid.
	StatusGrid60Hz Status = 1 << 1
)

func (s Status) Running() bool  { return s&StatusRunning != 0 }
func (s Status) Grid60Hz() bool { return s&StatusGrid60Hz != 0 }
