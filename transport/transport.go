// Package transport provides the bus capability consumed by the burstfire
// client: platform construction of a configured I²C bus, plus an Owner that
// serialises transactions behind one worker with a bounded per-call timeout.
//
// Concrete backends are selected at construction time: rp2 builds drive
// machine.I2C, standard Go builds get an inert simulated bus (scripted
// controllers live in transport/sim).
package transport

import (
	"tinygo.org/x/drivers"

	"burstfire-go/errcode"
)

// Per-transaction timeout observed against real controllers.
const DefaultTimeoutMS = 100

// DefaultHz is the bus clock used when Config.Hz is zero.
const DefaultHz = 100_000

// Bus is what Open returns: the transaction primitive plus teardown.
// Tx with both w and r performs write-then-read in one transaction without
// releasing the bus; Tx with neither is an address probe.
type Bus interface {
	drivers.I2C
	Close() error
}

// Config names the hardware binding for one bus.
type Config struct {
	ID        string // "i2c0" or "i2c1"
	SDA, SCL  int    // pin numbers (ignored on host builds)
	Hz        uint32 // bus clock; 0 => DefaultHz
	TimeoutMS int    // per-transaction timeout; 0 => DefaultTimeoutMS
}

// Validate rejects configs that cannot name a bus.
func (c Config) Validate() error {
	if c.ID == "" {
		return errcode.InvalidArgument
	}
	if c.SDA == c.SCL && c.SDA != 0 {
		return errcode.InvalidArgument
	}
	return nil
}
