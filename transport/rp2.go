//go:build rp2040 || rp2350

package transport

import (
	"machine"

	"burstfire-go/errcode"
)

// Open configures the selected machine I²C peripheral and returns it behind a
// serialising Owner. The controller boards run the bus at 100 kHz; faster
// clocks outrun the ATtiny202 slave.
func Open(cfg Config) (Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var hw *machine.I2C
	switch cfg.ID {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, errcode.UnknownBus
	}
	hz := cfg.Hz
	if hz == 0 {
		hz = DefaultHz
	}
	sda := machine.Pin(cfg.SDA)
	scl := machine.Pin(cfg.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: hz}); err != nil {
		return nil, err
	}
	return NewOwner(hw, cfg.TimeoutMS), nil
}
