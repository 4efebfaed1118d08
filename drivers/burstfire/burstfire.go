package burstfire

import "burstfire-go/errcode"

// Register primitives. Transport failures (NACK, timeout) are returned as-is,
// never masked.

// WriteRegister frames a two-byte [register, value] transaction.
func (c *Client) WriteRegister(addr uint16, reg, val uint8) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.w[0], c.w[1] = reg, val
	return c.bus.Tx(addr, c.w[:2], nil)
}

// ReadRegister issues a read-any command (0x80|reg) and reads one byte in the
// same transaction.
func (c *Client) ReadRegister(addr uint16, reg uint8) (uint8, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	c.w[0] = readAnyFlag | reg
	if err := c.bus.Tx(addr, c.w[:1], c.r[:1]); err != nil {
		return 0, err
	}
	return c.r[0], nil
}

// Typed wrappers over the register map.

// SetDuty sets the burst duty cycle, 0..DutyMax half-cycles out of 10.
// Out-of-range values are rejected before any bus traffic.
func (c *Client) SetDuty(addr uint16, duty uint8) error {
	if err := c.ready(); err != nil {
		return err
	}
	if duty > DutyMax {
		return errcode.InvalidArgument
	}
	return c.WriteRegister(addr, RegDuty, duty)
}

// Duty reads the current duty cycle.
func (c *Client) Duty(addr uint16) (uint8, error) {
	return c.ReadRegister(addr, RegDuty)
}

// MaxDuty reads the firmware's advertised maximum duty (always 10 on current
// firmware; read it anyway rather than trusting the constant).
func (c *Client) MaxDuty(addr uint16) (uint8, error) {
	return c.ReadRegister(addr, RegMaxDuty)
}

// SetGrid60Hz selects the grid timing: false=50 Hz, true=60 Hz.
func (c *Client) SetGrid60Hz(addr uint16, is60 bool) error {
	v := uint8(0)
	if is60 {
		v = 1
	}
	return c.WriteRegister(addr, RegGridHz, v)
}

// Grid60Hz reads the grid selection back.
func (c *Client) Grid60Hz(addr uint16) (bool, error) {
	v, err := c.ReadRegister(addr, RegGridHz)
	return v != 0, err
}

// Status reads the STATUS register.
func (c *Client) Status(addr uint16) (Status, error) {
	v, err := c.ReadRegister(addr, RegStatus)
	return Status(v), err
}

// OwnAddress reads the address the device believes it is strapped to.
// Useful for catching shadowed devices on mis-strapped boards.
func (c *Client) OwnAddress(addr uint16) (uint8, error) {
	return c.ReadRegister(addr, RegI2CAddr)
}
