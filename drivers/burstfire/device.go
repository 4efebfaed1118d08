package burstfire

import (
	"io"

	"tinygo.org/x/drivers"

	"burstfire-go/errcode"
)

// Config controls non-wire behaviour. All fields are optional.
type Config struct {
	// ScanFirst/ScanLast override the probed address range. Both zero means
	// the default 0x20..0x23. The range is scanned ascending and inclusive.
	ScanFirst uint16
	ScanLast  uint16
}

// Validate checks the configured scan range.
func (c Config) Validate() error {
	if c.ScanFirst == 0 && c.ScanLast == 0 {
		return nil
	}
	if c.ScanFirst == 0 || c.ScanLast == 0 || c.ScanFirst > c.ScanLast || c.ScanLast > 0x7F {
		return errcode.InvalidArgument
	}
	return nil
}

// Client is the handle for all controller operations on one bus.
//
// NOTE: the bus Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus in between; read-any
// framing depends on it.
//
// A Client assumes a single logical caller: it keeps fixed scratch buffers and
// does no internal locking. Callers in concurrent environments serialise
// access themselves or inject a serialising transport.
type Client struct {
	bus         drivers.I2C
	first, last uint16
	closed      bool

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [1]byte
}

// New constructs a Client over an already-configured bus. This is the only
// way to obtain a usable handle; there is no package-level state.
func New(bus drivers.I2C, cfg Config) (*Client, error) {
	if bus == nil {
		return nil, errcode.InvalidArgument
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	first, last := uint16(ScanFirst), uint16(ScanLast)
	if cfg.ScanFirst != 0 {
		first, last = cfg.ScanFirst, cfg.ScanLast
	}
	return &Client{bus: bus, first: first, last: last}, nil
}

// Close releases the handle. If the injected bus owns hardware resources
// (implements io.Closer), it is torn down too. Any further operation on the
// Client returns errcode.InvalidState, as does a second Close.
func (c *Client) Close() error {
	if err := c.ready(); err != nil {
		return err
	}
	c.closed = true
	if cl, ok := c.bus.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// ScanRange reports the configured probe range.
func (c *Client) ScanRange() (first, last uint16) { return c.first, c.last }

// ready gates every operation except Probe, which degrades to false instead.
func (c *Client) ready() error {
	if c == nil || c.bus == nil || c.closed {
		return errcode.InvalidState
	}
	return nil
}
