package burstfire

import "burstfire-go/x/conv"

// Version is a firmware version triple.
type Version struct {
	Major, Minor, Patch uint8
}

// String renders "major.minor.patch" without fmt (TinyGo-safe).
func (v Version) String() string {
	var buf [3]byte
	out := make([]byte, 0, 11)
	out = append(out, conv.Utoa(buf[:], uint64(v.Major))...)
	out = append(out, '.')
	out = append(out, conv.Utoa(buf[:], uint64(v.Minor))...)
	out = append(out, '.')
	out = append(out, conv.Utoa(buf[:], uint64(v.Patch))...)
	return string(out)
}

// DeviceInfo is a transient snapshot of one address. It is built fresh on
// every query and never cached. When Connected is false the firmware fields
// are the zero sentinel, not stale data.
type DeviceInfo struct {
	Address   uint16
	Connected bool
	Firmware  Version
}

// String renders "0xNN fw=a.b.c" or "0xNN absent" (TinyGo-safe).
func (di DeviceInfo) String() string {
	var buf [2]byte
	out := make([]byte, 0, 20)
	out = append(out, '0', 'x')
	out = append(out, conv.U8Hex(buf[:], uint8(di.Address))...)
	if !di.Connected {
		return string(append(out, " absent"...))
	}
	out = append(out, " fw="...)
	return string(out) + di.Firmware.String()
}

// Probe issues a zero-length write and reports whether the address ACKed.
// It never returns an error: transport failures and an unopened or closed
// Client all read as "absent", so discovery loops degrade gracefully.
func (c *Client) Probe(addr uint16) bool {
	if c == nil || c.bus == nil || c.closed {
		return false
	}
	return c.bus.Tx(addr, nil, nil) == nil
}

// Scan probes the configured address range once, ascending, and returns the
// addresses that ACKed. No retries; a probe miss is not an error. The only
// failure mode is an unopened or closed Client, in which case no bus traffic
// is issued at all.
func (c *Client) Scan() ([]uint16, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var found []uint16
	for a := c.first; a <= c.last; a++ {
		if c.Probe(a) {
			found = append(found, a)
		}
	}
	return found, nil
}

// FirmwareVersion reads the version triple in fixed order major, minor,
// patch, short-circuiting on the first failing read. Versions are never
// reported partially.
func (c *Client) FirmwareVersion(addr uint16) (Version, error) {
	var v Version
	var err error
	if v.Major, err = c.ReadRegister(addr, RegFWMajor); err != nil {
		return Version{}, err
	}
	if v.Minor, err = c.ReadRegister(addr, RegFWMinor); err != nil {
		return Version{}, err
	}
	if v.Patch, err = c.ReadRegister(addr, RegFWPatch); err != nil {
		return Version{}, err
	}
	return v, nil
}

// DeviceInfo probes addr and, when present, reads the firmware version.
//
// The contract is deliberately asymmetric and callers depend on it:
//   - probe miss: success, Connected=false, zero firmware. Absence is not an
//     error for this call.
//   - probe hit but firmware read failure (device dropped off between the two
//     operations, or framing failed): the read error is returned AND
//     Connected is forced to false despite the earlier ACK.
func (c *Client) DeviceInfo(addr uint16) (DeviceInfo, error) {
	if err := c.ready(); err != nil {
		return DeviceInfo{}, err
	}
	info := DeviceInfo{Address: addr, Connected: c.Probe(addr)}
	if !info.Connected {
		return info, nil
	}
	fw, err := c.FirmwareVersion(addr)
	if err != nil {
		info.Connected = false
		return info, err
	}
	info.Firmware = fw
	return info, nil
}
