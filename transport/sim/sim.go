// Package sim emulates BurstFire controllers on a virtual bus. It speaks the
// firmware's wire protocol exactly: two-byte register writes, read-any
// (0x80|reg) write-then-read, and zero-length probe writes. Absent addresses
// NACK. Every transaction is journalled so tests can assert traffic counts
// and ordering.
package sim

import (
	"sync"

	"tinygo.org/x/drivers"

	"burstfire-go/drivers/burstfire"
	"burstfire-go/errcode"
)

// Compile-time check.
var _ drivers.I2C = (*Bus)(nil)

// Device models one controller's register file.
type Device struct {
	addr    uint16
	regs    [burstfire.RegI2CAddr + 1]uint8
	readErr map[uint8]error
}

// NewDevice builds a controller strapped to addr reporting the given
// firmware version.
func NewDevice(addr uint16, fw burstfire.Version) *Device {
	d := &Device{addr: addr}
	d.regs[burstfire.RegMaxDuty] = burstfire.DutyMax
	d.regs[burstfire.RegFWMajor] = fw.Major
	d.regs[burstfire.RegFWMinor] = fw.Minor
	d.regs[burstfire.RegFWPatch] = fw.Patch
	d.regs[burstfire.RegI2CAddr] = uint8(addr)
	return d
}

// FailRead makes subsequent read-any accesses to reg return err (nil clears).
// Models a device dropping off the bus mid-conversation.
func (d *Device) FailRead(reg uint8, err error) {
	if d.readErr == nil {
		d.readErr = make(map[uint8]error)
	}
	if err == nil {
		delete(d.readErr, reg)
		return
	}
	d.readErr[reg] = err
}

// Duty exposes the stored duty for assertions.
func (d *Device) Duty() uint8 { return d.regs[burstfire.RegDuty] }

// write mirrors the firmware: writable cells latch, read-only cells ignore.
func (d *Device) write(reg, val uint8) {
	switch reg {
	case burstfire.RegDuty:
		d.regs[reg] = val
	case burstfire.RegGridHz:
		if val != 0 {
			val = 1
		}
		d.regs[reg] = val
	}
}

func (d *Device) read(reg uint8) (uint8, error) {
	if err := d.readErr[reg]; err != nil {
		return 0, err
	}
	if reg == burstfire.RegStatus {
		var s uint8
		if d.regs[burstfire.RegDuty] > 0 {
			s |= uint8(burstfire.StatusRunning)
		}
		if d.regs[burstfire.RegGridHz] != 0 {
			s |= uint8(burstfire.StatusGrid60Hz)
		}
		return s, nil
	}
	if int(reg) >= len(d.regs) {
		return 0, nil // unmapped cells read as zero
	}
	return d.regs[reg], nil
}

// Record is one journalled transaction.
type Record struct {
	Addr uint16
	W    []byte
	RLen int
}

// Bus routes transactions to devices by address.
type Bus struct {
	mu      sync.Mutex
	devs    map[uint16]*Device
	journal []Record
	closed  bool
}

// New builds a bus preloaded with the given devices.
func New(devs ...*Device) *Bus {
	b := &Bus{devs: make(map[uint16]*Device)}
	for _, d := range devs {
		b.devs[d.addr] = d
	}
	return b
}

// Add attaches a device; Remove drops one off the bus.
func (b *Bus) Add(d *Device) {
	b.mu.Lock()
	b.devs[d.addr] = d
	b.mu.Unlock()
}

func (b *Bus) Remove(addr uint16) {
	b.mu.Lock()
	delete(b.devs, addr)
	b.mu.Unlock()
}

// Device returns the attached device at addr, if any.
func (b *Bus) Device(addr uint16) (*Device, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.devs[addr]
	return d, ok
}

// Tx implements the combined write/read transaction. Framing the firmware
// does not understand is NACKed, as on the real slave.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errcode.InvalidState
	}
	b.journal = append(b.journal, Record{Addr: addr, W: append([]byte(nil), w...), RLen: len(r)})

	d := b.devs[addr]
	if d == nil {
		return errcode.Nack
	}
	switch {
	case len(w) == 0 && len(r) == 0:
		return nil // probe: ACK
	case len(w) == 2 && len(r) == 0:
		d.write(w[0], w[1])
		return nil
	case len(w) == 1 && w[0]&0x80 != 0 && len(r) == 1:
		v, err := d.read(w[0] &^ 0x80)
		if err != nil {
			return err
		}
		r[0] = v
		return nil
	default:
		return errcode.Nack
	}
}

// Close marks the bus torn down; further use is InvalidState.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errcode.InvalidState
	}
	b.closed = true
	return nil
}

// Records returns a copy of the journal.
func (b *Bus) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Record(nil), b.journal...)
}

// TxCount reports how many transactions the bus has seen.
func (b *Bus) TxCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.journal)
}

// ResetJournal clears the journal between test phases.
func (b *Bus) ResetJournal() {
	b.mu.Lock()
	b.journal = nil
	b.mu.Unlock()
}
