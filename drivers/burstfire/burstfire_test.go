package burstfire

import (
	"testing"

	"tinygo.org/x/drivers"

	"burstfire-go/errcode"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBus)(nil)

type txRec struct {
	addr uint16
	w    []byte
	rlen int
}

// Scripted bus. With no script every transaction ACKs and reads return zero.
type fakeBus struct {
	txs    []txRec
	script func(addr uint16, w, r []byte) error
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.txs = append(f.txs, txRec{addr: addr, w: append([]byte(nil), w...), rlen: len(r)})
	if f.script != nil {
		return f.script(addr, w, r)
	}
	return nil
}

func mustClient(t *testing.T, bus drivers.I2C, cfg Config) *Client {
	t.Helper()
	c, err := New(bus, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsNilBus(t *testing.T) {
	if _, err := New(nil, Config{}); errcode.Of(err) != errcode.InvalidArgument {
		t.Fatalf("want invalid_argument, got %v", err)
	}
}

func TestConfigScanRange(t *testing.T) {
	c := mustClient(t, &fakeBus{}, Config{})
	if first, last := c.ScanRange(); first != ScanFirst || last != ScanLast {
		t.Fatalf("default range = 0x%02X..0x%02X", first, last)
	}

	c = mustClient(t, &fakeBus{}, Config{ScanFirst: 0x30, ScanLast: 0x37})
	if first, last := c.ScanRange(); first != 0x30 || last != 0x37 {
		t.Fatalf("custom range = 0x%02X..0x%02X", first, last)
	}

	if _, err := New(&fakeBus{}, Config{ScanFirst: 0x23, ScanLast: 0x20}); errcode.Of(err) != errcode.InvalidArgument {
		t.Fatalf("inverted range: want invalid_argument, got %v", err)
	}
	if _, err := New(&fakeBus{}, Config{ScanFirst: 0x20, ScanLast: 0x91}); errcode.Of(err) != errcode.InvalidArgument {
		t.Fatalf("range past 7-bit space: want invalid_argument, got %v", err)
	}
}

func TestWriteRegisterFraming(t *testing.T) {
	bus := &fakeBus{}
	c := mustClient(t, bus, Config{})
	if err := c.WriteRegister(0x21, RegGridHz, 1); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	if len(bus.txs) != 1 {
		t.Fatalf("tx count = %d", len(bus.txs))
	}
	tx := bus.txs[0]
	if tx.addr != 0x21 || len(tx.w) != 2 || tx.w[0] != RegGridHz || tx.w[1] != 1 || tx.rlen != 0 {
		t.Fatalf("write framing = %+v", tx)
	}
}

func TestReadRegisterFraming(t *testing.T) {
	bus := &fakeBus{script: func(addr uint16, w, r []byte) error {
		if len(r) == 1 {
			r[0] = 0x2A
		}
		return nil
	}}
	c := mustClient(t, bus, Config{})
	v, err := c.ReadRegister(0x20, RegDuty)
	if err != nil || v != 0x2A {
		t.Fatalf("ReadRegister = %d, %v", v, err)
	}
	tx := bus.txs[0]
	// Command byte is the offset with the read-any bit set, one byte read back
	// in the same transaction.
	if len(tx.w) != 1 || tx.w[0] != 0x80|RegDuty || tx.rlen != 1 {
		t.Fatalf("read framing = %+v", tx)
	}
}

func TestSetDutyRejectsOutOfRange(t *testing.T) {
	bus := &fakeBus{}
	c := mustClient(t, bus, Config{})
	if err := c.SetDuty(0x20, DutyMax+1); errcode.Of(err) != errcode.InvalidArgument {
		t.Fatalf("want invalid_argument, got %v", err)
	}
	if len(bus.txs) != 0 {
		t.Fatalf("out-of-range duty reached the bus: %d transactions", len(bus.txs))
	}
	if err := c.SetDuty(0x20, DutyMax); err != nil {
		t.Fatalf("duty %d: %v", DutyMax, err)
	}
}

func TestTransportErrorsPropagateUnmasked(t *testing.T) {
	bus := &fakeBus{script: func(uint16, []byte, []byte) error { return errcode.Timeout }}
	c := mustClient(t, bus, Config{})
	if err := c.SetDuty(0x20, 3); err != errcode.Timeout {
		t.Fatalf("write: want timeout unmasked, got %v", err)
	}
	if _, err := c.Duty(0x20); err != errcode.Timeout {
		t.Fatalf("read: want timeout unmasked, got %v", err)
	}
}

func TestStatusBits(t *testing.T) {
	bus := &fakeBus{script: func(addr uint16, w, r []byte) error {
		if len(r) == 1 {
			r[0] = uint8(StatusRunning | StatusGrid60Hz)
		}
		return nil
	}}
	c := mustClient(t, bus, Config{})
	st, err := c.Status(0x20)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Running() || !st.Grid60Hz() {
		t.Fatalf("status = %08b", st)
	}
}

func TestProbeConvertsTransportFailureToAbsence(t *testing.T) {
	bus := &fakeBus{script: func(addr uint16, w, r []byte) error {
		if addr == 0x20 {
			return nil
		}
		return errcode.Nack
	}}
	c := mustClient(t, bus, Config{})
	if !c.Probe(0x20) {
		t.Fatal("probe 0x20 = false")
	}
	if c.Probe(0x21) {
		t.Fatal("probe 0x21 = true")
	}
	tx := bus.txs[0]
	if len(tx.w) != 0 || tx.rlen != 0 {
		t.Fatalf("probe framing = %+v", tx)
	}
}

func TestScanOrderAndCoverage(t *testing.T) {
	bus := &fakeBus{script: func(addr uint16, w, r []byte) error {
		if addr == 0x20 || addr == 0x23 {
			return nil
		}
		return errcode.Nack
	}}
	c := mustClient(t, bus, Config{})
	found, err := c.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 2 || found[0] != 0x20 || found[1] != 0x23 {
		t.Fatalf("found = %#v", found)
	}
	// One probe per address in the range, ascending, nothing outside it.
	if len(bus.txs) != 4 {
		t.Fatalf("probe count = %d", len(bus.txs))
	}
	for i, tx := range bus.txs {
		if want := uint16(ScanFirst + i); tx.addr != want {
			t.Fatalf("probe %d hit 0x%02X, want 0x%02X", i, tx.addr, want)
		}
	}
}

func TestFirmwareVersionShortCircuits(t *testing.T) {
	bus := &fakeBus{script: func(addr uint16, w, r []byte) error {
		if len(w) == 1 && w[0] == 0x80|RegFWMinor {
			return errcode.Nack
		}
		if len(r) == 1 {
			r[0] = 7
		}
		return nil
	}}
	c := mustClient(t, bus, Config{})
	v, err := c.FirmwareVersion(0x20)
	if err != errcode.Nack {
		t.Fatalf("want nack, got %v", err)
	}
	if v != (Version{}) {
		t.Fatalf("partial version reported: %+v", v)
	}
	for _, tx := range bus.txs {
		if len(tx.w) == 1 && tx.w[0] == 0x80|RegFWPatch {
			t.Fatal("patch register read after minor failed")
		}
	}
}

func TestLifecycle(t *testing.T) {
	bus := &fakeBus{}
	c := mustClient(t, bus, Config{})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Every operation except Probe reports invalid_state after Close.
	if err := c.SetDuty(0x20, 1); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("SetDuty after close: %v", err)
	}
	if _, err := c.ReadRegister(0x20, RegDuty); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("ReadRegister after close: %v", err)
	}
	if _, err := c.Scan(); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("Scan after close: %v", err)
	}
	if _, err := c.DeviceInfo(0x20); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("DeviceInfo after close: %v", err)
	}
	if c.Probe(0x20) {
		t.Fatal("Probe after close = true")
	}
	if err := c.Close(); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("double close: %v", err)
	}
	if n := len(bus.txs); n != 0 {
		t.Fatalf("closed client reached the bus: %d transactions", n)
	}

	// A zero-value Client behaves like a never-opened handle.
	var z Client
	if err := z.SetDuty(0x20, 1); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("zero-value SetDuty: %v", err)
	}
	if z.Probe(0x20) {
		t.Fatal("zero-value Probe = true")
	}
}
