// Command burstfire-selftest drives the register client end-to-end against
// simulated controllers and reports PASS/FAIL per check. It exercises the
// same contract surface the unit tests cover, but as one linear scripted run
// that is easy to eyeball on a bench.
package main

import (
	"fmt"
	"os"

	"burstfire-go/drivers/burstfire"
	"burstfire-go/errcode"
	"burstfire-go/transport"
	"burstfire-go/transport/sim"
)

type reporter struct{ failures int }

func (r *reporter) check(name string, ok bool, detail ...any) {
	if ok {
		fmt.Println("[PASS]", name)
		return
	}
	r.failures++
	fmt.Print("[FAIL] ", name)
	if len(detail) > 0 {
		fmt.Print(": ")
		fmt.Print(detail...)
	}
	fmt.Println()
}

func main() {
	bus := sim.New(
		sim.NewDevice(0x20, burstfire.Version{Major: 1, Minor: 2, Patch: 3}),
		sim.NewDevice(0x21, burstfire.Version{Major: 1, Minor: 2, Patch: 4}),
	)
	owner := transport.NewOwner(bus, transport.DefaultTimeoutMS)
	cli, err := burstfire.New(owner, burstfire.Config{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		os.Exit(1)
	}

	r := &reporter{}

	// Discovery.
	found, err := cli.Scan()
	r.check("scan succeeds", err == nil, err)
	r.check("scan finds both controllers ascending",
		len(found) == 2 && found[0] == 0x20 && found[1] == 0x21, found)
	r.check("probe outside range", !cli.Probe(0x47))

	// Duty round-trip.
	rtOK := true
	for v := uint8(0); v <= burstfire.DutyMax; v++ {
		if err := cli.SetDuty(0x20, v); err != nil {
			rtOK = false
			break
		}
		got, err := cli.Duty(0x20)
		if err != nil || got != v {
			rtOK = false
			break
		}
	}
	r.check("duty round-trip 0..10", rtOK)

	// Out-of-range duty: rejected before any traffic.
	before := bus.TxCount()
	err = cli.SetDuty(0x20, burstfire.DutyMax+1)
	r.check("duty 11 rejected", errcode.Of(err) == errcode.InvalidArgument, err)
	r.check("duty 11 issued no transactions", bus.TxCount() == before)

	// Grid + status.
	err = cli.SetGrid60Hz(0x20, true)
	r.check("set grid 60Hz", err == nil, err)
	st, err := cli.Status(0x20)
	r.check("status running+60Hz", err == nil && st.Running() && st.Grid60Hz(), st)

	// Firmware / info.
	fw, err := cli.FirmwareVersion(0x21)
	r.check("firmware version", err == nil && fw.String() == "1.2.4", fw)
	info, err := cli.DeviceInfo(0x23)
	r.check("info on absent address is not an error",
		err == nil && !info.Connected && info.Firmware == (burstfire.Version{}), err)

	// Probe-then-read failure: error surfaces, connected forced false.
	dev, _ := bus.Device(0x21)
	dev.FailRead(burstfire.RegFWMinor, errcode.Nack)
	bus.ResetJournal()
	info, err = cli.DeviceInfo(0x21)
	r.check("info after mid-read dropout errors with connected=false",
		err != nil && !info.Connected, err, info)
	patchRead := false
	for _, rec := range bus.Records() {
		if len(rec.W) == 1 && rec.W[0] == 0x80|burstfire.RegFWPatch {
			patchRead = true
		}
	}
	r.check("patch register never read after minor fails", !patchRead)
	dev.FailRead(burstfire.RegFWMinor, nil)

	// Lifecycle.
	err = cli.Close()
	r.check("close", err == nil, err)
	_, err = cli.Duty(0x20)
	r.check("duty after close is invalid_state", errcode.Of(err) == errcode.InvalidState, err)
	r.check("probe after close degrades to false", !cli.Probe(0x20))
	err = cli.Close()
	r.check("double close is invalid_state", errcode.Of(err) == errcode.InvalidState, err)

	if r.failures > 0 {
		fmt.Printf("%d check(s) failed\n", r.failures)
		os.Exit(1)
	}
	fmt.Println("all checks passed")
}
