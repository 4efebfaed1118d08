// Command burstfire-cli is an interactive shell for poking BurstFire
// controllers: discovery, duty control, grid selection, raw register access
// and soft-start ramps. With -sim it talks to scripted controllers instead of
// hardware, which is how the shell is exercised on development hosts.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"

	"burstfire-go/drivers/burstfire"
	"burstfire-go/transport"
	"burstfire-go/transport/sim"
	"burstfire-go/x/mathx"
	"burstfire-go/x/ramp"
)

var (
	busID     = flag.String("bus", "i2c0", "bus id (i2c0 or i2c1)")
	sdaPin    = flag.Int("sda", 4, "SDA pin number")
	sclPin    = flag.Int("scl", 5, "SCL pin number")
	clockHz   = flag.Uint("hz", transport.DefaultHz, "bus clock in Hz")
	timeoutMS = flag.Int("timeout", transport.DefaultTimeoutMS, "per-transaction timeout in ms")
	first     = flag.Uint("first", burstfire.ScanFirst, "first scan address")
	last      = flag.Uint("last", burstfire.ScanLast, "last scan address")
	useSim    = flag.Bool("sim", false, "use simulated controllers at 0x20 and 0x21")
)

func openBus() (transport.Bus, error) {
	if *useSim {
		sb := sim.New(
			sim.NewDevice(0x20, burstfire.Version{Major: 1, Minor: 2, Patch: 3}),
			sim.NewDevice(0x21, burstfire.Version{Major: 1, Minor: 2, Patch: 4}),
		)
		return transport.NewOwner(sb, *timeoutMS), nil
	}
	return transport.Open(transport.Config{
		ID:        *busID,
		SDA:       *sdaPin,
		SCL:       *sclPin,
		Hz:        uint32(*clockHz),
		TimeoutMS: *timeoutMS,
	})
}

// parseAddr accepts decimal or 0x-prefixed 7-bit addresses.
func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	if !mathx.Between(v, 0x08, 0x77) {
		return 0, fmt.Errorf("address 0x%02X outside 7-bit range", v)
	}
	return uint16(v), nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	return uint8(v), err
}

const usage = `commands:
  scan                     probe the scan range, list responding addresses
  probe <addr>             single presence probe
  info <addr>              connection status + firmware version
  fw <addr>                firmware version
  duty <addr> [0-10]       read or set duty cycle
  max <addr>               read firmware's advertised maximum duty
  grid <addr> [50|60]      read or set grid frequency
  status <addr>            status register (running, grid)
  read <addr> <reg>        raw register read
  write <addr> <reg> <val> raw register write
  ramp <addr> <to> [ms] [steps]  ramp duty to target (default 2000 ms, 10 steps)
  help | quit`

func main() {
	flag.Parse()

	bus, err := openBus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "open bus:", err)
		os.Exit(1)
	}
	cli, err := burstfire.New(bus, burstfire.Config{
		ScanFirst: uint16(*first),
		ScanLast:  uint16(*last),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		os.Exit(1)
	}
	defer cli.Close()

	in := bufio.NewScanner(os.Stdin)
	fmt.Println("burstfire shell; 'help' for commands")
	for {
		fmt.Print("burstfire> ")
		if !in.Scan() {
			fmt.Println()
			return
		}
		args, err := shlex.Split(in.Text())
		if err != nil {
			fmt.Println("parse:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		if err := dispatch(cli, args); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func dispatch(cli *burstfire.Client, args []string) error {
	cmd, rest := args[0], args[1:]

	// Commands that take no address.
	switch cmd {
	case "help":
		fmt.Println(usage)
		return nil
	case "scan":
		found, err := cli.Scan()
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("no devices")
			return nil
		}
		for _, a := range found {
			fmt.Printf("0x%02X\n", a)
		}
		return nil
	}

	if len(rest) == 0 {
		return fmt.Errorf("%s: address required", cmd)
	}
	addr, err := parseAddr(rest[0])
	if err != nil {
		return err
	}
	rest = rest[1:]

	switch cmd {
	case "probe":
		fmt.Println(cli.Probe(addr))
		return nil

	case "info":
		info, err := cli.DeviceInfo(addr)
		fmt.Println(info.String())
		return err

	case "fw":
		v, err := cli.FirmwareVersion(addr)
		if err != nil {
			return err
		}
		fmt.Println(v.String())
		return nil

	case "duty":
		if len(rest) == 0 {
			d, err := cli.Duty(addr)
			if err != nil {
				return err
			}
			fmt.Printf("%d/%d\n", d, burstfire.DutyMax)
			return nil
		}
		d, err := parseByte(rest[0])
		if err != nil {
			return err
		}
		return cli.SetDuty(addr, d)

	case "max":
		m, err := cli.MaxDuty(addr)
		if err != nil {
			return err
		}
		fmt.Println(m)
		return nil

	case "grid":
		if len(rest) == 0 {
			is60, err := cli.Grid60Hz(addr)
			if err != nil {
				return err
			}
			fmt.Println(gridString(is60))
			return nil
		}
		switch rest[0] {
		case "50":
			return cli.SetGrid60Hz(addr, false)
		case "60":
			return cli.SetGrid60Hz(addr, true)
		default:
			return fmt.Errorf("grid: want 50 or 60, got %q", rest[0])
		}

	case "status":
		st, err := cli.Status(addr)
		if err != nil {
			return err
		}
		fmt.Printf("running=%v grid=%s\n", st.Running(), gridString(st.Grid60Hz()))
		return nil

	case "read":
		if len(rest) < 1 {
			return fmt.Errorf("read: register required")
		}
		reg, err := parseByte(rest[0])
		if err != nil {
			return err
		}
		v, err := cli.ReadRegister(addr, reg)
		if err != nil {
			return err
		}
		fmt.Printf("0x%02X\n", v)
		return nil

	case "write":
		if len(rest) < 2 {
			return fmt.Errorf("write: register and value required")
		}
		reg, err := parseByte(rest[0])
		if err != nil {
			return err
		}
		val, err := parseByte(rest[1])
		if err != nil {
			return err
		}
		return cli.WriteRegister(addr, reg, val)

	case "ramp":
		return runRamp(cli, addr, rest)
	}
	return fmt.Errorf("unknown command %q (try 'help')", cmd)
}

func gridString(is60 bool) string {
	if is60 {
		return "60Hz"
	}
	return "50Hz"
}

// runRamp soft-steps the duty so heating loads are not slammed to target.
func runRamp(cli *burstfire.Client, addr uint16, rest []string) error {
	if len(rest) < 1 {
		return fmt.Errorf("ramp: target duty required")
	}
	to, err := parseByte(rest[0])
	if err != nil {
		return err
	}
	if to > burstfire.DutyMax {
		return fmt.Errorf("ramp: duty %d out of range 0-%d", to, burstfire.DutyMax)
	}
	durMS := uint32(2000)
	steps := uint8(10)
	if len(rest) > 1 {
		ms, err := strconv.ParseUint(rest[1], 0, 32)
		if err != nil {
			return err
		}
		durMS = uint32(ms)
	}
	if len(rest) > 2 {
		st, err := parseByte(rest[2])
		if err != nil {
			return err
		}
		steps = st
	}

	cur, err := cli.Duty(addr)
	if err != nil {
		return err
	}
	var stepErr error
	ramp.StartLinear(cur, to, burstfire.DutyMax, durMS, steps,
		func(d time.Duration) bool { time.Sleep(d); return true },
		func(level uint8) bool {
			if err := cli.SetDuty(addr, level); err != nil {
				stepErr = err
				return false
			}
			fmt.Printf("duty -> %d\n", level)
			return true
		})
	return stepErr
}
