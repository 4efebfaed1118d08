//go:build !rp2040 && !rp2350

package transport

import (
	"burstfire-go/errcode"
	"burstfire-go/transport/sim"
)

// Open on standard Go builds returns an inert simulated bus: no controllers
// answer until the caller seeds its own sim.Bus. Tools and tests that need
// scripted devices construct transport/sim directly and wrap it in NewOwner.
func Open(cfg Config) (Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.ID {
	case "i2c0", "i2c1":
	default:
		return nil, errcode.UnknownBus
	}
	return NewOwner(sim.New(), cfg.TimeoutMS), nil
}
