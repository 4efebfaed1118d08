// Package ramp provides a caller-driven linear ramp over small integer
// levels, used to soft-start and soft-stop burst-fire duty (0..10) instead of
// stepping a heating load in one jump.
package ramp

import (
	"time"

	"burstfire-go/x/mathx"
)

// Step applies the new level in [0..top]; it reports false to abort the ramp
// (e.g. the underlying register write failed).
type Step func(level uint8) bool

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// StartLinear runs a synchronous integer ramp from cur to 'to', bounded to
// [0..top]. The caller provides Tick for timing and cancellation; nothing here
// owns a goroutine or retries. steps==0 or durationMs==0 snaps to 'to'.
func StartLinear(cur, to, top uint8, durationMs uint32, steps uint8, tick Tick, set Step) {
	if steps == 0 || durationMs == 0 {
		set(mathx.Min(to, top))
		return
	}
	d := int16(to) - int16(cur)
	st := int16(steps)
	acc := int16(0)
	lvl := int16(cur)
	stepDurMs := mathx.Max(mathx.CeilDiv(durationMs, uint32(steps)), 1)
	stepDur := time.Duration(stepDurMs) * time.Millisecond

	for i := uint8(1); i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		acc += d
		inc := acc / st
		if inc != 0 {
			acc -= inc * st
			lvl = mathx.Clamp(lvl+inc, 0, int16(top))
			if !set(uint8(lvl)) {
				return
			}
		}
	}
	if tick(stepDur) {
		set(mathx.Min(to, top))
	}
}
