package transport

import (
	"io"
	"sync"
	"time"

	"tinygo.org/x/drivers"

	"burstfire-go/errcode"
)

// Ensure Owner satisfies the capability at compile time.
var _ Bus = (*Owner)(nil)

// request posted to the per-bus worker
type ownerReq struct {
	addr uint16
	w, r []byte
	done chan error // buffered(1); worker replies best-effort
}

// Owner serialises all access to one underlying bus behind a single worker
// goroutine. Callers may invoke Tx from their own goroutines; Tx itself
// blocks until the transaction completes, the queue stays full (Busy), or the
// per-call timeout elapses (Timeout). A timed-out transaction is reported and
// the bus is assumed still usable; no reset or retry is performed here.
type Owner struct {
	hw      drivers.I2C
	reqs    chan ownerReq
	quit    chan struct{}
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewOwner wraps hw and starts the worker. timeoutMS<=0 selects
// DefaultTimeoutMS.
func NewOwner(hw drivers.I2C, timeoutMS int) *Owner {
	if timeoutMS <= 0 {
		timeoutMS = DefaultTimeoutMS
	}
	o := &Owner{
		hw:      hw,
		reqs:    make(chan ownerReq, 16),
		quit:    make(chan struct{}),
		timeout: time.Duration(timeoutMS) * time.Millisecond,
	}
	go o.loop()
	return o
}

func (o *Owner) loop() {
	for {
		select {
		case req := <-o.reqs:
			err := o.hw.Tx(req.addr, req.w, req.r)
			// best-effort reply; do not block the worker
			select {
			case req.done <- err:
			default:
			}
		case <-o.quit:
			return
		}
	}
}

// Tx posts one transaction and waits for completion under the timeout.
func (o *Owner) Tx(addr uint16, w, r []byte) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return errcode.InvalidState
	}
	o.mu.Unlock()

	req := ownerReq{addr: addr, w: w, r: r, done: make(chan error, 1)}

	// Bounded enqueue.
	t := time.NewTimer(o.timeout)
	select {
	case o.reqs <- req:
		if !t.Stop() {
			<-t.C
		}
	case <-t.C:
		return errcode.Busy
	}

	// Completion.
	t = time.NewTimer(o.timeout)
	defer t.Stop()
	select {
	case err := <-req.done:
		return err
	case <-t.C:
		return errcode.Timeout
	}
}

// Close stops the worker and tears down the underlying bus if it owns
// hardware. A second Close returns errcode.InvalidState.
func (o *Owner) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return errcode.InvalidState
	}
	o.closed = true
	o.mu.Unlock()

	close(o.quit)
	if cl, ok := o.hw.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
