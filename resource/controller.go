package resource

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MaxInFlight caps the number of generation calls running at once across
	// every generation sharing the controller.
	MaxInFlight int64

	// CallsPerSecond caps the rate at which generation calls start.
	CallsPerSecond float64

	// Burst is the number of calls that may start back to back.
	// Defaults to ceil(CallsPerSecond).
	Burst int

	// MemoryLimitBytes caps the bytes of decoded payloads held at once.
	MemoryLimitBytes int64

	// IOLimitBytesPerSec caps blob store throughput.
	IOLimitBytesPerSec int64
}

// Controller enforces process-wide limits shared by generations and blob IO.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	callSem     *semaphore.Weighted // nil if unlimited
	callLimiter *rate.Limiter       // nil if unlimited
	inFlight    atomic.Int64

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxInFlight > 0 {
		c.callSem = semaphore.NewWeighted(cfg.MaxInFlight)
	}

	if cfg.CallsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(math.Ceil(cfg.CallsPerSecond))
		}
		c.callLimiter = rate.NewLimiter(rate.Limit(cfg.CallsPerSecond), burst)
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireCall blocks until a call slot is free and the rate limit allows a
// new call, or ctx is canceled. Every successful AcquireCall must be paired
// with ReleaseCall.
func (c *Controller) AcquireCall(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.callSem != nil {
		if err := c.callSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	if c.callLimiter != nil {
		if err := c.callLimiter.Wait(ctx); err != nil {
			if c.callSem != nil {
				c.callSem.Release(1)
			}
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// TryAcquireCall reserves a call slot without blocking.
func (c *Controller) TryAcquireCall() bool {
	if c == nil {
		return true
	}
	if c.callSem != nil && !c.callSem.TryAcquire(1) {
		return false
	}
	if c.callLimiter != nil && !c.callLimiter.Allow() {
		if c.callSem != nil {
			c.callSem.Release(1)
		}
		return false
	}
	c.inFlight.Add(1)
	return true
}

// ReleaseCall releases a call slot.
func (c *Controller) ReleaseCall() {
	if c == nil {
		return
	}
	if c.callSem != nil {
		c.callSem.Release(1)
	}
	c.inFlight.Add(-1)
}

// InFlight returns the number of calls currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireMemory attempts to reserve memory.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the burst are split so they never fail outright.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
