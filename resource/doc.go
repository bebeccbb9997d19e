// Package resource implements the Controller for process-wide limits.
//
// One Controller can be shared by any number of concurrent generations and
// blob store operations:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                          Controller                           │
//	├──────────────────────┬──────────────────┬─────────────────────┤
//	│  Calls               │  Memory          │  IO                 │
//	│  (sem + token bucket)│  (sem)           │  (token bucket)     │
//	├──────────────────────┼──────────────────┼─────────────────────┤
//	│  AcquireCall         │  AcquireMemory   │  AcquireIO          │
//	│  TryAcquireCall      │  TryAcquireMemory│  RateLimitedWriter  │
//	│  ReleaseCall         │  ReleaseMemory   │  RateLimitedReader  │
//	└──────────────────────┴──────────────────┴─────────────────────┘
//
// A generation's own pool size bounds its local concurrency; the
// Controller's MaxInFlight bounds the total across generations, and
// CallsPerSecond keeps a remote analysis service under its quota:
//
//	rc := resource.NewController(resource.Config{
//	    MaxInFlight:    16,
//	    CallsPerSecond: 50,
//	})
//
//	if err := rc.AcquireCall(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseCall()
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
