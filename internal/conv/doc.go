// Package conv provides safe integer conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow when
// converting between signed/unsigned and different bit-width integer types,
// and when multiplying axis lengths read from untrusted headers.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
