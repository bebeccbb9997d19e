// Package hash holds the checksums used to verify stored blobs.
package hash
