// Package shape holds the pure index arithmetic shared by views, headers and codecs:
// row-major strides, coordinate/linear-index conversion, nested-array flattening and
// broadcasting.
//
// All functions are allocation-light and never panic on caller input; errors wrap
// one of the package sentinels so callers can match them with errors.Is.
package shape
