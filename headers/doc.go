// Package headers keeps per-axis metadata aligned with a view's structure.
//
// Headers are advisory: they may be absent (nil) and are dropped whenever a
// transform has no well-defined mapping for them, such as a reshape that
// changes an axis length.
package headers
