// Package trace records what a pose session did, step by step, in a form
// that can be compared byte for byte.
//
// Values are restricted to strings, integers, booleans, arrays and objects.
// Floats never appear: rotations and positions are summarized as bone names
// and counts, so traces stay stable across platforms and math libraries.
package trace
