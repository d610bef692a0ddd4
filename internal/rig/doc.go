// Package rig is an in-memory engine bridge: a composite skeleton that
// renders a pose model once per engine tick.
//
// Rigs are described in CUE and validated against an embedded schema (see
// schema.cue). Each tick the rig takes every bone's rest transform, layers
// the pose model's overrides on top by component mask, and then applies the
// engine-side settle step (rotation limits plus an optional hook). The
// settled result is what LastTransform reports, which lets the reconcile
// protocol observe and capture engine corrections.
package rig
