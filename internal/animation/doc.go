// Package animation resolves animated clip properties frame by frame.
//
// A Timeline holds tracks of sequential clips. Generator clips carry property
// groups that content generators read; animation clips carry curves that
// retarget those properties over time. Each frame the driver builds an
// ActiveClipMap holding a mutable property buffer per active clip, seeded from
// the authored defaults, and Coalescer.Coalesce writes the animated values
// into those buffers.
package animation
