// Package coil generates the copper geometry of a serpentine linear-motor
// winding: nested U-shaped tracks, the bridges that chain them from period
// to period, and the vias that carry each phase between its two layers.
//
// # Overview
//
// A winding is described by a small set of physical inputs (Params) that
// Resolve turns into an immutable Geometry. Each motor phase (PhaseSpec)
// owns a layer pair, a net and two connector pads. For every phase the
// Generator emits:
//
//  1. a forward leg on the phase's first layer, left to right, one nested
//     U-shape per track and period, ending in a row of vias;
//  2. a backward leg on the second layer, inset by one pole, that returns
//     each track and lifts it onto the next nested forward track.
//
// The result is a spiral: start pad → forward track 0 → backward track 0 →
// forward track 1 → ... → backward track n-1 → end pad.
//
// # Units
//
// All coordinates are Length values in nanometres (KiCad's internal unit).
// Arithmetic is integer only, so a run is bit-for-bit reproducible.
//
// # Host integration
//
// The package never touches a board directly. Pad positions, net codes and
// the destination of emitted items are supplied through the PadLocator,
// NetResolver, Sink and Clearer interfaces (see Design). Package
// internal/design binds them to a KiCad board file.
//
// # Usage
//
//	geo, err := coil.Resolve(params)
//	orch := coil.NewOrchestrator(geo, coil.Design{Pads: b, Nets: b, Sink: rec}, coil.Options{})
//	report, err := orch.Run(ctx, phases)
package coil
