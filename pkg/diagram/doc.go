// Package diagram defines the target-architecture model shared by every
// pipeline stage and exporter.
//
// A [Diagram] owns an ordered sequence of [Component] values. Components are
// created exactly once, by the classifier for inventory-derived components
// or by the topology synthesizer for implied infrastructure, and are then
// mutated in place: the layout engine assigns each component its [Position]
// exactly once, and the connection inferencer appends to Connections before
// a final dedupe pass. Components are never deleted and never shared between
// diagrams.
//
// # Serialization
//
// The package also provides the canonical JSON serialization used for the
// .json export, artifact caching, and the HTTP preview API. The format is
// round-trip safe: [Unmarshal] on [Marshal] output reconstructs an
// equivalent diagram, modulo enum-to-string widening.
package diagram
