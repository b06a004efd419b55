// Package export turns a finished diagram into its output formats.
//
// The encoders are independent and order-insensitive: each consumes the same
// finished [diagram.Diagram] and can fail without affecting the others.
//
//   - JSON: the canonical structural serialization (round-trip safe).
//   - SVG: a fixed-size best-effort preview with connection lines.
//   - DOT: a Graphviz node-link view of the component adjacency.
//   - Package: a zip of cross-referencing XML parts consumable by desktop
//     diagramming tools, with a plain-XML fallback when archive assembly
//     fails.
//
// The package archive is always assembled fully in memory before any byte is
// written to the output path; a partially written archive is strictly worse
// than no file.
package export
