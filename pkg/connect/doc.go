// Package connect derives the directed adjacency between components from
// tier-adjacency and role rules.
//
// Rules run in a fixed additive order: container membership, ingress fan-out,
// tier-pair fan-out, the diagnostic storage edge, fan-in hub edges, the
// perimeter edge, and same-subnet pairwise edges. The final pass always runs
// last: it deduplicates each component's connection set and strips
// self-references.
//
// Two rules can justify the same logical edge independently; the final pass
// removes literal duplicate ids only.
package connect
