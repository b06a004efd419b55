// Package topology synthesizes the implied infrastructure around classified
// components: the network container, tier subnets with their security
// groups, perimeter and load-balancing elements, the baseline
// security/observability set, and optional hybrid connectivity.
//
// Every rule is a pure boolean predicate over the existing tiers and counts,
// so the result is deterministic for a given input. Synthesized components
// carry no source reference.
package topology
