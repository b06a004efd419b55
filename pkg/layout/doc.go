// Package layout assigns every component a deterministic canvas position.
//
// Components are partitioned into fixed vertical bands by tier (security on
// top, management/integration at the bottom) and placed within their band by
// one of three strategies: a default evenly-spaced row, a network-specialized
// grouping (containers first, then subnets, gateways, load balancers, the
// rest), and a security-specialized spread row.
//
// The engine is pure and total: identical input order always yields identical
// coordinates, and it cannot fail.
package layout
