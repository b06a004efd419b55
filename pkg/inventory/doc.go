// Package inventory defines the read-only upstream inputs to the pipeline:
// the discovered server inventory and the extracted requirement insights.
//
// Both are produced by external collaborators (spreadsheet parsing and
// transcript signal extraction) and arrive already validated. This package
// only models and loads them; it never mutates or re-derives them.
package inventory
