// Package pkg provides the core libraries for Archetype architecture
// generation.
//
// # Overview
//
// Archetype converts a source-environment server inventory plus extracted
// requirement insights into a typed Azure target-architecture diagram. The
// pkg directory is organized along the pipeline stages:
//
//  1. [inventory] - Input loading (server inventory + insight signals)
//  2. [classify] - Inventory items to typed components via the lexicon
//  3. [topology] - Synthesized infrastructure (network, security, hubs)
//  4. [layout] - Tier-banded canvas positioning
//  5. [connect] - Rule-based connection inference
//  6. [diagram] - The diagram document model and its JSON codec
//  7. [export] - SVG, DOT, and drawing-package renderers
//  8. [pipeline] - Orchestration and caching (build, then export)
//
// # Architecture
//
// The typical data flow:
//
//	Inventory + Insights
//	         ↓
//	    [classify] (item → component)
//	         ↓
//	    [topology] (add network/security/hub components)
//	         ↓
//	    [layout] (tier bands on the canvas)
//	         ↓
//	    [connect] (infer edges)
//	         ↓
//	    [export] (JSON / SVG / DOT / package)
//
// # Quick Start
//
//	in, err := inventory.Load("inventory.json")
//	if err != nil {
//		return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//		Input:   in,
//		Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//
// Supporting packages: [cache] (file and Redis artifact caches), [errors]
// (coded errors with user messages), [observability] (pipeline and cache
// hooks), and [buildinfo] (version metadata).
package pkg
