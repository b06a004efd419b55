// Package pipeline provides the core diagram generation pipeline for Archetype.
//
// This package implements the complete classify → synthesize → layout →
// connect → export flow that can be used by CLI and server components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: Classify inventory servers, synthesize infrastructure,
//     compute positions, and infer connections into a typed diagram
//  2. Export: Generate output artifacts in various formats
//     (JSON, SVG, DOT, drawing package)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   input,
//	    Title:   "Target Architecture",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	d, err := runner.Build(ctx, opts)
//
//	// Export an existing diagram
//	artifacts, errs := runner.Export(ctx, d, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/archetype-cli/archetype/pkg/cache"
	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultTitle is the diagram title used when none is given.
const DefaultTitle = "Azure Target Architecture"

// Format constants for output formats. FormatDOTSVG is the DOT node-link
// view rendered through Graphviz instead of returned as DOT text.
const (
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatDOT     = "dot"
	FormatDOTSVG  = "dot-svg"
	FormatPackage = "package"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:    true,
	FormatSVG:     true,
	FormatDOT:     true,
	FormatDOTSVG:  true,
	FormatPackage: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Build options
	Title       string `json:"title,omitempty"`
	LexiconPath string `json:"lexicon_path,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Input  *inventory.Input `json:"-"`
	Logger *log.Logger      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Artifact is one exported output.
type Artifact struct {
	// Format is the pipeline format name ("json", "svg", "dot", "package").
	Format string

	// Data is the rendered artifact bytes.
	Data []byte

	// Ext is the file extension the artifact should be written with,
	// including the leading dot.
	Ext string

	// Degraded reports that the exporter fell back to a reduced output
	// (currently only the drawing package, which degrades to plain XML).
	Degraded bool

	// Reason describes why the artifact is degraded.
	Reason string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the synthesized architecture diagram.
	Diagram *diagram.Diagram

	// DiagramHash is the content hash of the diagram JSON.
	DiagramHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string]Artifact

	// ExportErrors contains per-format export failures. A failed format
	// never aborts the run; callers decide how to report it.
	ExportErrors map[string]error

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ComponentCount   int
	ConnectionCount  int
	SynthesizedCount int
	BuildTime        time.Duration
	ExportTime       time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the diagram came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, svg, dot, package)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetExportDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for diagram synthesis.
func (o *Options) ValidateForBuild() error {
	if o.Input == nil {
		return fmt.Errorf("input is required")
	}
	if len(o.Input.Servers) == 0 {
		return fmt.Errorf("input has no servers")
	}

	// Build defaults
	if o.Title == "" {
		o.Title = DefaultTitle
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON, FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// DiagramKeyOpts returns cache key options for diagram synthesis.
func (o *Options) DiagramKeyOpts(lexiconHash string) cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Title:       o.Title,
		LexiconHash: lexiconHash,
	}
}

// ArtifactKeyOpts returns cache key options for artifact export.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
	}
}
