package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/archetype-cli/archetype/pkg/cache"
	"github.com/archetype-cli/archetype/pkg/classify"
	"github.com/archetype-cli/archetype/pkg/connect"
	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/errors"
	"github.com/archetype-cli/archetype/pkg/export"
	"github.com/archetype-cli/archetype/pkg/inventory"
	"github.com/archetype-cli/archetype/pkg/layout"
	"github.com/archetype-cli/archetype/pkg/observability"
	"github.com/archetype-cli/archetype/pkg/topology"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → export pipeline with caching.
// Export failures are isolated per format: a bad format lands in
// Result.ExportErrors while the remaining formats still render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts:    make(map[string]Artifact),
		ExportErrors: make(map[string]error),
	}

	// Stage 1: Build
	buildStart := time.Now()
	d, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Diagram = d
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.ComponentCount = len(d.Components)
	result.Stats.SynthesizedCount = d.Metadata.SynthesizedCount
	result.Stats.ConnectionCount = connectionCount(d)
	result.CacheInfo.BuildHit = buildHit

	// Compute diagram hash for cache keys and server responses
	if data, err := diagram.Marshal(d); err == nil {
		result.DiagramHash = cache.Hash(data)
	}

	r.Logger.Info("built diagram",
		"components", len(d.Components),
		"connections", result.Stats.ConnectionCount,
		"duration", result.Stats.BuildTime)

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, errs, exportHit := r.ExportWithCacheInfo(ctx, d, result.DiagramHash, opts)
	result.Artifacts = artifacts
	result.ExportErrors = errs
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"failures", len(errs),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// BuildWithCacheInfo synthesizes the diagram with caching and returns
// cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*diagram.Diagram, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, "build", len(opts.Input.Servers))
	start := time.Now()

	// Compute cache key from the raw input plus everything that shapes
	// the diagram.
	inputHash, err := inputHash(opts.Input)
	if err != nil {
		return nil, false, err
	}
	lexicon, lexiconHash, err := r.loadLexicon(opts.LexiconPath)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.DiagramKey(inputHash, opts.DiagramKeyOpts(lexiconHash))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, err := diagram.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				hooks.OnStageComplete(ctx, "build", len(d.Components), time.Since(start))
				return d, true, nil // Cache hit
			}
			// Corrupt entry, fall through to rebuild
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	// Build
	d := Build(opts.Input, lexicon, opts.Title)
	if err := d.Validate(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "synthesized diagram failed validation")
	}

	// Cache the result
	if !opts.Refresh {
		if data, err := diagram.Marshal(d); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDiagram)
			observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	hooks.OnStageComplete(ctx, "build", len(d.Components), time.Since(start))
	return d, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*diagram.Diagram, error) {
	d, _, err := r.BuildWithCacheInfo(ctx, opts)
	return d, err
}

// ExportWithCacheInfo renders artifacts with caching and returns per-format
// errors plus cache hit info. The diagramHash may be empty, in which case it
// is computed.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, d *diagram.Diagram, diagramHash string, opts Options) (map[string]Artifact, map[string]error, bool) {
	opts.SetExportDefaults()
	r.applyLogger(&opts)

	if diagramHash == "" {
		if data, err := diagram.Marshal(d); err == nil {
			diagramHash = cache.Hash(data)
		}
	}

	hooks := observability.Pipeline()
	artifacts := make(map[string]Artifact)
	errs := make(map[string]error)
	allCached := diagramHash != ""

	for _, format := range opts.Formats {
		hooks.OnExportStart(ctx, format)
		start := time.Now()

		// Try cache first. Degraded package artifacts are never cached,
		// so a cached package entry is always a real archive.
		var cacheKey string
		if diagramHash != "" {
			cacheKey = r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit && !opts.Refresh {
				artifacts[format] = Artifact{Format: format, Data: data, Ext: formatExt(format)}
				hooks.OnExportComplete(ctx, format, time.Since(start), nil)
				continue
			}
		}
		allCached = false

		artifact, err := renderFormat(ctx, d, format)
		hooks.OnExportComplete(ctx, format, time.Since(start), err)
		if err != nil {
			errs[format] = err
			r.Logger.Warn("export failed", "format", format, "error", err)
			continue
		}
		artifacts[format] = artifact

		if cacheKey != "" && !artifact.Degraded {
			_ = r.Cache.Set(ctx, cacheKey, artifact.Data, cache.TTLArtifact)
		}
	}

	return artifacts, errs, allCached
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Export(ctx context.Context, d *diagram.Diagram, opts Options) (map[string]Artifact, map[string]error) {
	artifacts, errs, _ := r.ExportWithCacheInfo(ctx, d, "", opts)
	return artifacts, errs
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// loadLexicon loads the classification lexicon and hashes it for cache keys.
// An empty path yields the built-in lexicon with an empty hash.
func (r *Runner) loadLexicon(path string) (classify.Lexicon, string, error) {
	if path == "" {
		return classify.DefaultLexicon(), "", nil
	}
	lexicon, err := classify.LoadLexicon(path)
	if err != nil {
		return classify.Lexicon{}, "", err
	}
	return lexicon, cache.Hash([]byte(fmt.Sprintf("%+v", lexicon))), nil
}

// =============================================================================
// Stage Functions - Pure Building Blocks
// =============================================================================

// Build runs classification, synthesis, layout, and connection inference
// over the input and assembles the diagram. It is deterministic: the same
// input and lexicon always produce the same components, positions, and
// connections (diagram id and timestamp aside).
func Build(input *inventory.Input, lexicon classify.Lexicon, title string) *diagram.Diagram {
	insights := &input.Insights
	classifier := classify.New(lexicon)
	classified := classifier.ClassifyAll(input.Servers, insights)

	components := topology.Synthesize(classified, insights)
	layout.Apply(components)
	connect.Infer(components, insights)

	d := diagram.New(title)
	d.Add(components...)

	d.Metadata.SourceServers = len(input.Servers)
	d.Metadata.ComponentCount = len(components)
	d.Metadata.SynthesizedCount = len(components) - len(classified)
	d.Metadata.InsightsUsed = insights.Count()
	d.Metadata.GenerationMethod = "inventory_and_insights"
	return d
}

// renderFormat produces a single artifact. The package format degrades to a
// plain XML artifact rather than failing when the archive cannot be built.
func renderFormat(ctx context.Context, d *diagram.Diagram, format string) (Artifact, error) {
	switch format {
	case FormatJSON:
		data, err := export.MarshalJSON(d)
		if err != nil {
			return Artifact{}, errors.Wrap(errors.ErrCodeExportJSON, err, "marshal diagram")
		}
		return Artifact{Format: format, Data: data, Ext: ".json"}, nil

	case FormatSVG:
		return Artifact{Format: format, Data: export.RenderSVG(d), Ext: ".svg"}, nil

	case FormatDOT:
		return Artifact{Format: format, Data: []byte(export.ToDOT(d)), Ext: ".dot"}, nil

	case FormatDOTSVG:
		data, err := export.RenderDOTSVG(ctx, export.ToDOT(d))
		if err != nil {
			return Artifact{}, errors.Wrap(errors.ErrCodeExportDOT, err, "render DOT through graphviz")
		}
		return Artifact{Format: format, Data: data, Ext: ".dot.svg"}, nil

	case FormatPackage:
		pkg, err := export.BuildPackage(d)
		if err != nil {
			return Artifact{}, errors.Wrap(errors.ErrCodeExportPackage, err, "build drawing package")
		}
		return Artifact{
			Format:   format,
			Data:     pkg.Bytes(),
			Ext:      pkg.Ext(),
			Degraded: pkg.Degraded(),
			Reason:   pkg.Reason,
		}, nil

	default:
		return Artifact{}, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// formatExt maps a format to its artifact file extension. Cached package
// artifacts are always full archives, so the package ext is unconditional.
func formatExt(format string) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatSVG:
		return ".svg"
	case FormatDOT:
		return ".dot"
	case FormatDOTSVG:
		return ".dot.svg"
	case FormatPackage:
		return ".vsdx"
	default:
		return ""
	}
}

// inputHash computes a stable content hash of the pipeline input.
func inputHash(input *inventory.Input) (string, error) {
	data, err := inventory.Marshal(input)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// connectionCount totals directed connections across the diagram.
func connectionCount(d *diagram.Diagram) int {
	n := 0
	for _, c := range d.Components {
		n += len(c.Connections)
	}
	return n
}
