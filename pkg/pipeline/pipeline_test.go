package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/archetype-cli/archetype/pkg/cache"
	"github.com/archetype-cli/archetype/pkg/classify"
	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
)

func testInput() *inventory.Input {
	return &inventory.Input{
		Servers: []inventory.Item{
			{Name: "web01", Role: "Web Server", OS: "Windows Server 2019", CPUCores: 4, MemoryGB: 8},
			{Name: "app01", Role: "Application Server", OS: "Windows Server 2019", CPUCores: 8, MemoryGB: 16},
			{Name: "db01", Role: "Database Server", OS: "Windows Server 2019", CPUCores: 8, MemoryGB: 32, Recommendation: "Azure SQL Database"},
		},
		Insights: inventory.InsightSet{
			Technologies: []inventory.Technology{
				{Category: "web", Keyword: "iis", Confidence: "high"},
			},
			NeedsHybridConnectivity: true,
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"dot-svg", false},
		{"package", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestRenderFormatDOTSVG(t *testing.T) {
	d := Build(testInput(), classify.DefaultLexicon(), "Render Test")

	artifact, err := renderFormat(context.Background(), d, FormatDOTSVG)
	if err != nil {
		t.Fatalf("renderFormat(dot-svg): %v", err)
	}
	if artifact.Ext != ".dot.svg" {
		t.Errorf("Ext = %q, want .dot.svg", artifact.Ext)
	}
	if !strings.Contains(string(artifact.Data), "<svg") {
		t.Error("artifact is not SVG")
	}
}

func TestOptionsValidation(t *testing.T) {
	// Missing input fails
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Options without input should fail validation")
	}

	// Empty servers fail
	opts = Options{Input: &inventory.Input{}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Options with empty inventory should fail validation")
	}

	// Valid options get defaults
	opts = Options{Input: testInput()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.Title != DefaultTitle {
		t.Errorf("Title default = %q, want %q", opts.Title, DefaultTitle)
	}
	if len(opts.Formats) == 0 {
		t.Error("Formats should default to a non-empty set")
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestBuildProducesValidDiagram(t *testing.T) {
	d := Build(testInput(), classify.DefaultLexicon(), "Test Architecture")

	if err := d.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if d.Title != "Test Architecture" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Metadata.SourceServers != 3 {
		t.Errorf("SourceServers = %d, want 3", d.Metadata.SourceServers)
	}
	if d.Metadata.ComponentCount != len(d.Components) {
		t.Errorf("ComponentCount = %d, components = %d", d.Metadata.ComponentCount, len(d.Components))
	}
	if d.Metadata.SynthesizedCount != len(d.Components)-3 {
		t.Errorf("SynthesizedCount = %d", d.Metadata.SynthesizedCount)
	}

	// Every component is positioned after the build
	for _, c := range d.Components {
		if c.Position == nil {
			t.Errorf("component %s has no position", c.ID)
		}
	}

	// Hybrid connectivity insight adds the VPN gateway
	if d.Component("vpngw_main") == nil {
		t.Error("expected hybrid connectivity gateway in diagram")
	}
}

// A database, a small web box, and a file server classify to one component
// each; synthesis then adds the vnet, three subnets with their security
// groups, the gateway, firewall, key vault, backup, monitor, and log
// workspace. General storage is skipped because the file server already
// classified as storage, and no load balancer appears without a second
// compute component.
func TestBuildSynthesisCounts(t *testing.T) {
	in := &inventory.Input{
		Servers: []inventory.Item{
			{Name: "sqldb01", Role: "Database Server", OS: "Windows Server 2019 (SQL Server)", MemoryGB: 32},
			{Name: "web01", Role: "Web Server", OS: "Windows Server 2019 (IIS)", MemoryGB: 4},
			{Name: "files01", Role: "File Server", OS: "Windows Server 2016", MemoryGB: 8},
		},
	}

	d := Build(in, classify.DefaultLexicon(), "T")

	if got := len(d.Components); got != 16 {
		t.Errorf("component count = %d, want 16", got)
	}
	if d.Metadata.SynthesizedCount != 13 {
		t.Errorf("SynthesizedCount = %d, want 13", d.Metadata.SynthesizedCount)
	}
	if d.Component("storage_main") != nil {
		t.Error("general storage should be skipped when storage was classified")
	}
	if d.Component("lb_internal") != nil {
		t.Error("no load balancer without multiple compute components")
	}
	if d.Component("appgw_main") == nil {
		t.Error("web tier should pull in the perimeter gateway")
	}
}

func TestBuildDeterminism(t *testing.T) {
	d1 := Build(testInput(), classify.DefaultLexicon(), "T")
	d2 := Build(testInput(), classify.DefaultLexicon(), "T")

	if len(d1.Components) != len(d2.Components) {
		t.Fatalf("component counts differ: %d vs %d", len(d1.Components), len(d2.Components))
	}
	for i := range d1.Components {
		a, b := d1.Components[i], d2.Components[i]
		if a.ID != b.ID {
			t.Errorf("component order differs at %d: %s vs %s", i, a.ID, b.ID)
		}
		if *a.Position != *b.Position {
			t.Errorf("position differs for %s", a.ID)
		}
		if strings.Join(a.Connections, ",") != strings.Join(b.Connections, ",") {
			t.Errorf("connections differ for %s", a.ID)
		}
	}
}

func TestExecuteAllFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		Input:   testInput(),
		Formats: []string{FormatJSON, FormatSVG, FormatDOT, FormatPackage},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(result.ExportErrors) != 0 {
		t.Errorf("ExportErrors = %v", result.ExportErrors)
	}
	for _, format := range []string{FormatJSON, FormatSVG, FormatDOT, FormatPackage} {
		artifact, ok := result.Artifacts[format]
		if !ok {
			t.Errorf("missing artifact for %s", format)
			continue
		}
		if len(artifact.Data) == 0 {
			t.Errorf("empty artifact for %s", format)
		}
		if artifact.Ext == "" {
			t.Errorf("artifact %s has no extension", format)
		}
	}

	// JSON artifact round-trips into the same component set
	d, err := diagram.Unmarshal(result.Artifacts[FormatJSON].Data)
	if err != nil {
		t.Fatalf("Unmarshal JSON artifact: %v", err)
	}
	if len(d.Components) != len(result.Diagram.Components) {
		t.Errorf("JSON artifact has %d components, diagram has %d", len(d.Components), len(result.Diagram.Components))
	}

	if result.DiagramHash == "" {
		t.Error("DiagramHash should be set")
	}
	if result.Stats.ComponentCount == 0 || result.Stats.ConnectionCount == 0 {
		t.Errorf("Stats not populated: %+v", result.Stats)
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Input: testInput(), Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.BuildHit {
		t.Error("first run should miss the build cache")
	}

	second, err := r.Execute(ctx, Options{Input: testInput(), Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.BuildHit {
		t.Error("second run should hit the build cache")
	}
	if !second.CacheInfo.ExportHit {
		t.Error("second run should hit the export cache")
	}
	if string(second.Artifacts[FormatSVG].Data) != string(first.Artifacts[FormatSVG].Data) {
		t.Error("cached artifact should match the original")
	}

	// Refresh bypasses the cache
	third, err := r.Execute(ctx, Options{Input: testInput(), Formats: []string{FormatSVG}, Refresh: true})
	if err != nil {
		t.Fatalf("third Execute error: %v", err)
	}
	if third.CacheInfo.BuildHit {
		t.Error("refresh run should not hit the build cache")
	}
}

func TestExportUnsupportedFormatIsolated(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	d := Build(testInput(), classify.DefaultLexicon(), "T")

	// Bypass option validation to exercise per-format isolation directly.
	artifacts, errs := r.Export(context.Background(), d, Options{Formats: []string{FormatSVG, "bogus"}})
	if _, ok := artifacts[FormatSVG]; !ok {
		t.Error("svg should still render when another format fails")
	}
	if _, ok := errs["bogus"]; !ok {
		t.Error("bogus format should land in the error map")
	}
}
