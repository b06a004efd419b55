package export

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/archetype-cli/archetype/pkg/diagram"
)

// exportDiagram builds a small positioned three-tier diagram covering the
// network, application, and data bands. The application component name
// carries an ampersand to exercise XML escaping.
func exportDiagram() *diagram.Diagram {
	vnet := &diagram.Component{
		ID:           "vnet_main",
		Type:         diagram.TypeVNet,
		Name:         "Main VNet",
		ServiceLabel: "Azure Virtual Network",
		Tier:         diagram.TierNetwork,
		Position:     &diagram.Position{X: 100, Y: 100, Width: 300, Height: 60},
		Connections:  []string{},
	}
	app := &diagram.Component{
		ID:            "app_1",
		Type:          diagram.TypeAppService,
		Name:          "Web & API",
		ServiceLabel:  "Azure App Service",
		Tier:          diagram.TierApplication,
		Position:      &diagram.Position{X: 100, Y: 250, Width: 140, Height: 70},
		Connections:   []string{"sql_1"},
		SourceRef:     "web01",
		MigrationType: diagram.MigrationModernize,
		Attributes:    map[string]string{"memory_gb": "8"},
	}
	db := &diagram.Component{
		ID:            "sql_1",
		Type:          diagram.TypeSQL,
		Name:          "orders-db",
		ServiceLabel:  "Azure SQL Database",
		Tier:          diagram.TierData,
		Position:      &diagram.Position{X: 100, Y: 500, Width: 140, Height: 70},
		Connections:   []string{},
		SourceRef:     "db01",
		MigrationType: diagram.MigrationLiftAndShift,
	}

	d := diagram.New("Export Fixture")
	d.Add(vnet, app, db)
	d.Metadata.SourceServers = 2
	d.Metadata.ComponentCount = 3
	return d
}

func TestRenderSVGStructure(t *testing.T) {
	d := exportDiagram()
	svg := string(RenderSVG(d))

	if !strings.HasPrefix(svg, xml.Header) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, `<svg width="1000" height="700"`) {
		t.Error("missing svg element with canvas dimensions")
	}
	if !strings.Contains(svg, `<title>Export Fixture</title>`) {
		t.Error("missing title element")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}

	if got := strings.Count(svg, "<rect "); got != len(d.Components) {
		t.Errorf("rect count = %d, want %d", got, len(d.Components))
	}
	// One line per connection: app_1 -> sql_1.
	if got := strings.Count(svg, "<line "); got != 1 {
		t.Errorf("line count = %d, want 1", got)
	}
}

func TestRenderSVGTierCaptions(t *testing.T) {
	svg := string(RenderSVG(exportDiagram()))

	for _, want := range []string{"Network Tier", "Application Tier", "Data Tier"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing caption %q", want)
		}
	}
	// No compute component in the fixture, so no compute caption.
	if strings.Contains(svg, "Compute Tier") {
		t.Error("unexpected compute caption")
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	svg := string(RenderSVG(exportDiagram()))

	if !strings.Contains(svg, "Web &amp; API") {
		t.Error("component name not escaped")
	}
	if strings.Contains(svg, ">Web & API<") {
		t.Error("raw ampersand leaked into output")
	}
}

func TestRenderSVGSkipsUnpositioned(t *testing.T) {
	d := exportDiagram()
	d.Add(&diagram.Component{
		ID:          "kv_main",
		Type:        diagram.TypeKeyVault,
		Name:        "Key Vault",
		Tier:        diagram.TierSecurity,
		Connections: []string{},
	})

	svg := string(RenderSVG(d))
	if got := strings.Count(svg, "<rect "); got != 3 {
		t.Errorf("rect count = %d, want 3 (unpositioned component skipped)", got)
	}
}

func TestToDOT(t *testing.T) {
	d := exportDiagram()
	dot := ToDOT(d)

	if !strings.HasPrefix(dot, "digraph architecture {") {
		t.Fatal("missing digraph header")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("digraph not closed")
	}

	// One rank group per occupied tier.
	if got := strings.Count(dot, "rank=same"); got != 3 {
		t.Errorf("rank group count = %d, want 3", got)
	}

	for _, c := range d.Components {
		if !strings.Contains(dot, `"`+c.ID+`" [label=`) {
			t.Errorf("missing node for %s", c.ID)
		}
	}
	if !strings.Contains(dot, `"app_1" -> "sql_1";`) {
		t.Error("missing edge app_1 -> sql_1")
	}
	if !strings.Contains(dot, `fillcolor="#E07C24"`) {
		t.Error("application tier node missing fill color")
	}
}

func TestRenderDOTSVG(t *testing.T) {
	d := exportDiagram()
	data, err := RenderDOTSVG(context.Background(), ToDOT(d))
	if err != nil {
		t.Fatalf("RenderDOTSVG: %v", err)
	}

	svg := string(data)
	if !strings.Contains(svg, "<svg") {
		t.Fatal("output is not SVG")
	}
	// Graphviz emits one title element per node and edge.
	for _, c := range d.Components {
		if !strings.Contains(svg, "<title>"+c.ID+"</title>") {
			t.Errorf("missing node %s in rendered graph", c.ID)
		}
	}
	if !strings.Contains(svg, "app_1&#45;&gt;sql_1") && !strings.Contains(svg, "app_1->sql_1") {
		t.Error("missing edge app_1 -> sql_1 in rendered graph")
	}
}

func TestRenderDOTSVGInvalidInput(t *testing.T) {
	if _, err := RenderDOTSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for unterminated DOT input")
	}
}

func TestToDOTDeterminism(t *testing.T) {
	d := exportDiagram()
	if ToDOT(d) != ToDOT(d) {
		t.Error("DOT output differs between runs")
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	d := exportDiagram()

	data, err := MarshalJSON(d)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	got, err := diagram.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Title != d.Title || len(got.Components) != len(d.Components) {
		t.Errorf("round trip: title=%q components=%d, want %q/%d",
			got.Title, len(got.Components), d.Title, len(d.Components))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(exportDiagram(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"diagram_id"`) {
		t.Error("missing diagram_id field")
	}
}

func TestExportSVGWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arch.svg")
	if err := ExportSVG(exportDiagram(), path); err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("written file is not SVG")
	}
}

func TestTierColor(t *testing.T) {
	tests := []struct {
		tier diagram.Tier
		want string
	}{
		{diagram.TierData, "#70AD47"},
		{diagram.TierSecurity, "#B91C1C"},
		{diagram.Tier("bogus"), defaultColor},
	}
	for _, tt := range tests {
		if got := tierColor(tt.tier); got != tt.want {
			t.Errorf("tierColor(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestTypeColor(t *testing.T) {
	tests := []struct {
		typ  diagram.Type
		want string
	}{
		{diagram.TypeSQL, "#70AD47"},
		{diagram.TypeLoadBalancer, "#7030A0"},
		{diagram.Type("bogus"), defaultColor},
	}
	for _, tt := range tests {
		if got := typeColor(tt.typ); got != tt.want {
			t.Errorf("typeColor(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestStencilMaster(t *testing.T) {
	tests := []struct {
		typ  diagram.Type
		want string
	}{
		{diagram.TypeVM, "Virtual Machine"},
		{diagram.TypeKeyVault, "Key Vault"},
		{diagram.TypeDDoS, "Rectangle"},
		{diagram.Type("bogus"), "Rectangle"},
	}
	for _, tt := range tests {
		if got := stencilMaster(tt.typ); got != tt.want {
			t.Errorf("stencilMaster(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
