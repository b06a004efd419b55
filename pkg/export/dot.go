package export

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"

	"github.com/archetype-cli/archetype/pkg/diagram"
)

// ToDOT converts the diagram's component adjacency to Graphviz DOT format
// for a node-link view. Nodes are filled with their tier color and grouped
// into per-tier ranks so the rendered graph mirrors the banded layout.
func ToDOT(d *diagram.Diagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph architecture {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("\n")

	for _, tier := range diagram.Tiers {
		band := d.ByTier(tier)
		if len(band) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  { rank=same;")
		for _, c := range band {
			fmt.Fprintf(&buf, " %q;", c.ID)
		}
		buf.WriteString(" }\n")
	}
	buf.WriteString("\n")

	for _, c := range d.Components {
		label := fmt.Sprintf("%s\n%s", c.Name, c.ServiceLabel)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", c.ID, label, tierColor(c.Tier))
	}

	buf.WriteString("\n")
	for _, c := range d.Components {
		for _, target := range c.Connections {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.ID, target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders the DOT representation to SVG bytes using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportDOT writes the DOT text to a file at path.
func ExportDOT(d *diagram.Diagram, path string) error {
	if err := os.WriteFile(path, []byte(ToDOT(d)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
