package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/archetype-cli/archetype/pkg/diagram"
)

// SVG canvas dimensions. The preview is best-effort: no overlap avoidance is
// attempted beyond what the layout engine already guarantees.
const (
	SVGWidth  = 1000
	SVGHeight = 700
)

const svgDefs = `  <defs>
    <style>
      .component-rect { stroke: #2E4A8B; stroke-width: 2; }
      .component-text { fill: white; font-family: Arial; font-size: 12px; text-anchor: middle; }
      .tier-label { fill: #333; font-family: Arial; font-size: 14px; font-weight: bold; }
      .connection-line { stroke: #666; stroke-width: 2; marker-end: url(#arrowhead); }
    </style>
    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
      <polygon points="0 0, 10 3.5, 0 7" fill="#666" />
    </marker>
  </defs>
`

// tierCaptions holds the static per-tier caption text positions.
var tierCaptions = []struct {
	tier diagram.Tier
	y    float64
}{
	{diagram.TierNetwork, 100},
	{diagram.TierApplication, 250},
	{diagram.TierCompute, 400},
	{diagram.TierData, 550},
}

// RenderSVG renders the diagram to SVG bytes. Every component must be
// positioned; the pipeline guarantees this before any export runs.
func RenderSVG(d *diagram.Diagram) []byte {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n",
		SVGWidth, SVGHeight)
	buf.WriteString(svgDefs)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(d.Title))

	for _, cap := range tierCaptions {
		if d.HasTier(cap.tier) {
			fmt.Fprintf(&buf, `  <text x="20" y="%.0f" class="tier-label">%s Tier</text>`+"\n",
				cap.y+40, titleCase(string(cap.tier)))
		}
	}

	for _, c := range d.Components {
		renderComponent(&buf, c)
	}

	for _, c := range d.Components {
		for _, target := range c.Connections {
			t := d.Component(target)
			if t == nil || c.Position == nil || t.Position == nil {
				continue
			}
			// Source bottom-center to target top-center.
			fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="connection-line"/>`+"\n",
				c.Position.CenterX(), c.Position.Bottom(),
				t.Position.CenterX(), t.Position.Y)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// ExportSVG writes the SVG preview to a file at path.
func ExportSVG(d *diagram.Diagram, path string) error {
	if err := os.WriteFile(path, RenderSVG(d), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderComponent(buf *bytes.Buffer, c *diagram.Component) {
	p := c.Position
	if p == nil {
		return
	}
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" class="component-rect" rx="5"/>`+"\n",
		p.X, p.Y, p.Width, p.Height, typeColor(c.Type))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" class="component-text">%s</text>`+"\n",
		p.CenterX(), p.Y+p.Height/2-10, escape(c.Name))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" class="component-text" font-size="10">%s</text>`+"\n",
		p.CenterX(), p.Y+p.Height/2+10, escape(c.ServiceLabel))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
