package layout

import (
	"github.com/archetype-cli/archetype/pkg/diagram"
)

// Canvas and placement constants. The canvas is wider than the SVG preview
// viewport; exporters scale as needed.
const (
	CanvasWidth = 1200

	startX         = 100
	defaultWidth   = 140
	defaultHeight  = 90
	compactWidth   = 120
	compactHeight  = 80
	containerWidth = 300
	containerHght  = 120
	subnetWidth    = 100
	subnetHeight   = 60
)

// BandY returns the fixed vertical band for a tier.
func BandY(t diagram.Tier) float64 {
	switch t {
	case diagram.TierSecurity:
		return 50
	case diagram.TierNetwork:
		return 200
	case diagram.TierApplication, diagram.TierCompute:
		return 350
	case diagram.TierData:
		return 500
	default: // management, integration
		return 650
	}
}

// Apply assigns a position to every component in place. Components are
// grouped by tier and placed band by band; within a band, placement depends
// only on the tier, the sub-group, and the within-band discovery index.
func Apply(components []*diagram.Component) {
	byTier := make(map[diagram.Tier][]*diagram.Component)
	for _, c := range components {
		byTier[c.Tier] = append(byTier[c.Tier], c)
	}

	for _, tier := range diagram.Tiers {
		band := byTier[tier]
		if len(band) == 0 {
			continue
		}
		y := BandY(tier)
		switch tier {
		case diagram.TierNetwork:
			placeNetwork(band, y)
		case diagram.TierSecurity:
			placeSecurity(band, y)
		default:
			placeRow(band, y)
		}
	}
}

// placeRow spaces components evenly in a single horizontal row: the slot
// width is the canvas width divided by the component count.
func placeRow(band []*diagram.Component, y float64) {
	spacing := float64(CanvasWidth) / float64(len(band))
	for i, c := range band {
		c.Position = &diagram.Position{
			X:      startX + float64(i)*spacing,
			Y:      y,
			Width:  defaultWidth,
			Height: defaultHeight,
		}
	}
}

// placeSecurity spreads the band across the top with a fixed margin on both
// sides.
func placeSecurity(band []*diagram.Component, y float64) {
	spacing := float64(CanvasWidth-2*startX) / float64(len(band))
	for i, c := range band {
		c.Position = &diagram.Position{
			X:      startX + float64(i)*spacing,
			Y:      y,
			Width:  compactWidth,
			Height: compactHeight,
		}
	}
}

// placeNetwork lays the network band out by sub-group: containers get the
// widest footprint, subnets nest below the container row, then gateways,
// load balancers, and whatever is left, left to right in discovery order.
func placeNetwork(band []*diagram.Component, y float64) {
	var containers, subnets, gateways, balancers, rest []*diagram.Component
	for _, c := range band {
		switch c.Type {
		case diagram.TypeVNet:
			containers = append(containers, c)
		case diagram.TypeSubnet:
			subnets = append(subnets, c)
		case diagram.TypeAppGateway, diagram.TypeVPNGateway:
			gateways = append(gateways, c)
		case diagram.TypeLoadBalancer:
			balancers = append(balancers, c)
		default:
			rest = append(rest, c)
		}
	}

	x := float64(startX)
	for _, c := range containers {
		c.Position = &diagram.Position{X: x, Y: y, Width: containerWidth, Height: containerHght}
		x += containerWidth + 50
	}

	sx := float64(startX + 20)
	for _, c := range subnets {
		c.Position = &diagram.Position{X: sx, Y: y + 40, Width: subnetWidth, Height: subnetHeight}
		sx += subnetWidth + 20
	}

	for _, group := range [][]*diagram.Component{gateways, balancers, rest} {
		for _, c := range group {
			c.Position = &diagram.Position{X: x, Y: y, Width: compactWidth, Height: compactHeight}
			x += compactWidth + 20
		}
	}
}
