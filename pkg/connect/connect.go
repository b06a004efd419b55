package connect

import (
	"strings"

	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
	"github.com/archetype-cli/archetype/pkg/topology"
)

// Infer populates the Connections of every component in place. Components
// must already be positioned; the insight set is accepted for parity with the
// other stages but no current rule consumes it.
func Infer(components []*diagram.Component, insights *inventory.InsightSet) {
	g := newGrouping(components)

	connectMembership(g)
	connectIngress(g)
	connectTierPairs(g)
	connectDiagnostics(g)
	connectHubs(g, components)
	connectPerimeter(g)
	connectSubnetPeers(components)

	// Correctness invariant, always last: literal dedupe and self-strip.
	for _, c := range components {
		c.Connections = dedupe(c.ID, c.Connections)
	}
}

// grouping indexes components by the categories the rules operate on.
type grouping struct {
	networks      []*diagram.Component
	subnets       []*diagram.Component
	secGroups     []*diagram.Component
	compute       []*diagram.Component
	appServices   []*diagram.Component
	databases     []*diagram.Component
	storage       []*diagram.Component
	gateways      []*diagram.Component
	loadBalancers []*diagram.Component
	firewalls     []*diagram.Component
	secretStores  []*diagram.Component
	monitoring    []*diagram.Component
}

func newGrouping(components []*diagram.Component) *grouping {
	g := &grouping{}
	for _, c := range components {
		switch c.Type {
		case diagram.TypeVNet:
			g.networks = append(g.networks, c)
		case diagram.TypeSubnet:
			g.subnets = append(g.subnets, c)
		case diagram.TypeSecurityGroup:
			g.secGroups = append(g.secGroups, c)
		case diagram.TypeAppService:
			g.appServices = append(g.appServices, c)
		case diagram.TypeStorage, diagram.TypeFileShare:
			g.storage = append(g.storage, c)
		case diagram.TypeAppGateway:
			g.gateways = append(g.gateways, c)
		case diagram.TypeLoadBalancer:
			g.loadBalancers = append(g.loadBalancers, c)
		case diagram.TypeFirewall:
			g.firewalls = append(g.firewalls, c)
		case diagram.TypeKeyVault:
			g.secretStores = append(g.secretStores, c)
		case diagram.TypeMonitor, diagram.TypeLogWorkspace:
			g.monitoring = append(g.monitoring, c)
		default:
			if diagram.IsDatabase(c.Type) {
				g.databases = append(g.databases, c)
			} else if c.Tier == diagram.TierCompute {
				g.compute = append(g.compute, c)
			}
		}
	}
	return g
}

// Rule 1: container→child membership. The network container connects to its
// subnets; security groups and their subnets connect both ways.
func connectMembership(g *grouping) {
	for _, vnet := range g.networks {
		for _, sn := range g.subnets {
			if sn.Attr(topology.AttrParentNetwork) == vnet.ID {
				vnet.Connect(sn.ID)
			}
		}
	}
	for _, nsg := range g.secGroups {
		target := nsg.Attr(topology.AttrAssociatedSubnet)
		for _, sn := range g.subnets {
			if sn.ID == target {
				nsg.Connect(sn.ID)
				sn.Connect(nsg.ID)
			}
		}
	}
}

// Rule 2: ingress fan-out. Gateways reach everything matching the web
// predicate; load balancers reach their recorded backend pool, or every
// compute component when none was recorded.
func connectIngress(g *grouping) {
	for _, gw := range g.gateways {
		for _, c := range g.appServices {
			gw.Connect(c.ID)
		}
		for _, c := range g.compute {
			if isWebFacing(c) {
				gw.Connect(c.ID)
			}
		}
	}
	for _, lb := range g.loadBalancers {
		if pool := lb.Attr(topology.AttrBackendPools); pool != "" {
			lb.Connect(strings.Split(pool, ",")...)
			continue
		}
		for _, c := range g.compute {
			lb.Connect(c.ID)
		}
	}
}

// Rule 3: tier-pair fan-out. Every application/compute component connects to
// every data-tier database and storage component.
func connectTierPairs(g *grouping) {
	appTier := append(append([]*diagram.Component{}, g.appServices...), g.compute...)
	for _, app := range appTier {
		for _, db := range g.databases {
			app.Connect(db.ID)
		}
		for _, st := range g.storage {
			app.Connect(st.ID)
		}
	}
}

// Rule 4: the diagnostic edge. Every compute component connects to the first
// storage component only.
func connectDiagnostics(g *grouping) {
	if len(g.storage) == 0 {
		return
	}
	first := g.storage[0]
	for _, c := range g.compute {
		c.Connect(first.ID)
	}
}

// Rule 5: fan-in hubs. The secret store is linked with every
// compute/application/database component; monitoring with every component
// outside the management tier.
func connectHubs(g *grouping, components []*diagram.Component) {
	for _, kv := range g.secretStores {
		for _, c := range g.compute {
			kv.Connect(c.ID)
		}
		for _, c := range g.appServices {
			kv.Connect(c.ID)
		}
		for _, c := range g.databases {
			kv.Connect(c.ID)
		}
	}
	for _, mon := range g.monitoring {
		for _, c := range components {
			if c.Tier != diagram.TierManagement {
				mon.Connect(c.ID)
			}
		}
	}
}

// Rule 6: the perimeter edge. The firewall inspects every subnet.
func connectPerimeter(g *grouping) {
	for _, fw := range g.firewalls {
		for _, sn := range g.subnets {
			fw.Connect(sn.ID)
		}
	}
}

// Rule 7: same-subnet pairwise edges. Bucket membership is inferred from tier
// or name substring, mirroring the subnet synthesis rules.
func connectSubnetPeers(components []*diagram.Component) {
	buckets := [][]*diagram.Component{
		filter(components, func(c *diagram.Component) bool {
			return c.Tier == diagram.TierApplication || strings.Contains(strings.ToLower(c.Name), "web")
		}),
		filter(components, func(c *diagram.Component) bool {
			return c.Tier == diagram.TierCompute
		}),
		filter(components, func(c *diagram.Component) bool {
			return diagram.IsDatabase(c.Type) || c.Type == diagram.TypeStorage
		}),
	}
	for _, bucket := range buckets {
		for _, a := range bucket {
			for _, b := range bucket {
				if a.ID != b.ID {
					a.Connect(b.ID)
				}
			}
		}
	}
}

// isWebFacing reports whether a compute component serves web traffic, judged
// by its name or operating system.
func isWebFacing(c *diagram.Component) bool {
	if strings.Contains(strings.ToLower(c.Name), "web") {
		return true
	}
	return strings.Contains(strings.ToLower(c.Attr("operating_system")), "iis")
}

func filter(cs []*diagram.Component, keep func(*diagram.Component) bool) []*diagram.Component {
	var out []*diagram.Component
	for _, c := range cs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// dedupe removes duplicate ids and any self-reference, preserving first-seen
// order so repeated runs serialize identically.
func dedupe(self string, ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == self {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
