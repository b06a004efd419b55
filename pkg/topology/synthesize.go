package topology

import (
	"strings"

	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
)

// Well-known ids of synthesized components, referenced by the connection
// inferencer and by tests.
const (
	IDNetwork      = "vnet_main"
	IDSubnetWeb    = "subnet_web"
	IDSubnetApp    = "subnet_app"
	IDSubnetData   = "subnet_data"
	IDGateway      = "appgw_main"
	IDLoadBalancer = "lb_internal"
	IDFirewall     = "fw_main"
	IDSecretStore  = "kv_main"
	IDStorage      = "storage_main"
	IDBackup       = "backup_main"
	IDMonitor      = "monitor_main"
	IDLogWorkspace = "la_main"
	IDHybrid       = "vpngw_main"
)

// Attribute keys written by the synthesizer.
const (
	AttrParentNetwork    = "parent_vnet"
	AttrAssociatedSubnet = "associated_subnet"
	AttrBackendPools     = "backend_pools"
)

// Synthesize returns the additional components implied by the classified
// ones, in a fixed order. The input slice is not modified.
func Synthesize(classified []*diagram.Component, insights *inventory.InsightSet) []*diagram.Component {
	hasWebTier := hasTier(classified, diagram.TierApplication)
	hasDataTier := hasTier(classified, diagram.TierData)
	hasComputeTier := hasTier(classified, diagram.TierCompute)

	var out []*diagram.Component

	out = append(out, component(IDNetwork, diagram.TypeVNet, "Production VNet", "Azure Virtual Network", map[string]string{
		"address_space": "10.0.0.0/16",
		"dns_servers":   "168.63.129.16",
	}))

	// Subnets by tier presence, one security group per subnet added.
	var subnets []string
	if hasWebTier || hasComputeTier {
		out = append(out, subnet(IDSubnetWeb, "Web Subnet", "10.0.1.0/24"))
		subnets = append(subnets, "web")
	}
	if hasComputeTier || hasWebTier {
		out = append(out, subnet(IDSubnetApp, "Application Subnet", "10.0.2.0/24"))
		subnets = append(subnets, "app")
	}
	if hasDataTier {
		out = append(out, subnet(IDSubnetData, "Data Subnet", "10.0.3.0/24"))
		subnets = append(subnets, "data")
	}
	for _, kind := range subnets {
		out = append(out, securityGroup(kind))
	}

	// Perimeter gateway for web-facing services.
	if hasWebTier || hasWebService(classified) {
		out = append(out, component(IDGateway, diagram.TypeAppGateway, "Application Gateway", "Azure Application Gateway", map[string]string{
			"sku":      "Standard_v2",
			"subnet":   IDSubnetWeb,
			"features": "WAF, SSL Termination, URL Routing",
		}))
	}

	// Load balancer only when there is something to balance across.
	pool := tierIDs(classified, diagram.TierCompute)
	if len(pool) > 1 {
		out = append(out, component(IDLoadBalancer, diagram.TypeLoadBalancer, "Internal Load Balancer", "Azure Load Balancer", map[string]string{
			"type":           "Internal",
			"sku":            "Standard",
			AttrBackendPools: strings.Join(pool, ","),
		}))
	}

	// Baseline security and observability set, always present.
	out = append(out, component(IDFirewall, diagram.TypeFirewall, "Azure Firewall", "Azure Firewall", map[string]string{
		"sku":               "Standard",
		"threat_intel_mode": "Alert",
	}))
	out = append(out, component(IDSecretStore, diagram.TypeKeyVault, "Key Vault", "Azure Key Vault", map[string]string{
		"access_policies":  "Managed Identity",
		"soft_delete":      "true",
		"purge_protection": "true",
	}))

	// General storage only when the inventory brought none of its own.
	if !hasType(classified, diagram.TypeStorage) {
		out = append(out, component(IDStorage, diagram.TypeStorage, "General Storage", "Azure Storage Account", map[string]string{
			"type":            "Standard_LRS",
			"tier":            "Hot",
			"secure_transfer": "true",
		}))
	}

	out = append(out, component(IDBackup, diagram.TypeBackup, "Backup Vault", "Azure Backup", map[string]string{
		"vault_type":    "Recovery Services",
		"backup_policy": "Daily",
		"retention":     "30 days",
	}))
	out = append(out, component(IDMonitor, diagram.TypeMonitor, "Azure Monitor", "Azure Monitor", map[string]string{
		"metrics_retention": "93 days",
		"log_retention":     "30 days",
	}))
	out = append(out, component(IDLogWorkspace, diagram.TypeLogWorkspace, "Log Analytics Workspace", "Log Analytics", map[string]string{
		"retention": "30 days",
		"sku":       "PerGB2018",
	}))

	// Hybrid connectivity only on an explicit requirement flag.
	if insights != nil && insights.NeedsHybridConnectivity {
		out = append(out, component(IDHybrid, diagram.TypeVPNGateway, "VPN Gateway", "Azure VPN Gateway", map[string]string{
			"sku":      "VpnGw1",
			"vpn_type": "RouteBased",
		}))
	}

	return out
}

// =============================================================================
// Component Builders
// =============================================================================

func component(id string, typ diagram.Type, name, service string, attrs map[string]string) *diagram.Component {
	return &diagram.Component{
		ID:           id,
		Type:         typ,
		Name:         name,
		ServiceLabel: service,
		Tier:         diagram.TierOf(typ),
		Attributes:   attrs,
	}
}

func subnet(id, name, prefix string) *diagram.Component {
	return component(id, diagram.TypeSubnet, name, "Azure Subnet", map[string]string{
		"address_prefix":  prefix,
		AttrParentNetwork: IDNetwork,
	})
}

func securityGroup(kind string) *diagram.Component {
	c := component("nsg_"+kind, diagram.TypeSecurityGroup,
		capitalize(kind)+" NSG", "Network Security Group", map[string]string{
			AttrAssociatedSubnet: "subnet_" + kind,
		})
	for k, v := range securityRules(kind) {
		c.Attributes[k] = v
	}
	return c
}

// securityRules returns the inbound rule table for a subnet kind. The deny-all
// baseline is shared; allows depend on the kind.
func securityRules(kind string) map[string]string {
	rules := map[string]string{"rule_deny_all_inbound": "priority=4000 deny *"}
	switch kind {
	case "web":
		rules["rule_allow_http"] = "priority=1000 allow tcp/80"
		rules["rule_allow_https"] = "priority=1010 allow tcp/443"
	case "app":
		rules["rule_allow_web_to_app"] = "priority=1000 allow tcp/8080 from 10.0.1.0/24"
	case "data":
		rules["rule_allow_app_to_data"] = "priority=1000 allow tcp/1433 from 10.0.2.0/24"
	}
	return rules
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// =============================================================================
// Predicates
// =============================================================================

func hasTier(cs []*diagram.Component, t diagram.Tier) bool {
	for _, c := range cs {
		if c.Tier == t {
			return true
		}
	}
	return false
}

func hasType(cs []*diagram.Component, t diagram.Type) bool {
	for _, c := range cs {
		if c.Type == t {
			return true
		}
	}
	return false
}

func hasWebService(cs []*diagram.Component) bool {
	for _, c := range cs {
		s := strings.ToLower(c.ServiceLabel)
		if strings.Contains(s, "web") || strings.Contains(s, "app service") {
			return true
		}
	}
	return false
}

func tierIDs(cs []*diagram.Component, t diagram.Tier) []string {
	var ids []string
	for _, c := range cs {
		if c.Tier == t {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
