package export

import (
	"github.com/archetype-cli/archetype/pkg/diagram"
)

// =============================================================================
// Color Tables
// =============================================================================

// tierColors keys fill colors by tier, used by the package exporter.
var tierColors = map[diagram.Tier]string{
	diagram.TierSecurity:    "#B91C1C",
	diagram.TierNetwork:     "#00B0F0",
	diagram.TierApplication: "#E07C24",
	diagram.TierCompute:     "#4472C4",
	diagram.TierData:        "#70AD47",
	diagram.TierManagement:  "#6B7280",
	diagram.TierIntegration: "#10B981",
}

// typeColors keys fill colors by component type, used by the SVG preview.
var typeColors = map[diagram.Type]string{
	diagram.TypeVM:         "#4472C4",
	diagram.TypeVMScaleSet: "#4472C4",
	diagram.TypeKubernetes: "#4472C4",
	diagram.TypeContainer:  "#4472C4",
	diagram.TypeAppService: "#E07C24",
	diagram.TypeFunction:   "#E07C24",

	diagram.TypeSQL:        "#70AD47",
	diagram.TypeMySQL:      "#70AD47",
	diagram.TypePostgreSQL: "#70AD47",
	diagram.TypeCosmosDB:   "#70AD47",
	diagram.TypeRedisCache: "#70AD47",

	diagram.TypeStorage:   "#FFC000",
	diagram.TypeBackup:    "#FFC000",
	diagram.TypeFileShare: "#FFC000",

	diagram.TypeVNet:         "#00B0F0",
	diagram.TypeSubnet:       "#00B0F0",
	diagram.TypeLoadBalancer: "#7030A0",
	diagram.TypeAppGateway:   "#7030A0",
	diagram.TypeFrontDoor:    "#7030A0",
	diagram.TypeCDN:          "#7030A0",
	diagram.TypeVPNGateway:   "#7030A0",
	diagram.TypeExpressRoute: "#7030A0",

	diagram.TypeSecurityGroup: "#B91C1C",
	diagram.TypeFirewall:      "#B91C1C",
	diagram.TypeDDoS:          "#B91C1C",
	diagram.TypeKeyVault:      "#B91C1C",
	diagram.TypeDirectory:     "#B91C1C",
	diagram.TypeSentinel:      "#B91C1C",

	diagram.TypeMonitor:      "#6B7280",
	diagram.TypeLogWorkspace: "#6B7280",
	diagram.TypeAppInsights:  "#6B7280",

	diagram.TypeServiceBus: "#10B981",
	diagram.TypeEventGrid:  "#10B981",
	diagram.TypeAPIMgmt:    "#10B981",
}

const defaultColor = "#4472C4"

func tierColor(t diagram.Tier) string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return defaultColor
}

func typeColor(t diagram.Type) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return defaultColor
}

// =============================================================================
// Stencil Masters
// =============================================================================

// stencilMasters maps component types to the diagramming-tool master shape
// name written into the package's page part.
var stencilMasters = map[diagram.Type]string{
	diagram.TypeVM:         "Virtual Machine",
	diagram.TypeVMScaleSet: "Virtual Machine Scale Set",
	diagram.TypeKubernetes: "Kubernetes Service",
	diagram.TypeContainer:  "Container Instances",
	diagram.TypeAppService: "App Services",
	diagram.TypeFunction:   "Function App",

	diagram.TypeSQL:        "SQL Database",
	diagram.TypeMySQL:      "Database for MySQL",
	diagram.TypePostgreSQL: "Database for PostgreSQL",
	diagram.TypeCosmosDB:   "Cosmos DB",
	diagram.TypeRedisCache: "Cache for Redis",

	diagram.TypeStorage:   "Storage Account",
	diagram.TypeBackup:    "Backup",
	diagram.TypeFileShare: "Files",

	diagram.TypeVNet:         "Virtual Network",
	diagram.TypeSubnet:       "Subnet",
	diagram.TypeLoadBalancer: "Load Balancer",
	diagram.TypeAppGateway:   "Application Gateway",
	diagram.TypeVPNGateway:   "VPN Gateway",

	diagram.TypeSecurityGroup: "Network Security Group",
	diagram.TypeFirewall:      "Firewall",
	diagram.TypeKeyVault:      "Key Vault",
	diagram.TypeDirectory:     "Active Directory",

	diagram.TypeMonitor:      "Monitor",
	diagram.TypeLogWorkspace: "Log Analytics",
}

func stencilMaster(t diagram.Type) string {
	if m, ok := stencilMasters[t]; ok {
		return m
	}
	return "Rectangle"
}
