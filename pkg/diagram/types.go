package diagram

import (
	"time"
)

// =============================================================================
// Tiers - Single Source of Truth
// =============================================================================

// Tier is one of the seven coarse architectural layers used for both
// classification and spatial layout banding.
type Tier string

// The fixed tier values. Every component carries exactly one of these.
const (
	TierSecurity    Tier = "security"
	TierNetwork     Tier = "network"
	TierApplication Tier = "application"
	TierCompute     Tier = "compute"
	TierData        Tier = "data"
	TierManagement  Tier = "management"
	TierIntegration Tier = "integration"
)

// Tiers lists all tiers in layout band order (top to bottom).
var Tiers = []Tier{
	TierSecurity,
	TierNetwork,
	TierApplication,
	TierCompute,
	TierData,
	TierManagement,
	TierIntegration,
}

// Valid reports whether t is one of the seven fixed tier values.
func (t Tier) Valid() bool {
	switch t {
	case TierSecurity, TierNetwork, TierApplication, TierCompute,
		TierData, TierManagement, TierIntegration:
		return true
	}
	return false
}

// =============================================================================
// Component Types
// =============================================================================

// Type identifies the kind of target-platform component. The set is closed:
// the classifier and synthesizer only ever produce values declared here.
type Type string

// Compute types.
const (
	TypeVM         Type = "vm"
	TypeVMScaleSet Type = "vmss"
	TypeKubernetes Type = "aks"
	TypeContainer  Type = "container"
	TypeAppService Type = "appservice"
	TypeFunction   Type = "function"
)

// Database types.
const (
	TypeSQL        Type = "sql"
	TypeMySQL      Type = "mysql"
	TypePostgreSQL Type = "postgresql"
	TypeCosmosDB   Type = "cosmosdb"
	TypeRedisCache Type = "redis"
)

// Storage types.
const (
	TypeStorage   Type = "storage"
	TypeBackup    Type = "backup"
	TypeFileShare Type = "fileshare"
)

// Network types.
const (
	TypeVNet          Type = "vnet"
	TypeSubnet        Type = "subnet"
	TypeLoadBalancer  Type = "loadbalancer"
	TypeAppGateway    Type = "appgateway"
	TypeFrontDoor     Type = "frontdoor"
	TypeCDN           Type = "cdn"
	TypeVPNGateway    Type = "vpngateway"
	TypeExpressRoute  Type = "expressroute"
)

// Security types.
const (
	TypeSecurityGroup Type = "nsg"
	TypeFirewall      Type = "firewall"
	TypeDDoS          Type = "ddos"
	TypeKeyVault      Type = "keyvault"
	TypeDirectory     Type = "aad"
	TypeSentinel      Type = "sentinel"
)

// Management types.
const (
	TypeMonitor      Type = "monitor"
	TypeLogWorkspace Type = "loganalytics"
	TypeAppInsights  Type = "appinsights"
)

// Integration types.
const (
	TypeServiceBus Type = "servicebus"
	TypeEventGrid  Type = "eventgrid"
	TypeAPIMgmt    Type = "apimanagement"
)

// TierOf returns the tier a component type belongs to.
// Unknown types map to the compute tier, matching classifier defaulting.
func TierOf(t Type) Tier {
	if tier, ok := typeTiers[t]; ok {
		return tier
	}
	return TierCompute
}

var typeTiers = map[Type]Tier{
	TypeVM:         TierCompute,
	TypeVMScaleSet: TierCompute,
	TypeKubernetes: TierCompute,
	TypeContainer:  TierCompute,
	TypeAppService: TierApplication,
	TypeFunction:   TierApplication,

	TypeSQL:        TierData,
	TypeMySQL:      TierData,
	TypePostgreSQL: TierData,
	TypeCosmosDB:   TierData,
	TypeRedisCache: TierData,
	TypeStorage:    TierData,
	TypeBackup:     TierData,
	TypeFileShare:  TierData,

	TypeVNet:         TierNetwork,
	TypeSubnet:       TierNetwork,
	TypeLoadBalancer: TierNetwork,
	TypeAppGateway:   TierNetwork,
	TypeFrontDoor:    TierNetwork,
	TypeCDN:          TierNetwork,
	TypeVPNGateway:   TierNetwork,
	TypeExpressRoute: TierNetwork,

	TypeSecurityGroup: TierSecurity,
	TypeFirewall:      TierSecurity,
	TypeDDoS:          TierSecurity,
	TypeKeyVault:      TierSecurity,
	TypeDirectory:     TierSecurity,
	TypeSentinel:      TierSecurity,

	TypeMonitor:      TierManagement,
	TypeLogWorkspace: TierManagement,
	TypeAppInsights:  TierManagement,

	TypeServiceBus: TierIntegration,
	TypeEventGrid:  TierIntegration,
	TypeAPIMgmt:    TierIntegration,
}

// IsDatabase reports whether t is a database component type.
func IsDatabase(t Type) bool {
	switch t {
	case TypeSQL, TypeMySQL, TypePostgreSQL, TypeCosmosDB, TypeRedisCache:
		return true
	}
	return false
}

// =============================================================================
// Migration Strategies
// =============================================================================

// MigrationType is the migration strategy chosen for an inventory-derived
// component. Synthesized components carry no migration type.
type MigrationType string

const (
	MigrationLiftAndShift MigrationType = "lift-and-shift"
	MigrationModernize    MigrationType = "modernize"
	MigrationContainerize MigrationType = "containerize"
)

// =============================================================================
// Position
// =============================================================================

// Position is the deterministic 2D placement assigned by the layout engine.
// It is nil until layout runs and is assigned exactly once.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the position.
func (p Position) CenterX() float64 { return p.X + p.Width/2 }

// Bottom returns the bottom edge Y coordinate.
func (p Position) Bottom() float64 { return p.Y + p.Height }

// =============================================================================
// Component
// =============================================================================

// Component is one node of the target architecture.
//
// SourceRef is a weak back-reference (id only, never an owning relation) to
// the inventory item the component was classified from; it is empty for
// synthesized components.
type Component struct {
	ID            string            `json:"component_id"`
	Type          Type              `json:"component_type"`
	Name          string            `json:"name"`
	ServiceLabel  string            `json:"azure_service"`
	Tier          Tier              `json:"tier"`
	Position      *Position         `json:"position,omitempty"`
	Attributes    map[string]string `json:"properties,omitempty"`
	Connections   []string          `json:"connections"`
	SourceRef     string            `json:"source_server,omitempty"`
	MigrationType MigrationType     `json:"migration_type,omitempty"`
}

// Synthesized reports whether the component was added by the topology
// synthesizer rather than classified from an inventory item.
func (c *Component) Synthesized() bool { return c.SourceRef == "" }

// Attr returns the named attribute, or "" if unset.
func (c *Component) Attr(key string) string {
	if c.Attributes == nil {
		return ""
	}
	return c.Attributes[key]
}

// SetAttr sets an attribute, allocating the map on first use.
func (c *Component) SetAttr(key, value string) {
	if c.Attributes == nil {
		c.Attributes = make(map[string]string)
	}
	c.Attributes[key] = value
}

// Connect appends target ids to the component's connection set.
// Duplicates and self-references are tolerated here; the inferencer's final
// pass removes them.
func (c *Component) Connect(ids ...string) {
	c.Connections = append(c.Connections, ids...)
}

// =============================================================================
// Diagram
// =============================================================================

// Metadata carries the aggregate counters consumed by downstream reporting.
// Reporting reads only these numbers, never positions or connections.
type Metadata struct {
	SourceServers    int    `json:"source_servers"`
	ComponentCount   int    `json:"azure_components"`
	SynthesizedCount int    `json:"synthesized_components"`
	InsightsUsed     int    `json:"insights_used"`
	GenerationMethod string `json:"generation_method"`
}

// Diagram is a complete target architecture. Component order reflects
// classification/synthesis order and carries no semantic meaning.
type Diagram struct {
	ID         string       `json:"diagram_id"`
	Title      string       `json:"title"`
	Created    time.Time    `json:"created_date"`
	Metadata   Metadata     `json:"metadata"`
	Components []*Component `json:"components"`
}

// Component returns the component with the given id, or nil.
func (d *Diagram) Component(id string) *Component {
	for _, c := range d.Components {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ByType returns all components of the given type in diagram order.
func (d *Diagram) ByType(t Type) []*Component {
	var out []*Component
	for _, c := range d.Components {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// ByTier returns all components in the given tier in diagram order.
func (d *Diagram) ByTier(t Tier) []*Component {
	var out []*Component
	for _, c := range d.Components {
		if c.Tier == t {
			out = append(out, c)
		}
	}
	return out
}

// HasTier reports whether any component sits in the given tier.
func (d *Diagram) HasTier(t Tier) bool {
	for _, c := range d.Components {
		if c.Tier == t {
			return true
		}
	}
	return false
}
