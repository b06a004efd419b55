package classify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
)

// Classifier maps inventory items to components using an injected lexicon.
// The zero value is not usable; construct with New.
type Classifier struct {
	lexicon Lexicon
}

// New creates a classifier with the given lexicon.
func New(lexicon Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

// Classify maps one inventory item to a component. seq is the 1-based
// position of the item in the inventory, used for the stable component id.
// The returned component has type, tier, and service label set, and no
// position or connections.
func (c *Classifier) Classify(item inventory.Item, insights *inventory.InsightSet, seq int) *diagram.Component {
	service := c.serviceFor(item, insights)
	typ := typeForService(service)

	name := item.Name
	if name == "" {
		name = fmt.Sprintf("Server_%d", seq)
	}

	comp := &diagram.Component{
		ID:            fmt.Sprintf("comp_%d", seq),
		Type:          typ,
		Name:          name,
		ServiceLabel:  service,
		Tier:          diagram.TierOf(typ),
		SourceRef:     item.Name,
		MigrationType: c.migrationType(item, insights),
		Attributes: map[string]string{
			"cpu_cores":        strconv.Itoa(item.CPUCores),
			"memory_gb":        formatFloat(item.MemoryGB),
			"disk_size_gb":     formatFloat(item.DiskSizeGB),
			"operating_system": item.OS,
			"original_server":  item.Name,
			"estimated_cost":   item.EstimatedCost,
			"readiness":        item.Readiness,
			"recommendation":   item.Recommendation,
		},
	}
	return comp
}

// ClassifyAll classifies every item in order.
func (c *Classifier) ClassifyAll(items []inventory.Item, insights *inventory.InsightSet) []*diagram.Component {
	out := make([]*diagram.Component, 0, len(items))
	for i, item := range items {
		out = append(out, c.Classify(item, insights, i+1))
	}
	return out
}

// serviceFor runs the fixed rule order: recommendation lexicon, role/OS
// lexicon, insight fallback, default.
func (c *Classifier) serviceFor(item inventory.Item, insights *inventory.InsightSet) string {
	if item.Recommendation != "" {
		if s := match(c.lexicon.Recommendation, strings.ToLower(item.Recommendation)); s != "" {
			return s
		}
	}

	roleInfo := strings.ToLower(item.Role + " " + item.OS)
	if s := match(c.lexicon.Role, roleInfo); s != "" {
		return s
	}

	if insights != nil {
		if insights.HasCategory("container") {
			return ServiceContainers
		}
		if insights.HasCategory("web") && item.MemoryGB <= c.lexicon.WebAppMemoryGB {
			return ServiceAppService
		}
	}

	return ServiceVM
}

// migrationType picks the migration strategy for an item.
func (c *Classifier) migrationType(item inventory.Item, insights *inventory.InsightSet) diagram.MigrationType {
	if insights != nil && insights.HasCategory("container") {
		return diagram.MigrationContainerize
	}
	if strings.Contains(strings.ToLower(item.OS), "windows") &&
		item.MemoryGB <= c.lexicon.ModernizeMemoryGB {
		role := strings.ToLower(item.Role)
		if strings.Contains(role, "web") || strings.Contains(role, "iis") {
			return diagram.MigrationModernize
		}
	}
	return diagram.MigrationLiftAndShift
}

// typeForService widens a service label to the closed component type enum.
// The checks run most-specific first; unknown labels default to a VM.
func typeForService(service string) diagram.Type {
	s := strings.ToLower(service)
	switch {
	case strings.Contains(s, "virtual machine"):
		return diagram.TypeVM
	case strings.Contains(s, "kubernetes"):
		return diagram.TypeKubernetes
	case strings.Contains(s, "container"):
		return diagram.TypeContainer
	case strings.Contains(s, "mysql"):
		return diagram.TypeMySQL
	case strings.Contains(s, "postgresql"):
		return diagram.TypePostgreSQL
	case strings.Contains(s, "cosmos"):
		return diagram.TypeCosmosDB
	case strings.Contains(s, "sql"), strings.Contains(s, "database"):
		return diagram.TypeSQL
	case strings.Contains(s, "app service"):
		return diagram.TypeAppService
	case strings.Contains(s, "function"):
		return diagram.TypeFunction
	case strings.Contains(s, "storage"):
		return diagram.TypeStorage
	default:
		return diagram.TypeVM
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, strings.ToLower(needle))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
