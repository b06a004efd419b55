package inventory

// Item is one discovered source-environment server to be mapped onto a
// target-platform component.
type Item struct {
	Name           string  `json:"server_name" toml:"name"`
	Role           string  `json:"server_type" toml:"role"`
	OS             string  `json:"operating_system" toml:"os"`
	CPUCores       int     `json:"cpu_cores" toml:"cpu_cores"`
	MemoryGB       float64 `json:"memory_gb" toml:"memory_gb"`
	DiskSizeGB     float64 `json:"disk_size_gb" toml:"disk_size_gb"`
	EstimatedCost  string  `json:"estimated_cost" toml:"estimated_cost"`
	Readiness      string  `json:"readiness" toml:"readiness"`
	Recommendation string  `json:"recommendation" toml:"recommendation"`
}

// Technology is one extracted technology signal: a category tag with the
// keyword that triggered it and the extractor's confidence.
type Technology struct {
	Category   string `json:"category" toml:"category"`
	Keyword    string `json:"keyword" toml:"keyword"`
	Confidence string `json:"confidence" toml:"confidence"`
}

// InsightSet is the categorized requirement signals extracted from the
// discovery transcripts.
type InsightSet struct {
	Technologies []Technology `json:"technologies" toml:"technologies"`
	Requirements []string     `json:"requirements" toml:"requirements"`

	// NeedsHybridConnectivity is set by the extractor when the transcripts
	// carry a hybrid/on-premises/VPN requirement.
	NeedsHybridConnectivity bool `json:"needs_hybrid_connectivity" toml:"needs_hybrid_connectivity"`
}

// HasCategory reports whether any technology insight carries the category.
func (s *InsightSet) HasCategory(category string) bool {
	for _, t := range s.Technologies {
		if t.Category == category {
			return true
		}
	}
	return false
}

// Count returns the number of technology and requirement signals.
func (s *InsightSet) Count() int {
	return len(s.Technologies) + len(s.Requirements)
}

// Lookup returns the item with the given name from items, or nil. SourceRef
// fields on components are resolved through this, keeping the back-reference
// id-only: the inventory list stays the single owner of item data.
func Lookup(items []Item, name string) *Item {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}
