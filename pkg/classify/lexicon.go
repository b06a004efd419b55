package classify

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Service labels produced by the built-in lexicon. These are display strings,
// not enum values: a custom lexicon may introduce new ones.
const (
	ServiceVM         = "Azure Virtual Machine"
	ServiceSQL        = "Azure SQL Database"
	ServiceMySQL      = "Azure Database for MySQL"
	ServiceAppService = "Azure App Service"
	ServiceFunctions  = "Azure Functions"
	ServiceContainers = "Azure Container Instances"
	ServiceKubernetes = "Azure Kubernetes Service"
	ServiceStorage    = "Azure Storage Account"
)

// Rule maps a set of substring keywords to a service label. A rule matches
// when any keyword occurs in the probed text.
type Rule struct {
	Keywords []string `toml:"keywords"`
	Service  string   `toml:"service"`
}

// Lexicon holds the ordered keyword tables and numeric thresholds that drive
// classification. It is plain data: construct it once and treat it as
// immutable.
type Lexicon struct {
	// Recommendation rules are probed against the free-text recommendation
	// carried by the inventory item, in order.
	Recommendation []Rule `toml:"recommendation"`

	// Role rules are probed against "<role> <os>", in order. Order matters:
	// "sql server" must be tried before the generic database keywords.
	Role []Rule `toml:"role"`

	// WebAppMemoryGB is the memory ceiling for the insight-driven web-service
	// fallback: above it, web workloads stay on VMs.
	WebAppMemoryGB float64 `toml:"web_app_memory_gb"`

	// ModernizeMemoryGB is the memory ceiling for choosing the modernize
	// migration strategy on Windows web servers.
	ModernizeMemoryGB float64 `toml:"modernize_memory_gb"`
}

// DefaultLexicon returns the built-in keyword tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Recommendation: []Rule{
			{Keywords: []string{"app service"}, Service: ServiceAppService},
			{Keywords: []string{"sql"}, Service: ServiceSQL},
			{Keywords: []string{"vm", "virtual machine"}, Service: ServiceVM},
			{Keywords: []string{"function"}, Service: ServiceFunctions},
			{Keywords: []string{"container"}, Service: ServiceContainers},
		},
		Role: []Rule{
			{Keywords: []string{"sql server"}, Service: ServiceSQL},
			{Keywords: []string{"sql", "database", "mysql", "postgresql", "oracle"}, Service: ServiceMySQL},
			{Keywords: []string{"web", "iis", "apache", "nginx"}, Service: ServiceAppService},
			{Keywords: []string{"file", "storage"}, Service: ServiceStorage},
			{Keywords: []string{"domain controller", "active directory", "ldap"}, Service: ServiceVM},
		},
		WebAppMemoryGB:    4,
		ModernizeMemoryGB: 8,
	}
}

// LoadLexicon reads a lexicon from a TOML file. Zero thresholds fall back to
// the built-in defaults so override files can list rules only.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read %s: %w", path, err)
	}
	var lex Lexicon
	if err := toml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse %s: %w", path, err)
	}
	def := DefaultLexicon()
	if lex.WebAppMemoryGB == 0 {
		lex.WebAppMemoryGB = def.WebAppMemoryGB
	}
	if lex.ModernizeMemoryGB == 0 {
		lex.ModernizeMemoryGB = def.ModernizeMemoryGB
	}
	if len(lex.Recommendation) == 0 {
		lex.Recommendation = def.Recommendation
	}
	if len(lex.Role) == 0 {
		lex.Role = def.Role
	}
	return lex, nil
}

// match returns the service of the first rule whose keyword occurs in text,
// or "" when nothing matches.
func match(rules []Rule, text string) string {
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && contains(text, kw) {
				return r.Service
			}
		}
	}
	return ""
}
