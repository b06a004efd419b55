package inventory

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "inventory.json", `{
		"servers": [
			{"server_name": "web01", "server_type": "Web Server", "operating_system": "Windows Server 2019", "cpu_cores": 4, "memory_gb": 8.5},
			{"server_name": "db01", "server_type": "Database Server", "recommendation": "Azure SQL Database"}
		],
		"insights": {
			"technologies": [{"category": "web", "keyword": "iis", "confidence": "high"}],
			"requirements": ["hybrid connectivity"],
			"needs_hybrid_connectivity": true
		}
	}`)

	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(in.Servers) != 2 {
		t.Fatalf("Servers = %d", len(in.Servers))
	}
	if in.Servers[0].Name != "web01" || in.Servers[0].MemoryGB != 8.5 {
		t.Errorf("first server = %+v", in.Servers[0])
	}
	if in.Servers[1].Recommendation != "Azure SQL Database" {
		t.Errorf("recommendation = %q", in.Servers[1].Recommendation)
	}
	if !in.Insights.NeedsHybridConnectivity {
		t.Error("hybrid flag lost")
	}
	if in.Insights.Count() != 2 {
		t.Errorf("Count = %d, want 2", in.Insights.Count())
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "inventory.toml", `
[[servers]]
name = "app01"
role = "Application Server"
os = "Ubuntu 22.04"
memory_gb = 16.0

[insights]
needs_hybrid_connectivity = true
`)

	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(in.Servers) != 1 || in.Servers[0].Name != "app01" {
		t.Errorf("Servers = %+v", in.Servers)
	}
	if !in.Insights.NeedsHybridConnectivity {
		t.Error("hybrid flag lost")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}

	bad := writeFile(t, "bad.json", "{nope")
	if _, err := Load(bad); err == nil {
		t.Error("malformed JSON should error")
	}

	empty := writeFile(t, "empty.json", `{"servers": []}`)
	if _, err := Load(empty); err == nil {
		t.Error("empty inventory should error")
	}
}

func TestHasCategory(t *testing.T) {
	s := &InsightSet{Technologies: []Technology{
		{Category: "web", Keyword: "nginx"},
		{Category: "container", Keyword: "docker"},
	}}

	if !s.HasCategory("web") || !s.HasCategory("container") {
		t.Error("HasCategory misses present categories")
	}
	if s.HasCategory("database") {
		t.Error("HasCategory over-matches")
	}
}

func TestLookup(t *testing.T) {
	items := []Item{{Name: "a"}, {Name: "b"}}

	if got := Lookup(items, "b"); got == nil || got.Name != "b" {
		t.Errorf("Lookup(b) = %+v", got)
	}
	if Lookup(items, "c") != nil {
		t.Error("Lookup should return nil for unknown names")
	}

	// The returned pointer aliases the slice element
	Lookup(items, "a").Role = "patched"
	if items[0].Role != "patched" {
		t.Error("Lookup should not copy")
	}
}
