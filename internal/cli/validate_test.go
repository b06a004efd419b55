package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
)

func crossCheckDiagram() *diagram.Diagram {
	d := diagram.New("Cross Check")
	d.Add(
		&diagram.Component{
			ID: "app_1", Type: diagram.TypeAppService, Name: "web01",
			Tier: diagram.TierApplication, Connections: []string{"sql_1"},
			SourceRef: "web01",
		},
		&diagram.Component{
			ID: "sql_1", Type: diagram.TypeSQL, Name: "db01",
			Tier: diagram.TierData, Connections: []string{},
			SourceRef: "ghost01",
		},
		// Synthesized, no source reference to resolve.
		&diagram.Component{
			ID: "vnet_main", Type: diagram.TypeVNet, Name: "Main VNet",
			Tier: diagram.TierNetwork, Connections: []string{},
		},
	)
	return d
}

func TestDanglingSourceRefs(t *testing.T) {
	d := crossCheckDiagram()
	items := []inventory.Item{{Name: "web01", Role: "Web Server"}}

	got := danglingSourceRefs(d, items)
	if len(got) != 1 || got[0] != "sql_1 -> ghost01" {
		t.Errorf("danglingSourceRefs = %v, want [sql_1 -> ghost01]", got)
	}

	// Nothing dangles once the missing server is present.
	items = append(items, inventory.Item{Name: "ghost01", Role: "Database Server"})
	if got := danglingSourceRefs(d, items); len(got) != 0 {
		t.Errorf("danglingSourceRefs = %v, want none", got)
	}
}

func TestValidateCommandInventoryCrossCheck(t *testing.T) {
	dir := t.TempDir()

	data, err := diagram.Marshal(crossCheckDiagram())
	if err != nil {
		t.Fatalf("marshal diagram: %v", err)
	}
	diagramPath := filepath.Join(dir, "arch.json")
	if err := os.WriteFile(diagramPath, data, 0644); err != nil {
		t.Fatalf("write diagram: %v", err)
	}

	inventoryPath := filepath.Join(dir, "servers.json")
	inventoryJSON := `{"servers": [
		{"server_name": "web01", "server_type": "Web Server"},
		{"server_name": "ghost01", "server_type": "Database Server"}
	]}`
	if err := os.WriteFile(inventoryPath, []byte(inventoryJSON), 0644); err != nil {
		t.Fatalf("write inventory: %v", err)
	}

	run := func(args ...string) error {
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs(args)
		return root.Execute()
	}

	if err := run("validate", diagramPath, "--inventory", inventoryPath); err != nil {
		t.Errorf("validate with complete inventory failed: %v", err)
	}

	// Dropping ghost01 leaves sql_1's source reference dangling.
	partial := filepath.Join(dir, "partial.json")
	if err := os.WriteFile(partial, []byte(`{"servers": [{"server_name": "web01", "server_type": "Web Server"}]}`), 0644); err != nil {
		t.Fatalf("write inventory: %v", err)
	}
	if err := run("validate", diagramPath, "--inventory", partial); err == nil {
		t.Error("validate should fail on a dangling source reference")
	}
}
