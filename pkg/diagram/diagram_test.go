package diagram

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	d := New("Target Architecture")
	if d.ID == "" {
		t.Error("New should assign an id")
	}
	if d.Title != "Target Architecture" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Created.IsZero() {
		t.Error("New should set the creation time")
	}
	if New("x").ID == New("x").ID {
		t.Error("ids should be unique per diagram")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		components []*Component
		wantErr    string
	}{
		{
			name: "valid",
			components: []*Component{
				{ID: "a", Tier: TierCompute, Connections: []string{"b"}},
				{ID: "b", Tier: TierData},
			},
		},
		{
			name: "duplicate id",
			components: []*Component{
				{ID: "a", Tier: TierCompute},
				{ID: "a", Tier: TierData},
			},
			wantErr: "duplicate component id",
		},
		{
			name: "invalid tier",
			components: []*Component{
				{ID: "a", Tier: Tier("bogus")},
			},
			wantErr: "invalid tier",
		},
		{
			name: "dangling connection",
			components: []*Component{
				{ID: "a", Tier: TierCompute, Connections: []string{"missing"}},
			},
			wantErr: "unknown id",
		},
		{
			name: "self reference",
			components: []*Component{
				{ID: "a", Tier: TierCompute, Connections: []string{"a"}},
			},
			wantErr: "self-referencing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New("t")
			d.Add(tt.components...)
			err := d.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	d := New("Round Trip")
	d.Metadata = Metadata{SourceServers: 2, ComponentCount: 2, GenerationMethod: "inventory_and_insights"}
	d.Add(
		&Component{
			ID:            "comp_1",
			Type:          TypeVM,
			Name:          "web01",
			ServiceLabel:  "Azure Virtual Machine",
			Tier:          TierCompute,
			SourceRef:     "web01",
			MigrationType: MigrationLiftAndShift,
			Position:      &Position{X: 100, Y: 350, Width: 140, Height: 90},
			Attributes:    map[string]string{"memory_gb": "8"},
			Connections:   []string{"db_1"},
		},
		&Component{ID: "db_1", Type: TypeSQL, Name: "db01", Tier: TierData},
	)

	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.ID != d.ID || got.Title != d.Title {
		t.Errorf("identity fields differ: %q/%q", got.ID, got.Title)
	}
	if got.Metadata != d.Metadata {
		t.Errorf("Metadata = %+v", got.Metadata)
	}
	c := got.Component("comp_1")
	if c == nil {
		t.Fatal("comp_1 missing after round trip")
	}
	if c.MigrationType != MigrationLiftAndShift || c.Position == nil || c.Position.X != 100 {
		t.Errorf("component fields lost: %+v", c)
	}
	if c.Attributes["memory_gb"] != "8" {
		t.Errorf("attributes lost: %v", c.Attributes)
	}

	// Wire field names follow the established artifact format
	for _, field := range []string{"diagram_id", "component_id", "component_type", "azure_service", "source_server"} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized diagram missing field %q", field)
		}
	}
}

func TestUnmarshalRejectsInvalid(t *testing.T) {
	if _, err := Unmarshal([]byte("{nope")); err == nil {
		t.Error("malformed JSON should error")
	}

	// Structurally invalid diagrams are rejected on read
	bad := `{"diagram_id":"d","title":"t","components":[{"component_id":"a","tier":"compute","connections":["missing"]}]}`
	if _, err := Unmarshal([]byte(bad)); err == nil {
		t.Error("dangling connection should fail validation on read")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.json")
	d := New("File Trip")
	d.Add(&Component{ID: "a", Tier: TierCompute})

	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if got.ID != d.ID || len(got.Components) != 1 {
		t.Errorf("file round trip lost data: %+v", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}
}

func TestAccessors(t *testing.T) {
	d := New("t")
	d.Add(
		&Component{ID: "a", Type: TypeVM, Tier: TierCompute},
		&Component{ID: "b", Type: TypeVM, Tier: TierCompute},
		&Component{ID: "c", Type: TypeSQL, Tier: TierData},
	)

	if d.Component("b") == nil || d.Component("nope") != nil {
		t.Error("Component lookup broken")
	}
	if got := len(d.ByType(TypeVM)); got != 2 {
		t.Errorf("ByType(vm) = %d", got)
	}
	if got := len(d.ByTier(TierData)); got != 1 {
		t.Errorf("ByTier(data) = %d", got)
	}
	if !d.HasTier(TierCompute) || d.HasTier(TierSecurity) {
		t.Error("HasTier broken")
	}
}

func TestTierOfCoversAllTypes(t *testing.T) {
	for _, typ := range []Type{
		TypeVM, TypeAppService, TypeFunction, TypeContainer, TypeKubernetes,
		TypeSQL, TypeMySQL, TypePostgreSQL, TypeCosmosDB, TypeStorage, TypeFileShare,
		TypeVNet, TypeSubnet, TypeAppGateway, TypeLoadBalancer, TypeVPNGateway,
		TypeFirewall, TypeSecurityGroup, TypeKeyVault,
		TypeMonitor, TypeLogWorkspace, TypeBackup,
	} {
		if !TierOf(typ).Valid() {
			t.Errorf("TierOf(%s) is not a valid tier", typ)
		}
	}
}

func TestIsDatabase(t *testing.T) {
	for _, typ := range []Type{TypeSQL, TypeMySQL, TypePostgreSQL, TypeCosmosDB} {
		if !IsDatabase(typ) {
			t.Errorf("IsDatabase(%s) = false", typ)
		}
	}
	if IsDatabase(TypeStorage) || IsDatabase(TypeVM) {
		t.Error("IsDatabase over-matches")
	}
}
