package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Input bundles the two upstream inputs as they appear on disk.
type Input struct {
	Servers  []Item     `json:"servers" toml:"servers"`
	Insights InsightSet `json:"insights" toml:"insights"`
}

// Load reads an input file, dispatching on extension: .toml is decoded as
// TOML, everything else as JSON.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var in Input
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if len(in.Servers) == 0 {
		return nil, fmt.Errorf("%s: no servers in inventory", path)
	}
	return &in, nil
}

// Marshal encodes an input as canonical JSON, used for content hashing.
func Marshal(in *Input) ([]byte, error) {
	return json.Marshal(in)
}
