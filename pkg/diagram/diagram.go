package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Construction
// =============================================================================

// New creates an empty diagram with a fresh id and the given title.
// The creation timestamp is taken from the wall clock; every other part of
// the pipeline is deterministic for a given input.
func New(title string) *Diagram {
	return &Diagram{
		ID:      uuid.NewString(),
		Title:   title,
		Created: time.Now().UTC(),
	}
}

// Add appends components to the diagram in order.
func (d *Diagram) Add(cs ...*Component) {
	d.Components = append(d.Components, cs...)
}

// Validate checks the diagram's structural invariants: unique component ids,
// valid tiers, connection targets resolving within the diagram, and no
// self-references.
func (d *Diagram) Validate() error {
	ids := make(map[string]struct{}, len(d.Components))
	for _, c := range d.Components {
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("duplicate component id %q", c.ID)
		}
		ids[c.ID] = struct{}{}
		if !c.Tier.Valid() {
			return fmt.Errorf("component %q: invalid tier %q", c.ID, c.Tier)
		}
	}
	for _, c := range d.Components {
		for _, target := range c.Connections {
			if target == c.ID {
				return fmt.Errorf("component %q: self-referencing connection", c.ID)
			}
			if _, ok := ids[target]; !ok {
				return fmt.Errorf("component %q: connection to unknown id %q", c.ID, target)
			}
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a diagram to pretty-printed JSON bytes.
func Marshal(d *Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a diagram as JSON to an io.Writer.
func Write(d *Diagram, w io.Writer) error {
	return writeTo(d, w)
}

// WriteFile writes a diagram to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d *Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(d, f)
}

// Unmarshal decodes JSON bytes into a diagram and validates its invariants.
func Unmarshal(data []byte) (*Diagram, error) {
	return readFrom(bytes.NewReader(data))
}

// ReadFile reads a JSON file and returns the decoded diagram.
func ReadFile(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(d *Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return &d, nil
}
