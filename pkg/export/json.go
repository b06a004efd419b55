package export

import (
	"io"

	"github.com/archetype-cli/archetype/pkg/diagram"
)

// MarshalJSON renders the diagram's canonical JSON document.
func MarshalJSON(d *diagram.Diagram) ([]byte, error) {
	return diagram.Marshal(d)
}

// WriteJSON encodes the diagram as pretty-printed JSON to w.
func WriteJSON(d *diagram.Diagram, w io.Writer) error {
	return diagram.Write(d, w)
}

// ExportJSON writes the diagram to a JSON file at path.
func ExportJSON(d *diagram.Diagram, path string) error {
	return diagram.WriteFile(d, path)
}
