package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/inventory"
)

// validateCommand creates the validate command for checking diagram files.
func (c *CLI) validateCommand() *cobra.Command {
	var inventoryPath string

	cmd := &cobra.Command{
		Use:   "validate [diagram.json]",
		Short: "Check a diagram file for structural problems",
		Long: `Check a diagram file for structural problems.

With --inventory, additionally verify that every component's source server
reference resolves to an item in the given inventory file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load diagram %s: %w", args[0], err)
			}
			if err := d.Validate(); err != nil {
				printError("Diagram is invalid: %v", err)
				return err
			}

			connections := 0
			for _, comp := range d.Components {
				connections += len(comp.Connections)
			}

			printSuccess("Diagram is valid")
			printKeyValue("Title", d.Title)
			printKeyValue("Components", fmt.Sprintf("%d (%d synthesized)", len(d.Components), d.Metadata.SynthesizedCount))
			printKeyValue("Connections", fmt.Sprintf("%d", connections))
			for _, tier := range diagram.Tiers {
				if n := len(d.ByTier(tier)); n > 0 {
					printDetail("%s: %d", tier, n)
				}
			}

			if inventoryPath == "" {
				return nil
			}
			input, err := inventory.Load(inventoryPath)
			if err != nil {
				return fmt.Errorf("load inventory %s: %w", inventoryPath, err)
			}
			if dangling := danglingSourceRefs(d, input.Servers); len(dangling) > 0 {
				for _, ref := range dangling {
					printError("unresolved source reference: %s", ref)
				}
				return fmt.Errorf("%d source reference(s) missing from inventory", len(dangling))
			}
			printSuccess("All source references resolve against %s", inventoryPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "inventory file to cross-check source references against")

	return cmd
}

// danglingSourceRefs returns "component -> server" strings for every
// component whose SourceRef does not resolve to an inventory item.
// Synthesized components carry no SourceRef and are skipped.
func danglingSourceRefs(d *diagram.Diagram, items []inventory.Item) []string {
	var dangling []string
	for _, comp := range d.Components {
		if comp.SourceRef == "" {
			continue
		}
		if inventory.Lookup(items, comp.SourceRef) == nil {
			dangling = append(dangling, fmt.Sprintf("%s -> %s", comp.ID, comp.SourceRef))
		}
	}
	return dangling
}
