package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/pipeline"
)

// exportCommand creates the export command for re-exporting a diagram.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "export [diagram.json]",
		Short: "Export artifacts from a previously generated diagram",
		Long: `Export artifacts from a previously generated diagram.

The export command takes a diagram.json file (produced by 'generate') and
renders it to the requested formats. The diagram already contains all
classification, positioning, and connection data, so this step is purely
about rendering.

Use 'generate' to go directly from an inventory file to artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], formats, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (extension is added per format)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json, svg (defaults), dot, dot-svg, package (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runExport loads the diagram and renders the requested formats.
func (c *CLI) runExport(ctx context.Context, input string, formats []string, output string, noCache bool) error {
	d, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("diagram %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Exporting diagram...")
	spinner.Start()
	artifacts, errs := runner.Export(ctx, d, pipeline.Options{Formats: formats, Logger: c.Logger})
	spinner.Stop()

	printSuccess("Exported %s", StyleHighlight.Render(d.Title))

	// Reuse the input stem so "arch.json" exports next to itself as
	// "arch.svg", "arch.vsdx", and so on.
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if output != "" {
		base = outputBase(input, output)
	}
	_, err = writeArtifacts(base, formats, artifacts, errs)
	return err
}
