package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archetype-cli/archetype/pkg/inventory"
	"github.com/archetype-cli/archetype/pkg/pipeline"
)

// generateFlags holds the command-line flags for the generate command.
type generateFlags struct {
	output     string // output base path for artifacts
	formatsStr string // comma-separated output formats
	title      string // diagram title
	lexicon    string // classification lexicon file (TOML)
	noCache    bool   // disable caching
	refresh    bool   // rebuild even on cache hit
}

// generateCommand creates the generate command, the main entry point of the
// tool: inventory file in, diagram artifacts out.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [inventory.json]",
		Short: "Generate a target architecture diagram from a server inventory",
		Long: `Generate a target architecture diagram from a server inventory.

The inventory file (JSON or TOML) lists the discovered servers and the
technology insights extracted from assessment transcripts. Each server is
classified to an Azure service, supporting infrastructure is synthesized
around the result, and the finished diagram is exported in one or more
formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(flags.formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), args[0], formats, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output base path (extension is added per format)")
	cmd.Flags().StringVarP(&flags.formatsStr, "format", "f", "", "output format(s): json, svg (defaults), dot, dot-svg, package (comma-separated)")
	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "diagram title")
	cmd.Flags().StringVar(&flags.lexicon, "lexicon", "", "classification lexicon file (TOML)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "rebuild the diagram even when cached")

	return cmd
}

// runGenerate loads the inventory, runs the pipeline, and writes artifacts.
func (c *CLI) runGenerate(ctx context.Context, inputPath string, formats []string, flags generateFlags) error {
	input, err := inventory.Load(inputPath)
	if err != nil {
		return fmt.Errorf("load inventory %s: %w", inputPath, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating architecture for %d servers...", len(input.Servers)))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Input:       input,
		Title:       flags.title,
		LexiconPath: flags.lexicon,
		Formats:     formats,
		Refresh:     flags.refresh,
		Logger:      c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()
	p.done(fmt.Sprintf("Generated %d components", result.Stats.ComponentCount))

	printSuccess("Generated %s", StyleHighlight.Render(result.Diagram.Title))
	printStats(result.Stats.ComponentCount, result.Stats.ConnectionCount, result.CacheInfo.BuildHit)

	base := outputBase(inputPath, flags.output)
	written, err := writeArtifacts(base, formats, result.Artifacts, result.ExportErrors)
	if err != nil {
		return err
	}

	if path, ok := written[pipeline.FormatJSON]; ok {
		printNextStep("Re-export later with", "archetype export "+path)
	}
	return nil
}

// writeArtifacts writes each requested artifact to base+ext, reporting
// failures and degraded outputs. It returns the written paths by format and
// fails only when nothing could be written.
func writeArtifacts(base string, formats []string, artifacts map[string]pipeline.Artifact, errs map[string]error) (map[string]string, error) {
	written := make(map[string]string)
	for _, format := range formats {
		if err, ok := errs[format]; ok {
			printError("%s export failed: %v", format, err)
			continue
		}
		artifact, ok := artifacts[format]
		if !ok {
			continue
		}

		path := base + artifact.Ext
		if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
			printError("write %s: %v", path, err)
			errs[format] = err
			continue
		}
		printFile(path)
		if artifact.Degraded {
			printWarning("%s degraded to plain XML: %s", format, artifact.Reason)
		}
		written[format] = path
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("all exports failed")
	}
	return written, nil
}
