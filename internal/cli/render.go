package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// renderCommand creates the render command for drawing stored layouts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		format string
		flags  cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Draw a layout as DOT or SVG",
		Long: `Draw a layout produced by 'order' as Graphviz DOT or SVG.

Nodes keep the left-to-right order stored in the layout. Edges reversed
while breaking cycles are drawn against their direction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], format, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg (default), dot")
	flags.register(cmd)

	completeOrderFlags(cmd, renderFormats...)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, format, output string, flags cacheFlags) error {
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	if format == pipeline.FormatJSON {
		return fmt.Errorf("%s is already a layout; choose dot or svg", input)
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, err := runner.Render(ctx, l, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		output = defaultOutput(input, format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Rendered %s", format)
	printFile(output)
	return nil
}
