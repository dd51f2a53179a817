package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/configurator"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// orderOpts holds the command-line flags for the order command.
type orderOpts struct {
	output  string
	format  string
	config  string
	catalog string
	layers  bool
	cache   cacheFlags
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var flags orderOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "order [graph.json]",
		Short: "Order the layers of a graph",
		Long: `Order the layers of a graph.

The graph is normalized (cycles broken, layers assigned, long edges
subdivided) and the nodes of every layer are sorted by model order, as
allowed by the ordering strategy. A configurator file (TOML, YAML or JSON)
can set layout options on the graph and its elements first.

The output is a layout.json file that 'render' turns into DOT or SVG, or
directly a drawing with --format dot|svg.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runOrder(ctx, args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json, or <input>.<format>)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", pipeline.FormatJSON, "output format: json (default), dot, svg")
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "configurator file to apply before ordering")
	cmd.Flags().StringVar(&flags.catalog, "catalog", "", "option catalog (TOML) replacing the built-in one")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "ordering strategy: PREFER_EDGES, PREFER_MODEL_ORDER (default: graph option, else PREFER_EDGES)")
	cmd.Flags().StringVar(&opts.LongEdge, "long-edge", "", "long edge order: EQUAL, LOWER, HIGHER (default: graph option, else EQUAL)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts")
	cmd.Flags().BoolVar(&flags.layers, "layers", false, "print the resolved order of every layer")
	flags.cache.register(cmd)
	completeOrderFlags(cmd, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG)

	return cmd
}

// runOrder loads the graph, orders it and writes the output.
func (c *CLI) runOrder(ctx context.Context, input string, opts pipeline.Options, flags orderOpts) error {
	logger := loggerFromContext(ctx)
	if err := pipeline.ValidateFormat(flags.format); err != nil {
		return err
	}

	g, err := readGraph(input)
	if err != nil {
		return err
	}
	if flags.config != "" {
		if opts.Config, err = configurator.DecodeFile(flags.config); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.cache, flags.catalog)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	prog := newProgress(logger)
	spin := startSpinner(ctx, os.Stderr, "Ordering layers...")

	res, err := runner.Order(ctx, g, opts)
	if err != nil {
		spin.Fail("Ordering failed")
		return fmt.Errorf("order %s: %w", input, err)
	}
	spin.Update("Writing " + flags.format + "...")
	data, err := runner.Render(ctx, res.Layout, flags.format)
	if err != nil {
		spin.Fail("Rendering failed")
		return fmt.Errorf("render %s: %w", flags.format, err)
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	prog.done("Ordered", "nodes", len(res.Layout.Nodes), "cached", res.CacheHit)

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultOutput(input, flags.format)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Ordering complete")
	printFile(outputPath)
	printOrderSummary(res.Layout, res.CacheHit)
	printKeyValue("strategy", res.Layout.Strategy)
	printKeyValue("long edges", res.Layout.LongEdge)
	if flags.layers {
		printLayers(res.Layout)
	}
	if n := res.Layout.Stats.ReversedEdges; n > 0 {
		printWarning("%d edge(s) reversed to break cycles", n)
	}
	if flags.format == pipeline.FormatJSON {
		printNewline()
		printNextStep("Render", appName+" render -f svg "+outputPath)
	}
	return nil
}

// readGraph reads a graph file, keeping list positions as model order.
func readGraph(path string) (graph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return graph.Graph{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read graph %s", path)
	}
	return graph.UnmarshalGraph(data)
}

// defaultOutput derives an output path from the input path.
func defaultOutput(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
