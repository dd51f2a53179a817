package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/configurator"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// configureCommand creates the configure command, which reports the
// options every element ends up with after applying a configurator file.
func (c *CLI) configureCommand() *cobra.Command {
	var (
		config  string
		catalog string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "configure [graph.json]",
		Short: "Show the effective options of every element",
		Long: `Apply a configurator file to a graph and print the resulting options of
the graph (` + pipeline.RootName + `), its nodes, ports ("node.port") and edges ("from->to").

Without --config, the options declared in the graph itself are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigure(cmd.Context(), args[0], config, catalog, asJSON)
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "configurator file (TOML, YAML or JSON)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "option catalog (TOML) replacing the built-in one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runConfigure(ctx context.Context, input, config, catalog string, asJSON bool) error {
	g, err := readGraph(input)
	if err != nil {
		return err
	}
	var cfg *configurator.File
	if config != "" {
		if cfg, err = configurator.DecodeFile(config); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, cacheFlags{noCache: true}, catalog)
	if err != nil {
		return err
	}
	defer runner.Close()

	resolved, err := runner.Configure(g, cfg)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resolved)
	}
	fmt.Fprintln(out, resolvedTable(resolved))
	return nil
}

// resolvedTable renders one row per element option. Elements without
// options get a single dimmed row.
func resolvedTable(resolved []pipeline.Resolved) string {
	var rows [][]string
	for _, r := range resolved {
		if len(r.Options) == 0 {
			rows = append(rows, []string{r.Name, r.Kind, "", ""})
			continue
		}
		ids := make([]string, 0, len(r.Options))
		for id := range r.Options {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for i, id := range ids {
			name, kind := r.Name, r.Kind
			if i > 0 {
				name, kind = "", ""
			}
			rows = append(rows, []string{name, kind, id, formatValue(r.Options[id])})
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Element", "Kind", "Option", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			switch col {
			case 0:
				return StyleHighlight
			case 1:
				return StyleDim
			case 3:
				return StyleValue
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "—"
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
