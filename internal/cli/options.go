package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/options"
)

// optionsCommand creates the options command for inspecting the catalog.
func (c *CLI) optionsCommand() *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Inspect the layout option catalog",
	}
	cmd.PersistentFlags().StringVar(&catalog, "catalog", "", "option catalog (TOML) replacing the built-in one")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all known options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(catalog)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, optionsTable(reg.Options()))
			printDetail("%d options", reg.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "browse",
		Short: "Browse options interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(catalog)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewOptionListModel(reg.Options()), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	})

	return cmd
}

func loadRegistry(catalog string) (*options.Registry, error) {
	if catalog == "" {
		return options.Builtin(), nil
	}
	reg, err := options.LoadCatalogFile(catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", catalog, err)
	}
	return reg, nil
}

func optionsTable(opts []options.Option) string {
	rows := make([][]string, len(opts))
	for i, o := range opts {
		rows[i] = []string{o.ID, joinTargets(o.Targets), formatValue(o.Default)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Option", "Targets", "Default").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleDim
		}).
		Render()
}

func joinTargets(ts []options.Target) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
