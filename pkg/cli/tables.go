package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [table]",
	Short: "List tables, or describe one table's columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wh := newWarehouseClient()
		defer wh.Close()
		ctx := cmd.Context()

		if len(args) == 1 {
			columns, err := wh.DescribeTable(ctx, args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(columns))
			for _, col := range columns {
				nullable := "NOT NULL"
				if col.IsNullable {
					nullable = "NULL"
				}
				def := ""
				if col.Default != nil {
					def = *col.Default
				}
				rows = append(rows, []string{col.Name, col.DataType, nullable, def, col.Comment})
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(dimStyle).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return cellStyle.Bold(true)
					}
					return cellStyle
				}).
				Headers("Column", "Type", "Nullable", "Default", "Comment").
				Rows(rows...)
			fmt.Println(t.Render())
			return nil
		}

		tables, err := wh.ListTables(ctx)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			fmt.Println(dimStyle.Render("No tables in schema " + cfg.Warehouse.Schema))
			return nil
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%d table(s) in schema %s:", len(tables), cfg.Warehouse.Schema)))
		for _, name := range tables {
			fmt.Println("  " + name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
