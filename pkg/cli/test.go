package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test warehouse connectivity",
	Long:  `Connect to the warehouse, run a probe query, and report the outcome.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		wh := newWarehouseClient()
		defer wh.Close()

		if err := wh.TestConnection(cmd.Context()); err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}

		fmt.Println(sqlStyle.Render("✓ Connected to ") +
			fmt.Sprintf("%s:%d/%s", cfg.Warehouse.Host, cfg.Warehouse.Port, cfg.Warehouse.Database))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
