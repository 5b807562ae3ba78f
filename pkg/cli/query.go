package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb-ai/askdb/pkg/agent"
)

var (
	queryExecute   bool
	queryExport    string
	querySessionID string
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a single question and print the answer",
	Long: `Translate one natural language question into SQL, validate it, and run
it against the warehouse. Use --session to continue a saved conversation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		a, wh, err := newAgent()
		if err != nil {
			return err
		}
		defer wh.Close()

		if err := a.StartSession(querySessionID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.QueryTimeout())
		defer cancel()

		resp, err := a.ProcessQuery(ctx, question, queryExecute)
		if err != nil {
			return err
		}
		renderResponse(resp)

		if queryExport != "" {
			if err := exportResults(resp, queryExport); err != nil {
				return err
			}
			fmt.Println(dimStyle.Render("Results written to " + queryExport))
		}

		if err := a.SaveSession(); err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("Session: " + a.Session().ID))
		return nil
	},
}

func exportResults(resp *agent.QueryResponse, path string) error {
	if resp.Results == nil {
		return fmt.Errorf("no results to export (query did not execute)")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	return agent.ExportResultsCSV(f, resp.Results)
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&queryExecute, "execute", true, "Execute the generated SQL")
	queryCmd.Flags().StringVar(&queryExport, "export", "", "Write results to a CSV file")
	queryCmd.Flags().StringVar(&querySessionID, "session", "", "Session ID to resume")
}
