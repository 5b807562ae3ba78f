package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb-ai/askdb/pkg/agent"
	"github.com/askdb-ai/askdb/pkg/session"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the warehouse",
	Long: `Open a REPL where each line is translated to SQL, validated, and run.
The conversation is saved as a session on exit and can be resumed with
--session.

In-chat commands:
  help           Show available commands
  test           Test the warehouse connection
  tables         List tables in the configured schema
  session        Show the current session id and message count
  export <file>  Write the last query results to a CSV file
  exit | quit | q  Save the session and leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, wh, err := newAgent()
		if err != nil {
			return err
		}
		defer wh.Close()

		ctx := cmd.Context()
		if err := wh.TestConnection(ctx); err != nil {
			return fmt.Errorf("warehouse connection failed: %w", err)
		}
		fmt.Println(headerStyle.Render("Connected to ") + cfg.Warehouse.Database +
			dimStyle.Render(" (schema "+cfg.Warehouse.Schema+")"))

		if err := a.StartSession(chatSessionID); err != nil {
			return err
		}
		if err := a.LoadContext(ctx, true); err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("Session " + a.Session().ID + ". Type 'help' for commands, 'exit' to quit."))
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(headerStyle.Render("ask> "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			switch {
			case line == "exit", line == "quit", line == "q":
				if err := a.SaveSession(); err != nil {
					return err
				}
				fmt.Println(dimStyle.Render("Session saved: " + a.Session().ID))
				return nil

			case line == "help":
				printChatHelp()

			case line == "test":
				if err := wh.TestConnection(ctx); err != nil {
					fmt.Println(errorStyle.Render("Connection failed: ") + err.Error())
				} else {
					fmt.Println(sqlStyle.Render("Connection OK"))
				}

			case line == "tables":
				tables, err := wh.ListTables(ctx)
				if err != nil {
					fmt.Println(errorStyle.Render("Failed to list tables: ") + err.Error())
					continue
				}
				for _, t := range tables {
					fmt.Println("  " + t)
				}

			case line == "session":
				fmt.Printf("Session %s, %d messages\n", a.Session().ID, len(a.Session().Messages))

			case strings.HasPrefix(line, "export "):
				path := strings.TrimSpace(strings.TrimPrefix(line, "export "))
				if err := exportLastResults(a.Session(), path); err != nil {
					fmt.Println(errorStyle.Render("Export failed: ") + err.Error())
				} else {
					fmt.Println(dimStyle.Render("Results written to " + path))
				}

			default:
				qctx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout())
				resp, err := a.ProcessQuery(qctx, line, true)
				cancel()
				if err != nil {
					fmt.Println(errorStyle.Render("Error: ") + err.Error())
					continue
				}
				renderResponse(resp)
			}
		}

		// EOF (ctrl-d): save before leaving.
		if err := a.SaveSession(); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(dimStyle.Render("Session saved: " + a.Session().ID))
		return scanner.Err()
	},
}

// exportLastResults writes the most recent executed result set in the
// session to a CSV file.
func exportLastResults(s *session.Session, path string) error {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Results == nil {
			continue
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		return agent.ExportResultsCSV(f, s.Messages[i].Results)
	}
	return fmt.Errorf("no executed query results in this session yet")
}

func printChatHelp() {
	fmt.Println(`Commands:
  help           Show this help
  test           Test the warehouse connection
  tables         List tables in the configured schema
  session        Show the current session id and message count
  export <file>  Write the last query results to a CSV file
  exit           Save the session and leave

Anything else is treated as a question about your data.`)
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Session ID to resume")
}
