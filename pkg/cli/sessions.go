package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/askdb-ai/askdb/pkg/session"
)

var (
	sessionsExportFormat string
	sessionsExportOut    string
	sessionsCleanupAge   time.Duration
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newSessionStore()
		if err != nil {
			return err
		}
		infos, err := store.List()
		if err != nil {
			return err
		}
		renderSessionList(infos)
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newSessionStore()
		if err != nil {
			return err
		}
		existed, err := store.Delete(args[0])
		if err != nil {
			return err
		}
		if !existed {
			fmt.Println(dimStyle.Render("No session named " + args[0]))
			return nil
		}
		fmt.Println("Deleted session " + args[0])
		return nil
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript",
	Long:  `Export a saved session as json, transcript (plain text), csv, or yaml.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newSessionStore()
		if err != nil {
			return err
		}
		s, err := store.Load(args[0])
		if err != nil {
			return err
		}

		exporter, err := session.NewExporter(sessionsExportFormat)
		if err != nil {
			return err
		}

		out := sessionsExportOut
		if out == "" {
			out = fmt.Sprintf("%s.%s", s.ID, exporter.Extension())
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(f, s); err != nil {
			return err
		}
		fmt.Println("Session exported to " + out)
		return nil
	},
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete sessions older than --max-age",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newSessionStore()
		if err != nil {
			return err
		}
		removed, err := store.Cleanup(sessionsCleanupAge)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d session(s)\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsCleanupCmd)

	sessionsExportCmd.Flags().StringVar(&sessionsExportFormat, "format", "json", "Export format: json, transcript, csv, yaml")
	sessionsExportCmd.Flags().StringVar(&sessionsExportOut, "out", "", "Output file (default <session-id>.<ext>)")
	sessionsCleanupCmd.Flags().DurationVar(&sessionsCleanupAge, "max-age", 30*24*time.Hour, "Delete sessions older than this")
}
