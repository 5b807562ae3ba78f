// Package cli implements the askdb command line interface.
package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/askdb-ai/askdb/pkg/agent"
	"github.com/askdb-ai/askdb/pkg/config"
	"github.com/askdb-ai/askdb/pkg/llm"
	"github.com/askdb-ai/askdb/pkg/logging"
	"github.com/askdb-ai/askdb/pkg/retry"
	"github.com/askdb-ai/askdb/pkg/session"
	"github.com/askdb-ai/askdb/pkg/translate"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "askdb",
	Short: "Ask your database questions in plain language",
	Long: `askdb translates natural language questions into SQL, validates the
generated query for safety, runs it against your PostgreSQL warehouse, and
keeps the conversation in resumable sessions.

Quick Start:
  askdb test                          # Verify warehouse connectivity
  askdb query "how many orders today" # One-shot question
  askdb chat                          # Interactive conversation
  askdb sessions list                 # Browse saved sessions`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; explicit environment always wins.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "Path to the YAML config file")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// newWarehouseClient maps the loaded configuration onto a lazily-connected
// warehouse client. The interactive password prompt is the last resort in
// the credential chain.
func newWarehouseClient() *warehouse.Client {
	wcfg := &warehouse.Config{
		Host:           cfg.Warehouse.Host,
		Port:           cfg.Warehouse.Port,
		User:           cfg.Warehouse.User,
		Password:       cfg.Warehouse.Password,
		PasswordSecure: cfg.Warehouse.PasswordSecure,
		Database:       cfg.Warehouse.Database,
		Schema:         cfg.Warehouse.Schema,
		Role:           cfg.Warehouse.Role,
		SSLMode:        cfg.Warehouse.SSLMode,
		TLSCertPath:    cfg.Warehouse.TLSCertPath,
		TLSKeyPath:     cfg.Warehouse.TLSKeyPath,
		MaxRows:        cfg.MaxQueryResults,
		PasswordPrompt: promptPassword,
	}
	return warehouse.NewClient(wcfg, logger)
}

// newAgent assembles the full pipeline. The returned warehouse client must
// be closed by the caller.
func newAgent() (*agent.Agent, *warehouse.Client, error) {
	client, err := llm.NewClient(&llm.Config{
		Endpoint:    cfg.AI.Endpoint,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	store, err := session.NewStore(cfg.SessionsDir, logger)
	if err != nil {
		return nil, nil, err
	}

	wh := newWarehouseClient()
	a := agent.New(
		translate.NewTranslator(client, retry.DefaultConfig(), logger),
		translate.NewContextBuilder(wh, logger),
		wh,
		store,
		logger,
	)
	return a, wh, nil
}

func newSessionStore() (*session.Store, error) {
	return session.NewStore(cfg.SessionsDir, logger)
}

// promptPassword reads a password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Fprintf(os.Stderr, "Warehouse password for %s: ", cfg.Warehouse.User)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
