package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mkd-neo4j/seraph/internal/batch"
	"github.com/mkd-neo4j/seraph/internal/config"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/engine"
	"github.com/mkd-neo4j/seraph/internal/logger"
	"github.com/mkd-neo4j/seraph/internal/server"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/utils"
	"github.com/mkd-neo4j/seraph/tools"
)

var version = "dev"

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	configPath string
	envFile    string
	cfg        *config.Config
	log        *slog.Logger
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "seraph",
		Short: "Cached, batched Cypher execution for Neo4j",
		Long: `seraph runs Cypher against Neo4j with a TTL result cache and
chunked transactional batches. It can serve the engine as MCP tools over
stdio or run single queries and statement files from the shell.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (defaults are built in)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seraph %s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the execution engine as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	})

	queryCmd := &cobra.Command{
		Use:   "query <cypher>",
		Short: "Run one query and print the records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runQuery,
	}
	queryCmd.Flags().String("params", "{}", "query parameters as a JSON object")
	rootCmd.AddCommand(queryCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Run a statement file in transactional chunks",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runBatch,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	// stdout belongs to the MCP transport and to command output
	a.log = logger.New(cfg, os.Stderr)
	return nil
}

// openEngine connects to Neo4j and builds the engine. The caller closes it.
func (a *app) openEngine(ctx context.Context) (*engine.Engine, error) {
	store, err := database.NewNeo4jStore(a.cfg.URI, a.cfg.Username, a.cfg.Password, a.cfg.Database, a.log)
	if err != nil {
		return nil, err
	}

	if err := store.VerifyConnectivity(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", a.cfg.URI, err)
	}

	eng, err := engine.New(store, a.cfg, a.log)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return eng, nil
}

func (a *app) closeEngine(eng *engine.Engine) {
	// the command context may already be cancelled
	if err := eng.Close(context.Background()); err != nil {
		a.log.Error("failed to close engine", "error", err)
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	eng, err := a.openEngine(ctx)
	if err != nil {
		return err
	}

	srv := server.NewNeo4jMCPServer(version, a.cfg, eng, tools.ConfigFiles, a.log)
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			a.log.Error("failed to stop server", "error", err)
		}
	}()

	if err := srv.Start(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *app) runQuery(cmd *cobra.Command, args []string) error {
	rawParams, _ := cmd.Flags().GetString("params")
	var params utils.Params
	if err := json.Unmarshal([]byte(rawParams), &params); err != nil {
		return fmt.Errorf("--params must be a JSON object: %w", err)
	}

	stmt, err := utils.ToStatement(args[0], params)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer a.closeEngine(eng)

	execute := eng.ExecuteStatement
	if a.cfg.ReadOnly {
		execute = eng.ExecuteReadStatement
	}
	records, err := execute(ctx, stmt)
	if err != nil {
		return err
	}

	out, err := database.RecordsToJSON(records)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *app) runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	stmts, err := batch.LoadStatements(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer a.closeEngine(eng)

	if err := eng.ExecuteBatch(ctx, stmts); err != nil {
		var batchErr *database.BatchError
		if errors.As(err, &batchErr) {
			committed := batchErr.ChunkIndex * eng.BatchSize()
			a.log.Error("batch stopped", "chunk", batchErr.ChunkIndex, "committedStatements", committed, "error", batchErr.Cause)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "executed %d statements in chunks of %d\n", len(stmts), eng.BatchSize())
	return nil
}
