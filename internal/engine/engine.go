package engine

//go:generate mockgen -destination=mocks/mock_engine.go -package=engine_mocks github.com/mkd-neo4j/seraph/internal/engine Service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mkd-neo4j/seraph/internal/batch"
	"github.com/mkd-neo4j/seraph/internal/cache"
	"github.com/mkd-neo4j/seraph/internal/config"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/statement"
)

// Service is the execution surface exposed to callers and tools.
type Service interface {
	// ExecuteQuery runs one statement, serving it from the cache when a fresh
	// result for the same text and parameters exists.
	ExecuteQuery(ctx context.Context, text string, params statement.Params) (database.RecordSet, error)

	// ExecuteStatement is ExecuteQuery for a built statement.
	ExecuteStatement(ctx context.Context, stmt statement.Statement) (database.RecordSet, error)

	// ExecuteReadStatement is ExecuteStatement on a read session: the server
	// refuses the statement if it writes. Results cached by a write session
	// are never served here.
	ExecuteReadStatement(ctx context.Context, stmt statement.Statement) (database.RecordSet, error)

	// ExecuteBatch applies stmts in chunked transactions. See package batch
	// for the partial failure semantics.
	ExecuteBatch(ctx context.Context, stmts []statement.Statement) error

	// ClearCache drops every cached result.
	ClearCache()

	// CacheLen returns the number of cached entries.
	CacheLen() int

	// GetDatabaseName returns the name of the target database.
	GetDatabaseName() string

	// Close releases the store.
	Close(ctx context.Context) error
}

// Engine executes statements against a store with result caching and
// chunked batch execution.
type Engine struct {
	store  database.Store
	cache  *cache.TTL[cachedResult]
	runner *batch.Runner
	logger *slog.Logger
}

// cachedResult remembers the session mode that produced records. Callers get
// clones, never the cached slice.
type cachedResult struct {
	records database.RecordSet
	mode    database.AccessMode
}

// serves reports whether a result produced in r.mode may answer a request in
// mode. A write session may have changed the graph, so its results only
// answer write requests.
func (r cachedResult) serves(mode database.AccessMode) bool {
	return r.mode == database.AccessModeRead || mode == database.AccessModeWrite
}

var _ Service = (*Engine)(nil)

// New creates an Engine. The cache is only created when cfg.CacheEnabled is
// set; otherwise every query goes to the store.
func New(store database.Store, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if store == nil {
		return nil, &database.ConfigurationError{Reason: "engine requires a store"}
	}
	if cfg == nil {
		return nil, &database.ConfigurationError{Reason: "engine requires a configuration"}
	}
	if err := cfg.ValidateEngine(); err != nil {
		return nil, &database.ConfigurationError{Reason: err.Error()}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	runner, err := batch.NewRunner(store, cfg.BatchSize, logger)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:  store,
		runner: runner,
		logger: logger,
	}

	if cfg.CacheEnabled {
		e.cache, err = cache.New[cachedResult](cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries))
		if err != nil {
			return nil, fmt.Errorf("failed to create query cache: %w", err)
		}
	}

	return e, nil
}

// NewWithCache is New with explicit cache options, used to control the clock
// in tests. A ttl of zero or less disables caching.
func NewWithCache(store database.Store, ttl time.Duration, batchSize int, logger *slog.Logger, opts ...cache.Option) (*Engine, error) {
	if store == nil {
		return nil, &database.ConfigurationError{Reason: "engine requires a store"}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runner, err := batch.NewRunner(store, batchSize, logger)
	if err != nil {
		return nil, err
	}
	e := &Engine{store: store, runner: runner, logger: logger}
	if ttl > 0 {
		e.cache, err = cache.New[cachedResult](ttl, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create query cache: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) ExecuteQuery(ctx context.Context, text string, params statement.Params) (database.RecordSet, error) {
	return e.ExecuteStatement(ctx, statement.Statement{Text: text, Params: params})
}

func (e *Engine) ExecuteStatement(ctx context.Context, stmt statement.Statement) (database.RecordSet, error) {
	return e.execute(ctx, stmt, database.AccessModeWrite)
}

func (e *Engine) ExecuteReadStatement(ctx context.Context, stmt statement.Statement) (database.RecordSet, error) {
	return e.execute(ctx, stmt, database.AccessModeRead)
}

func (e *Engine) execute(ctx context.Context, stmt statement.Statement, mode database.AccessMode) (database.RecordSet, error) {
	if e.cache != nil {
		if hit, ok := e.cache.Lookup(stmt); ok && hit.serves(mode) {
			e.logger.Info("cache hit for query", "query", stmt.Text, "mode", mode)
			return hit.records.Clone(), nil
		}
	}

	records, err := e.run(ctx, stmt, mode)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Store(stmt, cachedResult{records: records.Clone(), mode: mode})
		e.logger.Info("query executed and cached", "query", stmt.Text, "mode", mode, "records", len(records))
	}
	return records, nil
}

// run executes stmt on a fresh session and always closes it. A close failure
// is logged and does not discard a result that was already obtained.
func (e *Engine) run(ctx context.Context, stmt statement.Statement, mode database.AccessMode) (database.RecordSet, error) {
	session, err := e.store.OpenSession(ctx, mode)
	if err != nil {
		e.logger.Error("failed to open session", "error", err)
		return nil, &database.ExecutionError{Query: stmt.Text, Cause: err}
	}
	defer func() {
		if closeErr := session.Close(ctx); closeErr != nil {
			e.logger.Error("error closing session", "error", &database.ResourceError{Op: "close session", Cause: closeErr})
		}
	}()

	e.logger.Info("executing query", "query", stmt.Text, "parameters", len(stmt.Params))

	records, err := session.Run(ctx, stmt.Text, stmt.Params.Native())
	if err != nil {
		e.logger.Error("failed to execute query", "query", stmt.Text, "error", err)
		return nil, &database.ExecutionError{Query: stmt.Text, Cause: err}
	}
	return records, nil
}

func (e *Engine) ExecuteBatch(ctx context.Context, stmts []statement.Statement) error {
	batchID := uuid.NewString()
	logger := e.logger.With("batchId", batchID)

	if err := e.runner.WithLogger(logger).Run(ctx, stmts); err != nil {
		return err
	}
	logger.Info("batch committed", "statements", len(stmts))
	return nil
}

func (e *Engine) ClearCache() {
	if e.cache == nil {
		return
	}
	e.cache.ClearAll()
	e.logger.Info("cache cleared")
}

// BatchSize returns the number of statements committed per chunk.
func (e *Engine) BatchSize() int {
	return e.runner.BatchSize()
}

func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

func (e *Engine) GetDatabaseName() string {
	return e.store.GetDatabaseName()
}

func (e *Engine) Close(ctx context.Context) error {
	if err := e.store.Close(ctx); err != nil {
		resErr := &database.ResourceError{Op: "close store", Cause: err}
		e.logger.Error("error closing store", "error", resErr)
		return resErr
	}
	return nil
}

// ReadExecutor runs builder statements on read sessions. It satisfies the
// query builder's Executor.
type ReadExecutor struct {
	service Service
}

// Reader returns an executor that sends every statement through
// s.ExecuteReadStatement.
func Reader(s Service) ReadExecutor {
	return ReadExecutor{service: s}
}

func (r ReadExecutor) ExecuteStatement(ctx context.Context, stmt statement.Statement) (database.RecordSet, error) {
	return r.service.ExecuteReadStatement(ctx, stmt)
}
