// Package batch applies long statement lists as a sequence of chunks, each
// committed in its own transaction.
//
// Chunks run strictly one after another. When a statement fails, its chunk is
// rolled back and the batch stops; chunks committed before it stay committed.
// There is no compensation across chunk boundaries. The returned
// *database.BatchError names the failing chunk so the caller can repair or
// resume.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/statement"
)

// Runner executes batches against a store.
type Runner struct {
	store     database.Store
	batchSize int
	logger    *slog.Logger
}

// NewRunner creates a runner with chunks of at most batchSize statements.
func NewRunner(store database.Store, batchSize int, logger *slog.Logger) (*Runner, error) {
	if store == nil {
		return nil, &database.ConfigurationError{Reason: "batch runner requires a store"}
	}
	if batchSize <= 0 {
		return nil, &database.ConfigurationError{Reason: fmt.Sprintf("batch size must be greater than 0, got %d", batchSize)}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{store: store, batchSize: batchSize, logger: logger}, nil
}

// WithLogger returns a copy of r that logs to logger.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	cp := *r
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

func (r *Runner) BatchSize() int {
	return r.batchSize
}

// Chunks splits stmts into consecutive slices of at most size elements. The
// returned slices share stmts' backing array.
func Chunks(stmts []statement.Statement, size int) [][]statement.Statement {
	if size <= 0 || len(stmts) == 0 {
		return nil
	}
	chunks := make([][]statement.Statement, 0, (len(stmts)+size-1)/size)
	for start := 0; start < len(stmts); start += size {
		end := min(start+size, len(stmts))
		chunks = append(chunks, stmts[start:end:end])
	}
	return chunks
}

// Run executes stmts chunk by chunk on one session. It returns nil when every
// chunk committed, or a *database.BatchError for the first chunk that failed.
func (r *Runner) Run(ctx context.Context, stmts []statement.Statement) error {
	chunks := Chunks(stmts, r.batchSize)
	if len(chunks) == 0 {
		return nil
	}

	session, err := r.store.OpenSession(ctx, database.AccessModeWrite)
	if err != nil {
		return &database.BatchError{ChunkIndex: 0, Cause: fmt.Errorf("failed to open session: %w", err)}
	}
	defer func() {
		if closeErr := session.Close(ctx); closeErr != nil {
			resErr := &database.ResourceError{Op: "close session", Cause: closeErr}
			r.logger.Error("error closing batch session", "error", resErr)
		}
	}()

	r.logger.Info("running batch", "statements", len(stmts), "chunks", len(chunks), "batchSize", r.batchSize)

	for i, chunk := range chunks {
		if err := r.runChunk(ctx, session, chunk); err != nil {
			r.logger.Error("batch chunk failed, earlier chunks remain committed",
				"chunk", i,
				"committedChunks", i,
				"error", err)
			return &database.BatchError{ChunkIndex: i, Cause: err}
		}
		r.logger.Info("batch chunk committed", "chunk", i, "statements", len(chunk))
	}

	return nil
}

func (r *Runner) runChunk(ctx context.Context, session database.Session, chunk []statement.Statement) error {
	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	for _, stmt := range chunk {
		if err := tx.Run(ctx, stmt.Text, stmt.Params.Native()); err != nil {
			runErr := &database.ExecutionError{Query: stmt.Text, Cause: err}
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error("error rolling back chunk", "error", rbErr)
				return errors.Join(runErr, &database.ResourceError{Op: "roll back transaction", Cause: rbErr})
			}
			return runErr
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
