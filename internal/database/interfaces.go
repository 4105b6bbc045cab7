package database

//go:generate mockgen -destination=mocks/mock_database.go -package=database_mocks github.com/mkd-neo4j/seraph/internal/database Store,Session,Transaction

import (
	"context"
)

// Record is one result row keyed by column name.
type Record map[string]any

// RecordSet is the ordered result of one statement.
type RecordSet []Record

// Clone returns a deep copy of rs. Maps, slices and graph entities are copied
// so the clone shares no mutable state with rs. A nil set stays nil.
func (rs RecordSet) Clone() RecordSet {
	if rs == nil {
		return nil
	}
	out := make(RecordSet, len(rs))
	for i, record := range rs {
		out[i] = Record(cloneMap(record))
	}
	return out
}

// AccessMode tells the server whether a session may write.
type AccessMode int

const (
	AccessModeWrite AccessMode = iota
	// AccessModeRead sessions are refused any statement that writes.
	AccessModeRead
)

func (m AccessMode) String() string {
	if m == AccessModeRead {
		return "read"
	}
	return "write"
}

// Store opens sessions against the graph database.
type Store interface {
	// OpenSession acquires a session in the given access mode. The caller
	// must Close it on every path.
	OpenSession(ctx context.Context, mode AccessMode) (Session, error)

	// VerifyConnectivity checks that the database is reachable.
	VerifyConnectivity(ctx context.Context) error

	// GetDatabaseName returns the name of the target database.
	GetDatabaseName() string

	// Close releases the underlying connection pool.
	Close(ctx context.Context) error
}

// Session runs auto-commit statements and opens explicit transactions.
type Session interface {
	// Run executes one statement in its own auto-commit transaction and
	// returns every record it produced.
	Run(ctx context.Context, cypher string, params map[string]any) (RecordSet, error)

	// BeginTransaction opens an explicit transaction on this session.
	BeginTransaction(ctx context.Context) (Transaction, error)

	Close(ctx context.Context) error
}

// Transaction is an explicit transaction. Statements run in it become visible
// only after Commit.
type Transaction interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
