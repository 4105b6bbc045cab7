package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore is the Store backed by the official Neo4j driver.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jStore creates a driver for uri using basic auth. The driver connects
// lazily; call VerifyConnectivity to fail fast.
func NewNeo4jStore(uri, username, password, databaseName string, logger *slog.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Neo4jStore{driver: driver, database: databaseName, logger: logger}, nil
}

func (s *Neo4jStore) OpenSession(ctx context.Context, mode AccessMode) (Session, error) {
	accessMode := neo4j.AccessModeWrite
	if mode == AccessModeRead {
		accessMode = neo4j.AccessModeRead
	}
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   accessMode,
	})
	return &neo4jSession{session: session}, nil
}

func (s *Neo4jStore) VerifyConnectivity(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify connectivity: %w", err)
	}
	return nil
}

func (s *Neo4jStore) GetDatabaseName() string {
	return s.database
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	s.logger.Info("closing neo4j driver", "database", s.database)
	return s.driver.Close(ctx)
}

type neo4jSession struct {
	session neo4j.SessionWithContext
}

func (s *neo4jSession) Run(ctx context.Context, cypher string, params map[string]any) (RecordSet, error) {
	result, err := s.session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return toRecordSet(records), nil
}

func (s *neo4jSession) BeginTransaction(ctx context.Context) (Transaction, error) {
	tx, err := s.session.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &neo4jTransaction{tx: tx}, nil
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

type neo4jTransaction struct {
	tx neo4j.ExplicitTransaction
}

func (t *neo4jTransaction) Run(ctx context.Context, cypher string, params map[string]any) error {
	result, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	// Consume surfaces errors the server reports after streaming starts.
	_, err = result.Consume(ctx)
	return err
}

func (t *neo4jTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *neo4jTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func toRecordSet(records []*neo4j.Record) RecordSet {
	out := make(RecordSet, 0, len(records))
	for _, record := range records {
		out = append(out, Record(record.AsMap()))
	}
	return out
}

// RecordsToJSON renders records as indented JSON for tool output.
func RecordsToJSON(records RecordSet) (string, error) {
	if records == nil {
		records = RecordSet{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	return string(data), nil
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []byte:
		return append([]byte(nil), x...)
	case neo4j.Node:
		return cloneNode(x)
	case neo4j.Relationship:
		return cloneRelationship(x)
	case neo4j.Path:
		nodes := make([]neo4j.Node, len(x.Nodes))
		for i, n := range x.Nodes {
			nodes[i] = cloneNode(n)
		}
		rels := make([]neo4j.Relationship, len(x.Relationships))
		for i, r := range x.Relationships {
			rels[i] = cloneRelationship(r)
		}
		return neo4j.Path{Nodes: nodes, Relationships: rels}
	default:
		return v
	}
}

func cloneNode(n neo4j.Node) neo4j.Node {
	n.Labels = append([]string(nil), n.Labels...)
	n.Props = cloneMap(n.Props)
	return n
}

func cloneRelationship(r neo4j.Relationship) neo4j.Relationship {
	r.Props = cloneMap(r.Props)
	return r
}
