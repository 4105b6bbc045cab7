package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mkd-neo4j/seraph/internal/cache"
	"github.com/mkd-neo4j/seraph/internal/config"
	"github.com/mkd-neo4j/seraph/internal/database"
	db "github.com/mkd-neo4j/seraph/internal/database/mocks"
	"github.com/mkd-neo4j/seraph/internal/engine"
	qb "github.com/mkd-neo4j/seraph/internal/query_builder"
	"github.com/mkd-neo4j/seraph/internal/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const ttl = 500 * time.Millisecond

func newCachedEngine(t *testing.T, store database.Store) (*engine.Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
	e, err := engine.NewWithCache(store, ttl, 2, nil, cache.WithClock(clock.Now))
	require.NoError(t, err)
	return e, clock
}

// expectQuery wires one OpenSession -> Run -> Close round trip on a write
// session.
func expectQuery(ctrl *gomock.Controller, store *db.MockStore, records database.RecordSet, runErr error) {
	expectQueryIn(ctrl, store, database.AccessModeWrite, records, runErr)
}

func expectQueryIn(ctrl *gomock.Controller, store *db.MockStore, mode database.AccessMode, records database.RecordSet, runErr error) {
	session := db.NewMockSession(ctrl)
	store.EXPECT().OpenSession(gomock.Any(), mode).Return(session, nil)
	session.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(records, runErr)
	session.EXPECT().Close(gomock.Any()).Return(nil)
}

func TestExecuteQuery_CachesWithinTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, clock := newCachedEngine(t, store)
	ctx := context.Background()
	params := statement.Params{"name": statement.String("Alice")}

	expectQuery(ctrl, store, database.RecordSet{{"name": "Alice"}}, nil)

	first, err := e.ExecuteQuery(ctx, "MATCH (n:Person {name: $name}) RETURN n.name AS name", params)
	require.NoError(t, err)

	clock.Advance(ttl - time.Millisecond)
	second, err := e.ExecuteQuery(ctx, "MATCH (n:Person {name: $name}) RETURN n.name AS name", params)
	require.NoError(t, err)

	assert.Equal(t, database.RecordSet{{"name": "Alice"}}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, e.CacheLen())
}

func TestExecuteQuery_RefreshesAfterTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, clock := newCachedEngine(t, store)
	ctx := context.Background()

	gomock.InOrder(
		store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).DoAndReturn(func(context.Context, database.AccessMode) (database.Session, error) {
			s := db.NewMockSession(ctrl)
			s.EXPECT().Run(gomock.Any(), "RETURN $v AS v", map[string]any{"v": int64(1)}).Return(database.RecordSet{{"v": "old"}}, nil)
			s.EXPECT().Close(gomock.Any()).Return(nil)
			return s, nil
		}),
		store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).DoAndReturn(func(context.Context, database.AccessMode) (database.Session, error) {
			s := db.NewMockSession(ctrl)
			s.EXPECT().Run(gomock.Any(), "RETURN $v AS v", map[string]any{"v": int64(1)}).Return(database.RecordSet{{"v": "new"}}, nil)
			s.EXPECT().Close(gomock.Any()).Return(nil)
			return s, nil
		}),
	)

	params := statement.Params{"v": statement.Int(1)}

	first, err := e.ExecuteQuery(ctx, "RETURN $v AS v", params)
	require.NoError(t, err)
	assert.Equal(t, "old", first[0]["v"])

	clock.Advance(ttl)

	second, err := e.ExecuteQuery(ctx, "RETURN $v AS v", params)
	require.NoError(t, err)
	assert.Equal(t, "new", second[0]["v"])

	third, err := e.ExecuteQuery(ctx, "RETURN $v AS v", params)
	require.NoError(t, err)
	assert.Equal(t, "new", third[0]["v"], "refreshed value is cached again")
}

func TestExecuteQuery_ParameterOrderSharesCacheEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	ctx := context.Background()

	expectQuery(ctrl, store, database.RecordSet{{"n": 1}}, nil)

	first := qb.NewQueryBuilder().CreateNode("Person", qb.Props(qb.P("name", "Alice"), qb.P("age", 30))).Build()
	reordered := statement.Params{}
	reordered["age"] = statement.Int(30)
	reordered["name"] = statement.String("Alice")

	_, err := e.ExecuteStatement(ctx, first)
	require.NoError(t, err)
	_, err = e.ExecuteQuery(ctx, first.Text, reordered)
	require.NoError(t, err)
}

func TestClearCache_ForcesMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	ctx := context.Background()

	expectQuery(ctrl, store, database.RecordSet{{"x": 1}}, nil)
	expectQuery(ctrl, store, database.RecordSet{{"x": 1}}, nil)

	_, err := e.ExecuteQuery(ctx, "RETURN 1 AS x", nil)
	require.NoError(t, err)

	e.ClearCache()
	assert.Equal(t, 0, e.CacheLen())

	_, err = e.ExecuteQuery(ctx, "RETURN 1 AS x", nil)
	require.NoError(t, err)
}

func TestExecuteQuery_CacheDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.CacheEnabled = false

	e, err := engine.New(store, cfg, nil)
	require.NoError(t, err)

	expectQuery(ctrl, store, database.RecordSet{{"x": 1}}, nil)
	expectQuery(ctrl, store, database.RecordSet{{"x": 1}}, nil)

	for i := 0; i < 2; i++ {
		_, err := e.ExecuteQuery(context.Background(), "RETURN 1 AS x", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, e.CacheLen())
	e.ClearCache()
}

func TestExecuteQuery_FailureIsWrappedAndNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	cause := errors.New("Neo.ClientError.Statement.SyntaxError")

	expectQuery(ctrl, store, nil, cause)
	expectQuery(ctrl, store, database.RecordSet{}, nil)

	_, err := e.ExecuteQuery(context.Background(), "MATCH (n RETURN n", nil)

	var execErr *database.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "MATCH (n RETURN n", execErr.Query)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, e.CacheLen())

	_, err = e.ExecuteQuery(context.Background(), "MATCH (n RETURN n", nil)
	assert.NoError(t, err)
}

func TestExecuteQuery_OpenSessionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)

	store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).Return(nil, errors.New("connection refused"))

	_, err := e.ExecuteQuery(context.Background(), "RETURN 1", nil)

	var execErr *database.ExecutionError
	assert.ErrorAs(t, err, &execErr)
}

func TestExecuteQuery_SessionCloseFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	session := db.NewMockSession(ctrl)
	e, _ := newCachedEngine(t, store)

	store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).Return(session, nil)
	session.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(database.RecordSet{{"x": 1}}, nil)
	session.EXPECT().Close(gomock.Any()).Return(errors.New("socket closed"))

	records, err := e.ExecuteQuery(context.Background(), "RETURN 1 AS x", nil)

	require.NoError(t, err)
	assert.Equal(t, database.RecordSet{{"x": 1}}, records)
}

func TestExecuteBatch_PartialFailureReportsChunk(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	session := db.NewMockSession(ctrl)
	tx0 := db.NewMockTransaction(ctrl)
	tx1 := db.NewMockTransaction(ctrl)
	e, _ := newCachedEngine(t, store)
	cause := errors.New("constraint violation")

	stmts := make([]statement.Statement, 5)
	for i := range stmts {
		stmts[i] = qb.NewQueryBuilder().CreateNode("Item", qb.Props(qb.P("seq", i+1))).Build()
	}

	store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).Return(session, nil)
	gomock.InOrder(
		session.EXPECT().BeginTransaction(gomock.Any()).Return(tx0, nil),
		tx0.EXPECT().Run(gomock.Any(), gomock.Any(), map[string]any{"seq": int64(1)}).Return(nil),
		tx0.EXPECT().Run(gomock.Any(), gomock.Any(), map[string]any{"seq": int64(2)}).Return(nil),
		tx0.EXPECT().Commit(gomock.Any()).Return(nil),
		session.EXPECT().BeginTransaction(gomock.Any()).Return(tx1, nil),
		tx1.EXPECT().Run(gomock.Any(), gomock.Any(), map[string]any{"seq": int64(3)}).Return(nil),
		tx1.EXPECT().Run(gomock.Any(), gomock.Any(), map[string]any{"seq": int64(4)}).Return(cause),
		tx1.EXPECT().Rollback(gomock.Any()).Return(nil),
		session.EXPECT().Close(gomock.Any()).Return(nil),
	)

	err := e.ExecuteBatch(context.Background(), stmts)

	var batchErr *database.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.ChunkIndex)
	assert.ErrorIs(t, err, cause)
}

func TestExecuteBatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	session := db.NewMockSession(ctrl)
	tx := db.NewMockTransaction(ctrl)
	e, _ := newCachedEngine(t, store)

	store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).Return(session, nil)
	session.EXPECT().BeginTransaction(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	session.EXPECT().Close(gomock.Any()).Return(nil)

	err := e.ExecuteBatch(context.Background(), []statement.Statement{
		{Text: "CREATE (:A)"},
		{Text: "CREATE (:B)"},
	})
	assert.NoError(t, err)
}

func TestBuilderExecute_GoesThroughEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	session := db.NewMockSession(ctrl)
	e, _ := newCachedEngine(t, store)

	store.EXPECT().OpenSession(gomock.Any(), database.AccessModeWrite).Return(session, nil)
	session.EXPECT().
		Run(gomock.Any(), "CREATE (n:Person {name: $name}) RETURN n", map[string]any{"name": "Alice"}).
		Return(database.RecordSet{{"n": map[string]any{"name": "Alice"}}}, nil)
	session.EXPECT().Close(gomock.Any()).Return(nil)

	records, err := qb.NewQueryBuilder(qb.WithExecutor(e)).
		CreateNode("Person", qb.Props(qb.P("name", "Alice"))).
		Return("n").
		Execute(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestBuilderExecute_EngineFailureNotDoubleWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	cause := errors.New("boom")

	expectQuery(ctrl, store, nil, cause)

	_, err := qb.NewQueryBuilder(qb.WithExecutor(e)).Raw("RETURN 1").Execute(context.Background())

	var execErr *database.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Same(t, cause, execErr.Cause)
}

func TestNew_ValidatesConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.BatchSize = 0

	_, err = engine.New(store, cfg, nil)
	var cfgErr *database.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = engine.New(nil, cfg, nil)
	assert.ErrorAs(t, err, &cfgErr)

	_, err = engine.New(store, nil, nil)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNew_AcceptsConfigWithoutConnectionSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.URI = ""
	cfg.SchemaSampleSize = 0
	cfg.BatchSize = 7

	e, err := engine.New(db.NewMockStore(ctrl), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, e.BatchSize())
}

func TestExecuteQuery_CallerMutationDoesNotReachCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	ctx := context.Background()

	expectQuery(ctrl, store, database.RecordSet{{"name": "Alice", "tags": []any{"a"}}}, nil)

	first, err := e.ExecuteQuery(ctx, "MATCH (n) RETURN n.name AS name, n.tags AS tags", nil)
	require.NoError(t, err)
	first[0]["name"] = "mutated"
	first[0]["tags"].([]any)[0] = "z"

	second, err := e.ExecuteQuery(ctx, "MATCH (n) RETURN n.name AS name, n.tags AS tags", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", second[0]["name"])
	assert.Equal(t, "a", second[0]["tags"].([]any)[0])

	second[0]["name"] = "again"
	third, err := e.ExecuteQuery(ctx, "MATCH (n) RETURN n.name AS name, n.tags AS tags", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", third[0]["name"])
}

func TestExecuteReadStatement_UsesReadSessionAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	ctx := context.Background()
	stmt := statement.Statement{Text: "MATCH (n) RETURN count(n) AS c"}

	expectQueryIn(ctrl, store, database.AccessModeRead, database.RecordSet{{"c": int64(3)}}, nil)

	first, err := e.ExecuteReadStatement(ctx, stmt)
	require.NoError(t, err)
	second, err := e.ExecuteReadStatement(ctx, stmt)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// a read result also answers the general path
	third, err := e.ExecuteStatement(ctx, stmt)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestExecuteReadStatement_RefusedWriteIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	ctx := context.Background()
	stmt := statement.Statement{Text: "CREATE (n:Audit {at: 1})"}
	refused := errors.New("Neo.ClientError.Statement.AccessMode: Writing in read access mode not allowed")

	expectQueryIn(ctrl, store, database.AccessModeRead, nil, refused)
	expectQueryIn(ctrl, store, database.AccessModeRead, nil, refused)

	for i := 0; i < 2; i++ {
		_, err := e.ExecuteReadStatement(ctx, stmt)
		var execErr *database.ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.ErrorIs(t, err, refused)
	}
	assert.Equal(t, 0, e.CacheLen())
}

func TestExecuteReadStatement_IgnoresResultsCachedByWriteSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)
	ctx := context.Background()
	stmt := statement.Statement{Text: "CREATE (n:Audit) RETURN n"}
	refused := errors.New("Neo.ClientError.Statement.AccessMode")

	expectQuery(ctrl, store, database.RecordSet{{"n": "created"}}, nil)
	expectQueryIn(ctrl, store, database.AccessModeRead, nil, refused)

	_, err := e.ExecuteStatement(ctx, stmt)
	require.NoError(t, err)

	_, err = e.ExecuteReadStatement(ctx, stmt)
	assert.ErrorIs(t, err, refused)
}

func TestReader_RoutesBuilderThroughReadSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)

	expectQueryIn(ctrl, store, database.AccessModeRead, database.RecordSet{{"x": int64(1)}}, nil)

	records, err := qb.NewQueryBuilder(qb.WithExecutor(engine.Reader(e))).Raw("RETURN 1 AS x").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, database.RecordSet{{"x": int64(1)}}, records)
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	e, _ := newCachedEngine(t, store)

	store.EXPECT().Close(gomock.Any()).Return(nil)
	assert.NoError(t, e.Close(context.Background()))

	closeErr := errors.New("pool busy")
	store.EXPECT().Close(gomock.Any()).Return(closeErr)
	err := e.Close(context.Background())

	var resErr *database.ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.ErrorIs(t, err, closeErr)
}

func TestGetDatabaseName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	store.EXPECT().GetDatabaseName().Return("neo4j")
	e, _ := newCachedEngine(t, store)

	assert.Equal(t, "neo4j", e.GetDatabaseName())
}
