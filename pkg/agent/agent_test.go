package agent

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askdb-ai/askdb/pkg/llm"
	"github.com/askdb-ai/askdb/pkg/retry"
	"github.com/askdb-ai/askdb/pkg/session"
	"github.com/askdb-ai/askdb/pkg/translate"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

type stubSchemaSource struct {
	listErr   error
	listCalls int
}

func (s *stubSchemaSource) ListTables(ctx context.Context) ([]string, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []string{"orders"}, nil
}

func (s *stubSchemaSource) DescribeTable(ctx context.Context, table string) ([]warehouse.Column, error) {
	return []warehouse.Column{{Name: "id", DataType: "integer"}}, nil
}

func (s *stubSchemaSource) Sample(ctx context.Context, table string, limit int) ([]warehouse.Row, error) {
	return []warehouse.Row{{"ID": 1}}, nil
}

type stubExecutor struct {
	result *warehouse.QueryResult
	err    error
	calls  int
}

func (e *stubExecutor) Execute(ctx context.Context, query string) (*warehouse.QueryResult, error) {
	e.calls++
	return e.result, e.err
}

func fastRetry() *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.InitialDelay = 0
	cfg.MaxDelay = 0
	return cfg
}

func newTestAgent(t *testing.T, mock *llm.MockClient, executor warehouse.Executor, source warehouse.SchemaSource) *Agent {
	t.Helper()
	logger := zap.NewNop()
	store, err := session.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	return New(
		translate.NewTranslator(mock, fastRetry(), logger),
		translate.NewContextBuilder(source, logger),
		executor,
		store,
		logger,
	)
}

func TestProcessQuery_HappyPath(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "SELECT * FROM orders", nil
	}
	executor := &stubExecutor{result: &warehouse.QueryResult{
		Columns:  []string{"ID"},
		Rows:     []warehouse.Row{{"ID": 1}, {"ID": 2}},
		RowCount: 2,
	}}
	a := newTestAgent(t, mock, executor, &stubSchemaSource{})
	require.NoError(t, a.StartSession(""))

	resp, err := a.ProcessQuery(context.Background(), "show all orders", true)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM orders", resp.SQL)
	assert.True(t, resp.Validation.IsValid)
	assert.True(t, resp.Executed)
	assert.Equal(t, 2, resp.RowCount)
	assert.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, 1, executor.calls)

	messages := a.Session().Messages
	require.Len(t, messages, 2)
	assert.Equal(t, llm.RoleUser, messages[0].Role)
	assert.Equal(t, "show all orders", messages[0].Content)
	assert.Equal(t, llm.RoleAssistant, messages[1].Role)
	assert.Equal(t, "SELECT * FROM orders", messages[1].SQL)
	require.NotNil(t, messages[1].Results)
}

func TestProcessQuery_InvalidSQLSkipsExecution(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "DROP TABLE orders", nil
	}
	executor := &stubExecutor{}
	a := newTestAgent(t, mock, executor, &stubSchemaSource{})
	require.NoError(t, a.StartSession(""))

	resp, err := a.ProcessQuery(context.Background(), "delete everything", true)
	require.NoError(t, err)

	assert.False(t, resp.Validation.IsValid)
	assert.False(t, resp.Executed)
	assert.Zero(t, executor.calls)
	assert.Empty(t, resp.Error)
	// The exchange still lands in the transcript.
	assert.Len(t, a.Session().Messages, 2)
}

func TestProcessQuery_ExecutionFailureKeepsSessionAlive(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "SELECT * FROM orders LIMIT 5", nil
	}
	executor := &stubExecutor{err: errors.New("relation does not exist")}
	a := newTestAgent(t, mock, executor, &stubSchemaSource{})
	require.NoError(t, a.StartSession(""))

	resp, err := a.ProcessQuery(context.Background(), "show orders", true)
	require.NoError(t, err)

	assert.False(t, resp.Executed)
	assert.Contains(t, resp.Error, "relation does not exist")
	assert.Len(t, a.Session().Messages, 2)

	// A followup still works.
	executor.err = nil
	executor.result = &warehouse.QueryResult{Columns: []string{"ID"}, RowCount: 0}
	resp, err = a.ProcessQuery(context.Background(), "try again", true)
	require.NoError(t, err)
	assert.True(t, resp.Executed)
}

func TestProcessQuery_TranslationFailureLeavesTranscriptUntouched(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "", llm.NewError(llm.ErrorTypeAuth, "invalid api key", false, nil)
	}
	a := newTestAgent(t, mock, &stubExecutor{}, &stubSchemaSource{})
	require.NoError(t, a.StartSession(""))

	_, err := a.ProcessQuery(context.Background(), "anything", true)
	require.Error(t, err)
	assert.Empty(t, a.Session().Messages)
}

func TestProcessQuery_NoExecuteFlag(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "SELECT 1", nil
	}
	executor := &stubExecutor{}
	a := newTestAgent(t, mock, executor, &stubSchemaSource{})
	require.NoError(t, a.StartSession(""))

	resp, err := a.ProcessQuery(context.Background(), "ping", false)
	require.NoError(t, err)
	assert.False(t, resp.Executed)
	assert.Zero(t, executor.calls)
	assert.True(t, resp.Validation.IsValid)
}

func TestLoadContext_CacheSkipsWarehouse(t *testing.T) {
	source := &stubSchemaSource{}
	mock := llm.NewMockClient()
	a := newTestAgent(t, mock, &stubExecutor{}, source)
	require.NoError(t, a.StartSession(""))

	require.NoError(t, a.LoadContext(context.Background(), true))
	assert.Equal(t, 1, source.listCalls)
	require.NotNil(t, a.Session().ContextCache)

	// Second load with cache enabled must not hit the schema source.
	require.NoError(t, a.LoadContext(context.Background(), true))
	assert.Equal(t, 1, source.listCalls)

	// A forced refresh does.
	require.NoError(t, a.LoadContext(context.Background(), false))
	assert.Equal(t, 2, source.listCalls)
}

func TestStartSession_ResumeRestoresCache(t *testing.T) {
	logger := zap.NewNop()
	store, err := session.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	prior := session.New("resume-me")
	prior.ContextCache = &translate.QueryContext{Tables: []translate.TableContext{
		{Name: "orders", Columns: []warehouse.Column{{Name: "id", DataType: "integer"}}},
	}}
	prior.Append("user", "old question", "", nil)
	require.NoError(t, store.Save(prior))

	failing := &stubSchemaSource{listErr: errors.New("warehouse down")}
	mock := llm.NewMockClient()
	a := New(
		translate.NewTranslator(mock, fastRetry(), logger),
		translate.NewContextBuilder(failing, logger),
		&stubExecutor{},
		store,
		logger,
	)

	require.NoError(t, a.StartSession("resume-me"))
	assert.Len(t, a.Session().Messages, 1)

	// The cached context makes the warehouse unnecessary.
	require.NoError(t, a.LoadContext(context.Background(), true))
}

func TestStartSession_UnknownIDStartsFresh(t *testing.T) {
	a := newTestAgent(t, llm.NewMockClient(), &stubExecutor{}, &stubSchemaSource{})
	require.NoError(t, a.StartSession("never-saved"))
	assert.Equal(t, "never-saved", a.Session().ID)
	assert.Empty(t, a.Session().Messages)
}

func TestSaveSession_RoundTrip(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message) (string, error) {
		return "SELECT 1", nil
	}
	a := newTestAgent(t, mock, &stubExecutor{}, &stubSchemaSource{})
	require.NoError(t, a.StartSession("persisted"))

	_, err := a.ProcessQuery(context.Background(), "ping", false)
	require.NoError(t, err)
	require.NoError(t, a.SaveSession())

	b := New(
		translate.NewTranslator(mock, fastRetry(), zap.NewNop()),
		translate.NewContextBuilder(&stubSchemaSource{}, zap.NewNop()),
		&stubExecutor{},
		a.store,
		zap.NewNop(),
	)
	require.NoError(t, b.StartSession("persisted"))
	assert.Len(t, b.Session().Messages, 2)
}

func TestExportResultsCSV(t *testing.T) {
	results := &warehouse.QueryResult{
		Columns: []string{"ID", "NAME"},
		Rows: []warehouse.Row{
			{"ID": 1, "NAME": "Ada"},
			{"ID": 2, "NAME": nil},
		},
		RowCount: 2,
	}

	var buf bytes.Buffer
	require.NoError(t, ExportResultsCSV(&buf, results))

	out := buf.String()
	assert.Contains(t, out, "ID,NAME")
	assert.Contains(t, out, "1,Ada")
	assert.Contains(t, out, "2,")
}

func TestExportResultsCSV_NilResults(t *testing.T) {
	assert.Error(t, ExportResultsCSV(&bytes.Buffer{}, nil))
}
