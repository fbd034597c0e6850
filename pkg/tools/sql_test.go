package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/config"
)

// newMockedSQLRegistry registers the sql tools over a sqlmock-backed
// database named "staging".
func newMockedSQLRegistry(t *testing.T) (*registry.Registry, sqlmock.Sqlmock) {
	t.Helper()
	dsn := fmt.Sprintf("sqlmock_%s", t.Name())
	db, mock, err := sqlmock.NewWithDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg := registry.New()
	require.NoError(t, registerSQLTools(reg, map[string]config.DatabaseConfig{
		"staging": {Driver: "sqlmock", DSN: dsn},
	}))
	return reg, mock
}

func invoke(t *testing.T, reg *registry.Registry, tag agent.Tag, tool string, args string) *agent.ToolResult {
	t.Helper()
	d, err := reg.Resolve(tag, tool)
	require.NoError(t, err)
	res, err := d.Invoke(context.Background(), "call-1", json.RawMessage(args))
	require.NoError(t, err)
	return res
}

func TestSQLQueryRendersRowsAsJSON(t *testing.T) {
	reg, mock := newMockedSQLRegistry(t)
	mock.ExpectQuery("SELECT id, name FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, []byte("alice")).
			AddRow(2, []byte("bob")))

	res := invoke(t, reg, agent.TagSQL, "sql_query",
		`{"database": "staging", "query": "SELECT id, name FROM users"}`)
	require.False(t, res.IsError, res.Content)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0]["name"])
	assert.Equal(t, "bob", rows[1]["name"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLQueryEmptyResult(t *testing.T) {
	reg, mock := newMockedSQLRegistry(t)
	mock.ExpectQuery("SELECT 1 WHERE false").
		WillReturnRows(sqlmock.NewRows([]string{"one"}))

	res := invoke(t, reg, agent.TagSQL, "sql_query",
		`{"database": "staging", "query": "SELECT 1 WHERE false"}`)
	require.False(t, res.IsError)
	assert.Equal(t, "(no rows)", res.Content)
}

func TestSQLQueryErrorIsInBand(t *testing.T) {
	reg, mock := newMockedSQLRegistry(t)
	mock.ExpectQuery("SELECT bogus").
		WillReturnError(fmt.Errorf("no such column: bogus"))

	res := invoke(t, reg, agent.TagSQL, "sql_query",
		`{"database": "staging", "query": "SELECT bogus"}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "no such column")
}

func TestSQLQueryUnknownDatabase(t *testing.T) {
	reg, _ := newMockedSQLRegistry(t)
	res := invoke(t, reg, agent.TagSQL, "sql_query",
		`{"database": "production", "query": "SELECT 1"}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, `"production"`)
}

func TestSQLExecuteReportsRowsAffected(t *testing.T) {
	reg, mock := newMockedSQLRegistry(t)
	mock.ExpectExec("DELETE FROM sessions").
		WillReturnResult(sqlmock.NewResult(0, 3))

	res := invoke(t, reg, agent.TagSQL, "sql_execute",
		`{"database": "staging", "statement": "DELETE FROM sessions"}`)
	require.False(t, res.IsError, res.Content)
	assert.Contains(t, res.Content, "3 row(s) affected")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLToolsVisibleOnlyToSQLTag(t *testing.T) {
	reg, _ := newMockedSQLRegistry(t)
	_, err := reg.Resolve(agent.TagBrowser, "sql_query")
	assert.ErrorIs(t, err, registry.ErrToolNotFound)
}
