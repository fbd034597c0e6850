package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	// Drivers for the configurable sql navigator backends.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/config"
)

// maxQueryRows bounds result sets fed back into LLM context.
const maxQueryRows = 100

// sqlPool opens connections lazily per configured database and reuses
// them across calls.
type sqlPool struct {
	configs map[string]config.DatabaseConfig

	mu    sync.Mutex
	conns map[string]*sql.DB
}

func newSQLPool(configs map[string]config.DatabaseConfig) *sqlPool {
	return &sqlPool{configs: configs, conns: make(map[string]*sql.DB)}
}

func (p *sqlPool) get(name string) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if db, ok := p.conns[name]; ok {
		return db, nil
	}
	cfg, ok := p.configs[name]
	if !ok {
		return nil, fmt.Errorf("database %q is not configured", name)
	}
	db, err := sql.Open(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", name, err)
	}
	p.conns[name] = db
	return db, nil
}

func registerSQLTools(reg *registry.Registry, databases map[string]config.DatabaseConfig) error {
	pool := newSQLPool(databases)
	visibility := []agent.Tag{agent.TagSQL}

	type queryArgs struct {
		Database string `json:"database"`
		Query    string `json:"query"`
	}
	err := reg.Register(agent.ToolDefinition{
		Name:        "sql_query",
		Description: "Run a read-only SQL query against a configured database and return the rows as JSON.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"database": {"type": "string", "description": "Configured database name"},
				"query": {"type": "string", "description": "SELECT statement to run"}
			},
			"required": ["database", "query"]
		}`,
	}, visibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args queryArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "sql_query: %v", err)
		}
		db, err := pool.get(args.Database)
		if err != nil {
			return errorResult("sql_query", err), nil
		}
		rows, err := db.QueryContext(ctx, args.Query)
		if err != nil {
			return errorResult("sql_query", err), nil
		}
		defer rows.Close()

		rendered, truncated, err := renderRows(rows)
		if err != nil {
			return errorResult("sql_query", err), nil
		}
		content := rendered
		if truncated {
			content += fmt.Sprintf("\n(result truncated at %d rows)", maxQueryRows)
		}
		return textResult("sql_query", truncate(content)), nil
	})
	if err != nil {
		return err
	}

	type execArgs struct {
		Database  string `json:"database"`
		Statement string `json:"statement"`
	}
	return reg.Register(agent.ToolDefinition{
		Name:        "sql_execute",
		Description: "Run a SQL statement (INSERT/UPDATE/DELETE/DDL) against a configured database and report rows affected.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"database": {"type": "string", "description": "Configured database name"},
				"statement": {"type": "string", "description": "Statement to execute"}
			},
			"required": ["database", "statement"]
		}`,
	}, visibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args execArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "sql_execute: %v", err)
		}
		db, err := pool.get(args.Database)
		if err != nil {
			return errorResult("sql_execute", err), nil
		}
		res, err := db.ExecContext(ctx, args.Statement)
		if err != nil {
			return errorResult("sql_execute", err), nil
		}
		affected, err := res.RowsAffected()
		if err != nil {
			// Some drivers cannot report the count; the statement still ran.
			return textResult("sql_execute", "Statement executed."), nil
		}
		return textResult("sql_execute", fmt.Sprintf("Statement executed; %d row(s) affected.", affected)), nil
	})
}

// renderRows serializes a result set as a JSON array of objects, bounded
// by maxQueryRows. Returns whether the set was truncated.
func renderRows(rows *sql.Rows) (string, bool, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", false, err
	}

	var out []map[string]any
	truncated := false
	for rows.Next() {
		if len(out) >= maxQueryRows {
			truncated = true
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", false, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			default:
				row[col] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	if len(out) == 0 {
		return "(no rows)", false, nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", false, err
	}
	return string(data), truncated, nil
}
