package warehouse

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Client is a lazily-connected PostgreSQL client. The pool is opened on
// first use so that commands which never touch the warehouse (session
// listing, exports) do not require credentials.
type Client struct {
	cfg    *Config
	logger *zap.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

var (
	_ SchemaSource = (*Client)(nil)
	_ Executor     = (*Client)(nil)
)

// NewClient creates a warehouse client. No connection is made until the
// first operation.
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger.Named("warehouse"),
	}
}

// ensurePool opens the connection pool on first use.
func (c *Client) ensurePool(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return c.pool, nil
	}

	password, err := c.cfg.resolvePassword()
	if err != nil {
		return nil, err
	}

	connStr := buildConnectionString(c.cfg, password)
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MaxConnLifetime = time.Hour

	role := c.cfg.Role
	schema := c.schema()
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if role != "" {
			if _, err := conn.Exec(ctx, "SET ROLE "+pgx.Identifier{role}.Sanitize()); err != nil {
				return fmt.Errorf("set role %s: %w", role, err)
			}
		}
		if _, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize()); err != nil {
			return fmt.Errorf("set search_path: %w", err)
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}

	c.logger.Info("connected to warehouse",
		zap.String("host", c.cfg.Host),
		zap.String("database", c.cfg.Database),
		zap.String("schema", schema))

	c.pool = pool
	return c.pool, nil
}

func (c *Client) schema() string {
	if c.cfg.Schema != "" {
		return c.cfg.Schema
	}
	return "public"
}

// TestConnection verifies the warehouse is reachable with valid credentials.
func (c *Client) TestConnection(ctx context.Context) error {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return err
	}

	var version string
	if err := pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	c.logger.Info("connection test succeeded", zap.String("server_version", version))
	return nil
}

// ListTables returns the base table names in the configured schema, sorted.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := pool.Query(ctx, query, c.schema())
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DescribeTable returns the columns of a table in ordinal order, including
// column comments when present.
func (c *Client) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			c.column_default,
			COALESCE(pgd.description, '') AS comment
		FROM information_schema.columns c
		LEFT JOIN pg_catalog.pg_statio_all_tables st
			ON st.schemaname = c.table_schema AND st.relname = c.table_name
		LEFT JOIN pg_catalog.pg_description pgd
			ON pgd.objoid = st.relid AND pgd.objsubid = c.ordinal_position
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := pool.Query(ctx, query, c.schema(), table)
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &col.Default, &col.Comment); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q not found in schema %q", table, c.schema())
	}

	return columns, nil
}

// Sample returns up to limit rows from a table.
func (c *Client) Sample(ctx context.Context, table string, limit int) ([]Row, error) {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 1
	}

	target := pgx.Identifier{c.schema(), table}.Sanitize()
	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", target, limit))
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", table, err)
	}
	defer rows.Close()

	collected, _, err := collectRows(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", table, err)
	}
	return collected, nil
}

// Execute runs a query and returns a bounded result set. Rows beyond the
// configured cap are dropped and the result is marked truncated.
func (c *Client) Execute(ctx context.Context, query string) (*QueryResult, error) {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns := columnNames(rows)
	collected, truncated, err := collectRows(rows, c.cfg.maxRows())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("query executed",
		zap.Int("rows", len(collected)),
		zap.Bool("truncated", truncated),
		zap.Duration("duration", time.Since(start)))

	return &QueryResult{
		Columns:   columns,
		Rows:      collected,
		RowCount:  len(collected),
		Truncated: truncated,
	}, nil
}

// Close releases the connection pool if one was opened.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

// columnNames returns the result's column names, upper-cased to match the
// row map keys.
func columnNames(rows pgx.Rows) []string {
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = strings.ToUpper(fd.Name)
	}
	return names
}

// collectRows drains up to max rows into maps keyed by upper-cased column
// name. The second return is true when more rows were available.
func collectRows(rows pgx.Rows, max int) ([]Row, bool, error) {
	fields := rows.FieldDescriptions()

	collected := make([]Row, 0)
	truncated := false
	for rows.Next() {
		if len(collected) >= max {
			truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, false, fmt.Errorf("read row: %w", err)
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[strings.ToUpper(fd.Name)] = values[i]
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate rows: %w", err)
	}

	return collected, truncated, nil
}
