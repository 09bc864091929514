package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

const (
	maxRows       = 1000
	schemaTimeout = 5 * time.Second
)

type schemaCache struct {
	mu      sync.Mutex
	tables  []string
	columns map[string][]string // table name -> column names
}

type dbConn struct {
	db     *sql.DB
	dsn    string
	engine string
	log    *slog.Logger
	schema schemaCache
}

func connect(ctx context.Context, engine, dsn string, log *slog.Logger) (*dbConn, error) {
	driver, ok := driverName[engine]
	if !ok {
		return nil, fmt.Errorf("no driver for engine %q", engine)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	conn := newConn(db, engine, dsn)
	conn.log = log
	if err := conn.loadSchema(ctx); err != nil {
		// Schema introspection only feeds tab completion.
		log.Warn("schema introspection failed", "engine", engine, "err", err)
	}
	log.Info("connected", "engine", engine, "dsn", sanitizeDSN(dsn))
	return conn, nil
}

// newConn wraps an open handle. Tests pass a sqlmock handle here.
func newConn(db *sql.DB, engine, dsn string) *dbConn {
	c := &dbConn{db: db, dsn: dsn, engine: engine, log: slog.New(slog.DiscardHandler)}
	c.schema.columns = make(map[string][]string)
	return c
}

func (c *dbConn) close() error {
	return c.db.Close()
}

// query runs a statement that returns rows and formats them as a table.
func (c *dbConn) query(ctx context.Context, sqlStr string, params []any) (string, error) {
	c.log.Debug("query", "sql", sqlStr, "params", len(params))
	rows, err := c.db.QueryContext(ctx, sqlStr, params...)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return formatRows(rows)
}

// exec runs a statement without a result set and reports the affected rows.
func (c *dbConn) exec(ctx context.Context, sqlStr string, params []any) (string, error) {
	c.log.Debug("exec", "sql", sqlStr, "params", len(params))
	res, err := c.db.ExecContext(ctx, sqlStr, params...)
	if err != nil {
		return "", fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "OK\n", nil
	}
	if n == 1 {
		return "(1 row affected)\n", nil
	}
	return fmt.Sprintf("(%d rows affected)\n", n), nil
}

func formatRows(rows *sql.Rows) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	truncated := false
	for rows.Next() {
		if len(data) >= maxRows {
			truncated = true
			break
		}
		vals := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows: %w", err)
	}

	result := formatTable(columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return result, nil
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)
	writeRow := func(cells []string) {
		b.WriteByte('|')
		for i, cell := range cells {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}

	b.WriteString(sep)
	writeRow(columns)
	b.WriteString(sep)
	for _, row := range rows {
		writeRow(row)
	}
	b.WriteString(sep)

	if n := len(rows); n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

var tablesQuery = map[string]string{
	"postgres": "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name",
	"mysql":    "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name",
	"sqlite":   "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
}

var columnsQuery = map[string]string{
	"postgres": "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position",
	"mysql":    "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position",
	"sqlite":   "SELECT name FROM pragma_table_info(?)",
}

// loadSchema reads the table list and then the columns of every table,
// a few tables at a time.
func (c *dbConn) loadSchema(ctx context.Context) error {
	query, ok := tablesQuery[c.engine]
	if !ok {
		return fmt.Errorf("unsupported engine: %s", c.engine)
	}
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	tables, err := c.queryStringColumn(ctx, query)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, table := range tables {
		g.Go(func() error {
			cols, err := c.queryStringColumn(gctx, columnsQuery[c.engine], table)
			if err != nil {
				return fmt.Errorf("columns of %s: %w", table, err)
			}
			c.schema.mu.Lock()
			c.schema.columns[table] = cols
			c.schema.mu.Unlock()
			return nil
		})
	}
	err = g.Wait()

	c.schema.mu.Lock()
	c.schema.tables = tables
	c.schema.mu.Unlock()
	return err
}

// invalidateSchema drops cached schema so DDL changes show up in completion.
func (c *dbConn) invalidateSchema() {
	c.schema.mu.Lock()
	c.schema.columns = make(map[string][]string)
	c.schema.mu.Unlock()
	if err := c.loadSchema(context.Background()); err != nil {
		c.log.Warn("schema reload failed", "err", err)
	}
}

func (c *dbConn) schemaTables() []string {
	c.schema.mu.Lock()
	defer c.schema.mu.Unlock()
	return c.schema.tables
}

// schemaColumns returns the columns of table, querying on a cache miss.
func (c *dbConn) schemaColumns(table string) []string {
	c.schema.mu.Lock()
	cols, ok := c.schema.columns[table]
	c.schema.mu.Unlock()
	if ok {
		return cols
	}
	query, ok := columnsQuery[c.engine]
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	cols, err := c.queryStringColumn(ctx, query, table)
	if err != nil {
		c.log.Debug("column lookup failed", "table", table, "err", err)
		return nil
	}
	c.schema.mu.Lock()
	c.schema.columns[table] = cols
	c.schema.mu.Unlock()
	return cols
}

func (c *dbConn) queryStringColumn(ctx context.Context, query string, params ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// sanitizeDSN masks the password of URL, MySQL and key=value style DSNs.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuilt by hand so the mask is not percent-encoded.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	if strings.Contains(dsn, "password=") && !strings.Contains(dsn, "@") {
		fields := strings.Fields(dsn)
		for i, f := range fields {
			if strings.HasPrefix(f, "password=") {
				fields[i] = "password=****"
			}
		}
		return strings.Join(fields, " ")
	}

	if cfg, err := mysql.ParseDSN(dsn); err == nil && cfg.Passwd != "" {
		cfg.Passwd = "****"
		return cfg.FormatDSN()
	}
	return dsn
}
