// Package engine hosts the embedded SQL database learners query.
//
// The engine is an in-memory SQLite database (pure-Go driver) holding a small
// shop dataset: users, products, orders and order_items. It is initialised
// lazily on first use and can be reset to the seed at any time.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sqlgram/sqlgram/internal/log"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// ErrUnavailable is returned once initialisation has failed. The engine
// never retries; the process must be restarted.
var ErrUnavailable = errors.New("sql engine unavailable")

// QueryError is an error raised by SQLite while running learner SQL.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string { return e.Message }

func (e *QueryError) Unwrap() error { return e.Err }

// Config holds engine options.
type Config struct {
	// DSN defaults to MemoryDSN.
	DSN string
	// QueryTimeout bounds a single Execute call. Zero disables the bound.
	QueryTimeout time.Duration
	Debug        bool
}

// Engine is the lazily initialised sample database.
type Engine struct {
	cfg Config

	mu      sync.Mutex
	db      *gorm.DB
	sqlDB   *sql.DB
	intr    *interrupter
	initErr error
}

// New returns an engine. No database is opened until first use.
func New(cfg Config) *Engine {
	if cfg.DSN == "" {
		cfg.DSN = MemoryDSN
	}
	return &Engine{cfg: cfg}
}

// Init opens the database and loads the seed dataset. It is idempotent;
// after a failure every call returns ErrUnavailable.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initLocked(ctx)
}

// Ready reports whether initialisation has completed successfully.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db != nil
}

func (e *Engine) initLocked(ctx context.Context) error {
	if e.db != nil {
		return nil
	}
	if e.initErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, e.initErr)
	}

	db, sqlDB, err := e.open(ctx)
	if err != nil {
		e.initErr = err
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	e.db, e.sqlDB = db, sqlDB

	intr, err := connInterrupter(ctx, sqlDB)
	if err != nil {
		log.Errorf("query timeouts cannot interrupt running statements: %v", err)
	}
	e.intr = intr
	return nil
}

func (e *Engine) open(ctx context.Context) (*gorm.DB, *sql.DB, error) {
	logLevel := logger.Silent
	if e.cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(e.cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// An in-memory database lives exactly as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := createDefaultTables(db.WithContext(ctx)); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return db, sqlDB, nil
}

// Execute runs every statement in query in order. The result is the row set
// of the first statement that produced rows; statements that produce none
// contribute nothing. Execution stops at the first failing statement, whose
// error is returned as a *QueryError.
func (e *Engine) Execute(ctx context.Context, query string) (QueryResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.initLocked(ctx); err != nil {
		return QueryResult{}, err
	}

	if e.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.QueryTimeout)
		defer cancel()
	}
	stop := e.intr.watch(ctx)
	defer stop()

	var (
		result   QueryResult
		captured bool
	)
	for _, stmt := range SplitStatements(query) {
		res, err := e.runStatement(ctx, stmt)
		if err != nil {
			return QueryResult{}, err
		}
		if !captured && len(res.Rows) > 0 {
			result, captured = res, true
		}
	}
	return result, nil
}

func (e *Engine) runStatement(ctx context.Context, stmt string) (QueryResult, error) {
	rows, err := e.sqlDB.QueryContext(ctx, stmt)
	if err != nil {
		return QueryResult{}, newQueryError(ctx, err)
	}
	defer rows.Close()

	raw, err := rows.Columns()
	if err != nil {
		return QueryResult{}, newQueryError(ctx, err)
	}
	columns, target := columnIndex(raw)

	result := QueryResult{Columns: columns}
	scan := make([]any, len(raw))
	ptrs := make([]any, len(raw))
	for i := range scan {
		ptrs[i] = &scan[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return QueryResult{}, newQueryError(ctx, err)
		}
		values := make([]Value, len(columns))
		for i, v := range scan {
			values[target[i]] = normalize(v)
		}
		result.Rows = append(result.Rows, Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, newQueryError(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return QueryResult{}, newQueryError(ctx, err)
	}
	return result, nil
}

// Reset drops every table and reloads the seed dataset. An engine that has
// not been initialised is initialised instead.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return e.initLocked(ctx)
	}
	db := e.db.WithContext(ctx)
	if err := dropAllTables(db); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	if err := createDefaultTables(db); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	return nil
}

// Tables lists the tables currently present, sorted by name.
func (e *Engine) Tables(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.initLocked(ctx); err != nil {
		return nil, err
	}
	var names []string
	err := e.db.WithContext(ctx).
		Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&names).Error
	return names, err
}

// Close releases the database. A closed engine reports ErrUnavailable.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sqlDB == nil {
		return nil
	}
	err := e.sqlDB.Close()
	e.db, e.sqlDB, e.intr = nil, nil, nil
	e.initErr = errors.New("engine closed")
	return err
}

var errCode = regexp.MustCompile(`\s*\(\d+\)$`)

// newQueryError strips the driver's result-code decoration so the message
// reads like the one sqlite3_errmsg produces.
func newQueryError(ctx context.Context, err error) *QueryError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &QueryError{Message: "query interrupted: " + ctxErr.Error(), Err: err}
	}
	msg := errCode.ReplaceAllString(err.Error(), "")
	if _, detail, ok := strings.Cut(msg, ": "); ok && isResultCodeText(msg) {
		msg = detail
	}
	return &QueryError{Message: msg, Err: err}
}

// Result code descriptions the driver prefixes to the detailed message.
var resultCodeTexts = []string{
	"SQL logic error",
	"constraint failed",
	"datatype mismatch",
	"no more rows available",
	"bad parameter or other API misuse",
	"column index out of range",
	"string or blob too big",
	"interrupted",
}

func isResultCodeText(msg string) bool {
	for _, prefix := range resultCodeTexts {
		if strings.HasPrefix(msg, prefix+": ") {
			return true
		}
	}
	return false
}
