package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/scopecrawl/internal/model"
)

// DBFileName is the database file created inside the database directory.
const DBFileName = "scopecrawl.db"

// PageDB provides SQLite-based storage for fetched pages and replay runs.
type PageDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures PageDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a PageDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*PageDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	// busy_timeout lets concurrent processes wait for the write lock.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PageDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Path returns the database file path.
func (pdb *PageDB) Path() string {
	return pdb.dbPath
}

// Close closes the database connection.
func (pdb *PageDB) Close() error {
	return pdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (pdb *PageDB) createTables() error {
	schema := `
	-- Pages store fetch results keyed by request URL
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		effective_url TEXT NOT NULL DEFAULT '',
		status_code INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		content BLOB,
		fingerprint TEXT NOT NULL DEFAULT '',
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_fingerprint ON pages(fingerprint);

	-- Runs are replays of the stored pages
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		pages INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		admitted INTEGER NOT NULL DEFAULT 0,
		rejected INTEGER NOT NULL DEFAULT 0,
		unique_pages INTEGER NOT NULL DEFAULT 0
	);

	-- Links record every policy decision made during a run
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		page_url TEXT NOT NULL,
		link TEXT NOT NULL,
		admitted INTEGER NOT NULL,
		rule TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_links_run ON links(run_id);
	CREATE INDEX IF NOT EXISTS idx_links_page ON links(page_url);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// PageRecord is a stored fetch result.
type PageRecord struct {
	ID          int64
	Result      model.FetchResult
	Fingerprint string
	Timestamp   time.Time
}

// UpsertPage inserts or replaces the fetch result stored for res.URL.
func (pdb *PageDB) UpsertPage(ctx context.Context, res *model.FetchResult) error {
	if res == nil || res.URL == "" {
		return errors.New("fetch result has no URL")
	}

	query := `
	INSERT INTO pages (url, effective_url, status_code, error, content_type, content, fingerprint)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		effective_url = excluded.effective_url,
		status_code = excluded.status_code,
		error = excluded.error,
		content_type = excluded.content_type,
		content = excluded.content,
		fingerprint = excluded.fingerprint,
		timestamp = CURRENT_TIMESTAMP
	`

	_, err := pdb.db.ExecContext(ctx, query,
		res.URL,
		res.EffectiveURL,
		res.StatusCode,
		res.Error,
		res.ContentType,
		res.Content,
		res.Fingerprint(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	return nil
}

// GetPage retrieves the page stored for a request URL.
// It returns nil, nil when no page is stored.
func (pdb *PageDB) GetPage(ctx context.Context, url string) (*PageRecord, error) {
	query := `
	SELECT id, url, effective_url, status_code, error, content_type, content, fingerprint, timestamp
	FROM pages
	WHERE url = ?
	`

	var rec PageRecord
	var timestamp string

	err := pdb.db.QueryRowContext(ctx, query, url).Scan(
		&rec.ID,
		&rec.Result.URL,
		&rec.Result.EffectiveURL,
		&rec.Result.StatusCode,
		&rec.Result.Error,
		&rec.Result.ContentType,
		&rec.Result.Content,
		&rec.Fingerprint,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	rec.Timestamp = parseTimestamp(timestamp)
	return &rec, nil
}

// ListPageURLs returns every stored request URL in import order.
func (pdb *PageDB) ListPageURLs(ctx context.Context) ([]string, error) {
	rows, err := pdb.db.QueryContext(ctx, `SELECT url FROM pages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan page url: %w", err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

// CountPages returns the number of stored pages.
func (pdb *PageDB) CountPages(ctx context.Context) (int, error) {
	var n int
	if err := pdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// Run summarizes one replay of the stored pages.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Pages       int
	Failed      int
	Admitted    int
	Rejected    int
	UniquePages int
}

// Finished reports whether FinishRun has been called for the run.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// StartRun creates a new run with a random ID.
func (pdb *PageDB) StartRun(ctx context.Context) (*Run, error) {
	id := uuid.NewString()
	if _, err := pdb.db.ExecContext(ctx, `INSERT INTO runs (id) VALUES (?)`, id); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	return pdb.GetRun(ctx, id)
}

// FinishRun stores the counters of run and marks it finished.
func (pdb *PageDB) FinishRun(ctx context.Context, run *Run) error {
	query := `
	UPDATE runs SET
		finished_at = CURRENT_TIMESTAMP,
		pages = ?,
		failed = ?,
		admitted = ?,
		rejected = ?,
		unique_pages = ?
	WHERE id = ?
	`

	res, err := pdb.db.ExecContext(ctx, query,
		run.Pages, run.Failed, run.Admitted, run.Rejected, run.UniquePages, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to finish run: unknown run %s", run.ID)
	}
	return nil
}

// GetRun retrieves a run by ID. It returns nil, nil when no run exists.
func (pdb *PageDB) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
	SELECT id, started_at, finished_at, pages, failed, admitted, rejected, unique_pages
	FROM runs
	WHERE id = ?
	`

	run, err := scanRun(pdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns every run, most recent first.
func (pdb *PageDB) ListRuns(ctx context.Context) ([]*Run, error) {
	query := `
	SELECT id, started_at, finished_at, pages, failed, admitted, rejected, unique_pages
	FROM runs
	ORDER BY started_at DESC, rowid DESC
	`

	rows, err := pdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started string
	var finished sql.NullString

	if err := row.Scan(
		&run.ID,
		&started,
		&finished,
		&run.Pages,
		&run.Failed,
		&run.Admitted,
		&run.Rejected,
		&run.UniquePages,
	); err != nil {
		return nil, err
	}

	run.StartedAt = parseTimestamp(started)
	if finished.Valid {
		run.FinishedAt = parseTimestamp(finished.String)
	}
	return &run, nil
}

// LinkRecord is one policy decision recorded during a run.
type LinkRecord struct {
	ID       int64
	RunID    string
	PageURL  string
	Link     string
	Admitted bool
	Rule     string
}

// InsertLinks records the admitted and rejected links of one page outcome
// in a single transaction.
func (pdb *PageDB) InsertLinks(ctx context.Context, runID string, out model.Outcome) error {
	if len(out.Links) == 0 && len(out.Rejected) == 0 {
		return nil
	}

	tx, err := pdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO links (run_id, page_url, link, admitted, rule)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range out.Links {
		if _, err := stmt.ExecContext(ctx, runID, out.URL, link, true, ""); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	rejected := make([]string, 0, len(out.Rejected))
	for link := range out.Rejected {
		rejected = append(rejected, link)
	}
	slices.Sort(rejected)
	for _, link := range rejected {
		if _, err := stmt.ExecContext(ctx, runID, out.URL, link, false, out.Rejected[link]); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit links: %w", err)
	}
	return nil
}

// QueryLinks returns the links recorded for a run in insertion order.
// When admittedOnly is true, rejected links are omitted.
func (pdb *PageDB) QueryLinks(ctx context.Context, runID string, admittedOnly bool) ([]LinkRecord, error) {
	query := `
	SELECT id, run_id, page_url, link, admitted, rule
	FROM links
	WHERE run_id = ?
	`
	args := []any{runID}

	if admittedOnly {
		query += " AND admitted = ?"
		args = append(args, true)
	}

	query += " ORDER BY id"

	rows, err := pdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var results []LinkRecord
	for rows.Next() {
		var rec LinkRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.PageURL, &rec.Link, &rec.Admitted, &rec.Rule); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
