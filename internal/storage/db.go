package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pedidos/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS submissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  sourceRef TEXT NOT NULL,
  rowNo INTEGER NOT NULL,
  description TEXT NOT NULL,
  state TEXT,
  requester TEXT,
  reason TEXT,
  submittedAt TEXT,
  hash TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'imported',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_sourceRef ON submissions(sourceRef);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  submissionId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  productCode TEXT NOT NULL,
  quantity INTEGER,
  unitPrice REAL,
  state TEXT,
  requester TEXT,
  reason TEXT,
  reasonGroup TEXT NOT NULL,
  totalValue REAL,
  submittedAt TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(submissionId, position),
  FOREIGN KEY(submissionId) REFERENCES submissions(id)
);
CREATE INDEX IF NOT EXISTS idx_items_productCode ON items(productCode);
CREATE INDEX IF NOT EXISTS idx_items_state ON items(state);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// UpsertSubmission stores one raw submission, keyed by a content hash so
// re-importing the same dataset does not duplicate rows. A re-import
// refreshes the raw fields but keeps the processing status.
func (d *DB) UpsertSubmission(sub internal.Submission, sourceRef string) (internal.SubmissionRow, error) {
	var submittedAt *string
	if sub.SubmittedAt != nil {
		submittedAt = internal.StringPtr(sub.SubmittedAt.UTC().Format(time.RFC3339))
	}

	hash := submissionHash(sub, sourceRef)
	_, err := d.conn.Exec(`
INSERT INTO submissions (source, sourceRef, rowNo, description, state, requester, reason, submittedAt, hash)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
  state=excluded.state,
  requester=excluded.requester,
  reason=excluded.reason,
  submittedAt=excluded.submittedAt,
  updatedAt=CURRENT_TIMESTAMP
`, string(sub.Source), sourceRef, sub.RowNo, sub.Description, sub.State, sub.Requester, sub.Reason, submittedAt, hash)
	if err != nil {
		return internal.SubmissionRow{}, err
	}

	row, err := d.GetSubmissionByHash(hash)
	if err != nil {
		return internal.SubmissionRow{}, err
	}
	if row == nil {
		return internal.SubmissionRow{}, errors.New("failed to upsert submission")
	}
	return *row, nil
}

func (d *DB) GetSubmissionByHash(hash string) (*internal.SubmissionRow, error) {
	var row internal.SubmissionRow
	err := d.conn.QueryRow(`
SELECT id, source, sourceRef, rowNo, description, state, requester, reason, submittedAt, hash, status
FROM submissions WHERE hash = ?
`, hash).Scan(
		&row.ID, &row.Source, &row.SourceRef, &row.RowNo, &row.Description,
		&row.State, &row.Requester, &row.Reason, &row.SubmittedAt, &row.Hash, &row.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListSubmissionsByStatus(status string, limit int) ([]internal.SubmissionRow, error) {
	rows, err := d.conn.Query(`
SELECT id, source, sourceRef, rowNo, description, state, requester, reason, submittedAt, hash, status
FROM submissions WHERE status = ? ORDER BY id ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.SubmissionRow
	for rows.Next() {
		var row internal.SubmissionRow
		if err := rows.Scan(
			&row.ID, &row.Source, &row.SourceRef, &row.RowNo, &row.Description,
			&row.State, &row.Requester, &row.Reason, &row.SubmittedAt, &row.Hash, &row.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateSubmissionStatus(submissionID int, status string) error {
	_, err := d.conn.Exec(`UPDATE submissions SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, submissionID)
	return err
}

func (d *DB) ClearSubmissionItems(submissionID int) error {
	_, err := d.conn.Exec(`DELETE FROM items WHERE submissionId = ?`, submissionID)
	return err
}

func (d *DB) InsertItem(submissionID, position int, row internal.CanonicalRow) error {
	var submittedAt *string
	if row.Date != nil {
		submittedAt = internal.StringPtr(row.Date.UTC().Format(time.RFC3339))
	}
	_, err := d.conn.Exec(`
INSERT INTO items (submissionId, position, productCode, quantity, unitPrice, state, requester, reason, reasonGroup, totalValue, submittedAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, submissionID, position, row.ProductCode, row.Quantity, row.UnitPrice, row.State, row.Requester, row.Reason, row.ReasonGroup, row.TotalValue, submittedAt)
	return err
}

func (d *DB) InsertRun(traceID string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, timingsJson, countsJson) VALUES (?, ?, ?)`, traceID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// GetCanonicalRows returns every stored item in submission/position order,
// ready for export or aggregation.
func (d *DB) GetCanonicalRows() ([]internal.CanonicalRow, error) {
	rows, err := d.conn.Query(`
SELECT productCode, quantity, unitPrice, state, requester, reason, reasonGroup, totalValue, submittedAt
FROM items
ORDER BY submissionId ASC, position ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CanonicalRow
	for rows.Next() {
		var row internal.CanonicalRow
		var submittedAt *string
		if err := rows.Scan(
			&row.ProductCode, &row.Quantity, &row.UnitPrice, &row.State, &row.Requester,
			&row.Reason, &row.ReasonGroup, &row.TotalValue, &submittedAt,
		); err != nil {
			return nil, err
		}
		if submittedAt != nil {
			if parsed, err := time.Parse(time.RFC3339, *submittedAt); err == nil {
				row.Date = internal.TimePtr(parsed)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) TopProducts(limit int) ([]internal.ProductTotal, error) {
	rows, err := d.conn.Query(`
SELECT productCode, SUM(COALESCE(quantity, 0)), COUNT(*)
FROM items
GROUP BY productCode
ORDER BY SUM(COALESCE(quantity, 0)) DESC, productCode ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductTotal
	for rows.Next() {
		var row internal.ProductTotal
		if err := rows.Scan(&row.ProductCode, &row.TotalQty, &row.Submissions); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) RequesterCounts(limit int) ([]internal.NameCount, error) {
	return d.nameCounts(`
SELECT COALESCE(requester, 'Não Informado'), COUNT(*)
FROM items
GROUP BY COALESCE(requester, 'Não Informado')
ORDER BY COUNT(*) DESC, 1 ASC
LIMIT ?
`, limit)
}

// ReasonGroupCounts is unlimited: the taxonomy caps the group count.
func (d *DB) ReasonGroupCounts() ([]internal.NameCount, error) {
	return d.nameCounts(`
SELECT reasonGroup, COUNT(*)
FROM items
GROUP BY reasonGroup
ORDER BY COUNT(*) DESC, 1 ASC
`)
}

// MonthlyCounts buckets items by submission month (YYYY-MM), skipping
// items whose submission carried no parseable date.
func (d *DB) MonthlyCounts() ([]internal.NameCount, error) {
	return d.nameCounts(`
SELECT substr(submittedAt, 1, 7), COUNT(*)
FROM items
WHERE submittedAt IS NOT NULL
GROUP BY substr(submittedAt, 1, 7)
ORDER BY 1 ASC
`)
}

func (d *DB) nameCounts(query string, args ...any) ([]internal.NameCount, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.NameCount
	for rows.Next() {
		var row internal.NameCount
		if err := rows.Scan(&row.Name, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) StateProductTotals() ([]internal.StateProductTotal, error) {
	rows, err := d.conn.Query(`
SELECT COALESCE(state, 'Não Informado'), productCode, SUM(COALESCE(quantity, 0))
FROM items
GROUP BY COALESCE(state, 'Não Informado'), productCode
ORDER BY 1 ASC, 3 DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.StateProductTotal
	for rows.Next() {
		var row internal.StateProductTotal
		if err := rows.Scan(&row.State, &row.ProductCode, &row.TotalQty); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MarkProcessedExported advances every processed submission to exported
// after a successful workbook write. Returns how many rows moved.
func (d *DB) MarkProcessedExported() (int, error) {
	res, err := d.conn.Exec(`UPDATE submissions SET status = 'exported', updatedAt = CURRENT_TIMESTAMP WHERE status = 'processed'`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (d *DB) CountSubmissionsBySource(sourceRef string) (int, error) {
	var count int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM submissions WHERE sourceRef = ?`, sourceRef).Scan(&count)
	return count, err
}

func submissionHash(sub internal.Submission, sourceRef string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", sub.Source, sourceRef, sub.RowNo, sub.Description)
	return hex.EncodeToString(h.Sum(nil))
}
