// Package store normalizes record batches held in SQLite databases.
//
// Input databases carry one JSON document per row; Batch streams them,
// normalizes each, and writes a fresh output database together with a
// roaring-bitmap index mapping every original tier name to the records
// it was discovered in.
package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
	_ "modernc.org/sqlite"

	"github.com/structline/tiernorm/internal/log"
	"github.com/structline/tiernorm/tier"
)

// Stream iterates over all records in table, calling fn for each raw
// (id, json) row. Only one row is alive at a time, keeping memory usage
// constant.
func Stream(dbPath, table string, fn func(id string, raw []byte) error) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.Query(fmt.Sprintf("SELECT id, record FROM %s", quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if err := fn(id, []byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// BatchStats summarizes a Batch run.
type BatchStats struct {
	Processed int // records normalized and written
	Skipped   int // records rejected (bad JSON, cyclic graphs)
	TierNames int // distinct original tier names indexed
}

// Batch normalizes every record of table in the input database and
// writes them to outPath: normalized records to results_norm, the
// per-tier-name record index to tier_refs, and rejected records to
// skipped. Per-record failures never abort the run.
func Batch(inPath, outPath, table string) (*BatchStats, error) {
	w, err := newNormWriter(outPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = w.close() }() // safe to ignore

	logger := log.WithComponent("store")
	stats := &BatchStats{}

	err = Stream(inPath, table, func(id string, raw []byte) error {
		doc, err := tier.DecodeBytes(raw)
		if err != nil {
			stats.Skipped++
			logger.Warn().Str("record", id).Err(err).Msg("skipping undecodable record")
			return w.addSkipped(id, err.Error())
		}
		res, err := tier.Normalize(doc)
		if err != nil {
			stats.Skipped++
			logger.Warn().Str("record", id).Err(err).Msg("skipping record")
			return w.addSkipped(id, err.Error())
		}
		if err := w.addResult(id, res); err != nil {
			return err
		}
		stats.Processed++
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.TierNames = len(w.refs)
	if err := w.flush(); err != nil {
		return nil, err
	}
	logger.Info().
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("tier_names", stats.TierNames).
		Msg("batch complete")
	return stats, nil
}

// normWriter owns the output database. All writes happen in a single
// transaction committed by flush, with tier-ref bitmaps accumulated in
// RAM and written once at the end.
type normWriter struct {
	db       *sql.DB
	tx       *sql.Tx
	stmtNorm *sql.Stmt
	stmtSkip *sql.Stmt
	nextIdx  uint32
	refs     map[string]*roaring.Bitmap
}

func newNormWriter(dbPath string) (*normWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Performance tuning for bulk insert
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS results_norm (
		idx INTEGER PRIMARY KEY,
		id TEXT UNIQUE NOT NULL,
		tier_count INTEGER NOT NULL,
		structure TEXT NOT NULL,
		record JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tier_refs (
		name TEXT PRIMARY KEY,
		bitmap BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS skipped (
		id TEXT PRIMARY KEY,
		reason TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &normWriter{
		db:   db,
		refs: make(map[string]*roaring.Bitmap),
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *normWriter) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmtNorm, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO results_norm (idx, id, tier_count, structure, record)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	w.stmtSkip, err = w.tx.Prepare(`INSERT OR REPLACE INTO skipped (id, reason) VALUES (?, ?)`)
	return err
}

func (w *normWriter) addResult(id string, res *tier.Result) error {
	record, err := json.Marshal(res.TransformedData)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", id, err)
	}
	idx := w.nextIdx
	w.nextIdx++

	if _, err := w.stmtNorm.Exec(idx, id, res.TierCount, res.Structure, string(record)); err != nil {
		return fmt.Errorf("insert record %s: %w", id, err)
	}
	for _, name := range res.OriginalTierNames {
		bm, ok := w.refs[name]
		if !ok {
			bm = roaring.New()
			w.refs[name] = bm
		}
		bm.Add(idx)
	}
	return nil
}

func (w *normWriter) addSkipped(id, reason string) error {
	if _, err := w.stmtSkip.Exec(id, reason); err != nil {
		return fmt.Errorf("insert skipped %s: %w", id, err)
	}
	return nil
}

// flush writes the accumulated tier bitmaps and commits the transaction.
func (w *normWriter) flush() error {
	refStmt, err := w.tx.Prepare("INSERT OR REPLACE INTO tier_refs (name, bitmap) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare tier_refs insert: %w", err)
	}
	defer func() { _ = refStmt.Close() }() // safe to ignore

	var buf bytes.Buffer
	for name, bm := range w.refs {
		buf.Reset()
		if _, err := bm.WriteTo(&buf); err != nil {
			return fmt.Errorf("serialize bitmap for %s: %w", name, err)
		}
		if _, err := refStmt.Exec(name, buf.Bytes()); err != nil {
			return fmt.Errorf("insert ref %s: %w", name, err)
		}
	}

	_ = w.stmtNorm.Close()
	_ = w.stmtSkip.Close()
	w.stmtNorm, w.stmtSkip = nil, nil
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	w.tx = nil
	return nil
}

func (w *normWriter) close() error {
	if w.tx != nil {
		_ = w.tx.Rollback()
	}
	return w.db.Close()
}

// RecordsWithTier returns the IDs of the records whose discovered chain
// contains the given original tier name, resolved from the tier_refs
// bitmap index.
func RecordsWithTier(dbPath, name string) ([]string, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	var blob []byte
	err = db.QueryRow("SELECT bitmap FROM tier_refs WHERE name = ?", name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bm := roaring.New()
	if err := bm.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("unmarshal bitmap: %w", err)
	}

	var idxs []uint32
	it := bm.Iterator()
	for it.HasNext() {
		idxs = append(idxs, it.Next())
	}
	if len(idxs) == 0 {
		return nil, nil
	}

	args := make([]any, len(idxs))
	placeholders := make([]string, len(idxs))
	for i, idx := range idxs {
		args[i] = idx
		placeholders[i] = "?"
	}

	query := fmt.Sprintf(
		"SELECT id FROM results_norm WHERE idx IN (%s) ORDER BY idx",
		strings.Join(placeholders, ","),
	)
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query record ids: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// quoteIdent wraps a SQL identifier in double quotes, doubling any
// embedded quote characters.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
