package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/mgenlab/paircall/internal/call"
)

// Run is one persisted variant-calling invocation.
type Run struct {
	ID            int64
	RefPath       string
	QueryPath     string
	RefID         string
	QueryID       string
	Columns       int64
	Score         int64
	VariantCount  int64
	Transitions   int64
	Transversions int64
	Ratio         float64
	CreatedAt     time.Time
}

// StoredVariant is one persisted variant record.
type StoredVariant struct {
	RunID        int64
	Pos          int64
	RefPos       int64
	Ref          string
	Alt          string
	Kind         string
	RefContext   string
	QueryContext string
}

// SaveResult persists a call result as a new run and returns its ID.
// Variants are batch-inserted through the DuckDB Appender API.
func (s *Store) SaveResult(res *call.Result) (int64, error) {
	var runID int64
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(id), 0) + 1 FROM runs`).Scan(&runID); err != nil {
		return 0, fmt.Errorf("allocate run id: %w", err)
	}

	_, err := s.db.Exec(`INSERT INTO runs
		(id, ref_path, query_path, ref_id, query_id, aligned_columns, score,
		 variant_count, transitions, transversions, ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.RefPath, res.QueryPath, res.RefID, res.QueryID,
		int64(res.Alignment.Len()), int64(res.Alignment.Score),
		int64(len(res.Variants)),
		int64(res.Stats.Transitions), int64(res.Stats.Transversions), res.Stats.Ratio)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	if len(res.Variants) == 0 {
		return runID, nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, v := range res.Variants {
		if err := appender.AppendRow(
			runID, int64(v.Pos), int64(v.RefPos),
			string(v.Ref), string(v.Alt), string(v.Kind),
			v.RefContext, v.QueryContext,
		); err != nil {
			return 0, fmt.Errorf("append variant: %w", err)
		}
	}

	if err := appender.Flush(); err != nil {
		return 0, fmt.Errorf("flush variants: %w", err)
	}

	return runID, nil
}

// Runs returns the most recent runs, newest first. A limit of 0 returns
// all runs.
func (s *Store) Runs(limit int) ([]Run, error) {
	q := `SELECT id, ref_path, query_path, ref_id, query_id, aligned_columns, score,
		variant_count, transitions, transversions, ratio, created_at
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RefPath, &r.QueryPath, &r.RefID, &r.QueryID,
			&r.Columns, &r.Score, &r.VariantCount,
			&r.Transitions, &r.Transversions, &r.Ratio, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Variants returns the variants of a run in ascending column order,
// optionally filtered by kind. A limit of 0 returns all variants.
func (s *Store) Variants(runID int64, kind string, limit int) ([]StoredVariant, error) {
	q := `SELECT run_id, pos, ref_pos, ref, alt, kind, ref_context, query_context
		FROM variants WHERE run_id = ?`
	args := []any{runID}
	if kind != "" {
		q += ` AND kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY pos`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var variants []StoredVariant
	for rows.Next() {
		var v StoredVariant
		if err := rows.Scan(&v.RunID, &v.Pos, &v.RefPos, &v.Ref, &v.Alt, &v.Kind,
			&v.RefContext, &v.QueryContext); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// DeleteRun removes a run and its variants.
func (s *Store) DeleteRun(runID int64) error {
	if _, err := s.db.Exec(`DELETE FROM variants WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete variants: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}
