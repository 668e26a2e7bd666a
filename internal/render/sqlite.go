package render

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/core/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id    TEXT PRIMARY KEY,
		started   TEXT NOT NULL,
		finished  TEXT NOT NULL,
		documents INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analyzers (
		run_id      TEXT NOT NULL REFERENCES runs(run_id),
		name        TEXT NOT NULL,
		position    INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		error       TEXT,
		duration_ms REAL NOT NULL,
		result      TEXT,
		PRIMARY KEY (run_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS result_values (
		run_id   TEXT NOT NULL,
		analyzer TEXT NOT NULL,
		key      TEXT NOT NULL,
		num      REAL,
		text     TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS result_values_key ON result_values (run_id, analyzer, key)`,
}

// SQLite stores reports in a database. Each run is appended, so one file
// can hold the history of a corpus.
type SQLite struct {
	path string
}

// NewSQLite creates a sink writing to the database at path.
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

// Kind implements Named.
func (s *SQLite) Kind() string { return KindSQLite }

// Path implements Named.
func (s *SQLite) Path() string { return s.path }

// Write implements Sink.
func (s *SQLite) Write(ctx context.Context, r *analysis.Report) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIO("create directory", dir, err)
		}
	}

	db, err := sqlite.Open(s.path)
	if err != nil {
		return errors.NewIO("open", s.path, err)
	}
	defer db.Close()

	if err := sqlite.Exec(ctx, db, schema...); err != nil {
		return errors.Wrap(err, "create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	if err := insertReport(ctx, tx, r); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertReport(ctx context.Context, tx *sql.Tx, r *analysis.Report) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started, finished, documents) VALUES (?, ?, ?, ?)`,
		r.RunID, r.Started.Format(time.RFC3339Nano), r.Finished.Format(time.RFC3339Nano), r.Documents)
	if err != nil {
		return errors.Wrap(err, "insert run")
	}

	analyzerStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO analyzers (run_id, name, position, failed, error, duration_ms, result) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare analyzers")
	}
	defer analyzerStmt.Close()

	valueStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO result_values (run_id, analyzer, key, num, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare values")
	}
	defer valueStmt.Close()

	for i, e := range r.Entries() {
		durationMS := float64(e.Duration.Microseconds()) / 1000
		if e.Failure != nil {
			if _, err := analyzerStmt.ExecContext(ctx, r.RunID, e.Name, i, 1, e.Failure.Error, durationMS, nil); err != nil {
				return errors.Wrapf(err, "insert analyzer %s", e.Name)
			}
			continue
		}

		data, err := json.Marshal(e.Result)
		if err != nil {
			return errors.Wrapf(err, "encode %s", e.Name)
		}
		if _, err := analyzerStmt.ExecContext(ctx, r.RunID, e.Name, i, 0, nil, durationMS, string(data)); err != nil {
			return errors.Wrapf(err, "insert analyzer %s", e.Name)
		}

		leaves, err := Flatten(e.Result)
		if err != nil {
			return errors.Wrapf(err, "flatten %s", e.Name)
		}
		for _, leaf := range leaves {
			var num, text any
			switch v := leaf.Value.(type) {
			case float64:
				num = v
			case bool:
				if v {
					num = 1
				} else {
					num = 0
				}
			case string:
				text = v
			}
			if _, err := valueStmt.ExecContext(ctx, r.RunID, e.Name, leaf.Key(), num, text); err != nil {
				return errors.Wrapf(err, "insert %s value %s", e.Name, leaf.Key())
			}
		}
	}
	return nil
}
