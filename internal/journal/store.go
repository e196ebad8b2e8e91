// internal/journal/store.go
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tamzrod/outboard-coupler/internal/control"
	"github.com/tamzrod/outboard-coupler/internal/driver"
)

//go:embed schema.sql
var schemaSQL string

const defaultBusyTimeout = 5 * time.Second

// Entry is one journaled checkpoint.
type Entry struct {
	RunID     string
	Index     int
	Time      *float64
	Requested control.Status
	Status    control.Status
	Lines     []string
	Messages  []string
	Error     string
	CreatedAt time.Time
}

// Store journals checkpoint outcomes into sqlite.
// It implements driver.Journal.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the journal database at path.
func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal: sqlite path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.initialize(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	ms := int(defaultBusyTimeout / time.Millisecond)
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d;", ms)); err != nil {
		return fmt.Errorf("journal: set busy_timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("journal: enable wal: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("journal: initialize schema: %w", err)
	}
	return nil
}

// Append implements driver.Journal.
func (s *Store) Append(ctx context.Context, o driver.Outcome) error {
	if o.RunID == "" {
		return fmt.Errorf("journal: run_id is required")
	}

	linesRaw, err := json.Marshal(nonNil(o.Lines))
	if err != nil {
		return fmt.Errorf("journal: marshal lines: %w", err)
	}
	msgRaw, err := json.Marshal(nonNil(o.Messages))
	if err != nil {
		return fmt.Errorf("journal: marshal messages: %w", err)
	}

	var simTime any
	if o.HasTime {
		simTime = o.Time
	}
	var errText string
	if o.Err != nil {
		errText = o.Err.Error()
	}

	const q = `
INSERT INTO checkpoints (
  run_id, idx, sim_time, requested, status, code, lines, messages, error, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = s.db.ExecContext(
		ctx,
		q,
		o.RunID,
		o.Index,
		simTime,
		o.Requested.String(),
		o.Status.String(),
		int(o.Status.Code()),
		string(linesRaw),
		string(msgRaw),
		errText,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("journal: append checkpoint %d: %w", o.Index, err)
	}
	return nil
}

// List returns the journaled checkpoints of one run in index order.
func (s *Store) List(ctx context.Context, runID string) ([]Entry, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, fmt.Errorf("journal: run_id is required")
	}

	const q = `
SELECT run_id, idx, sim_time, requested, code, lines, messages, error, created_at
FROM checkpoints
WHERE run_id = ?
ORDER BY idx ASC;
`
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			simTime   sql.NullFloat64
			requested string
			code      int
			linesRaw  string
			msgRaw    string
			created   string
		)
		if err := rows.Scan(&e.RunID, &e.Index, &simTime, &requested, &code, &linesRaw, &msgRaw, &e.Error, &created); err != nil {
			return nil, fmt.Errorf("journal: scan checkpoint: %w", err)
		}

		if simTime.Valid {
			v := simTime.Float64
			e.Time = &v
		}
		e.Requested = parseName(requested)
		e.Status, err = control.ParseCode(int16(code))
		if err != nil {
			return nil, fmt.Errorf("journal: checkpoint %d: %w", e.Index, err)
		}
		if err := json.Unmarshal([]byte(linesRaw), &e.Lines); err != nil {
			return nil, fmt.Errorf("journal: decode lines: %w", err)
		}
		if err := json.Unmarshal([]byte(msgRaw), &e.Messages); err != nil {
			return nil, fmt.Errorf("journal: decode messages: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = ts
		}

		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate checkpoints: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func parseName(name string) control.Status {
	for _, st := range []control.Status{
		control.Ready,
		control.TerminateNextComTime,
		control.NormalTerminate,
		control.AbnormalTerminate,
	} {
		if st.String() == name {
			return st
		}
	}
	return control.AbnormalTerminate
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
