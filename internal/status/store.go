package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/riskmap/internal/db"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// Snapshot is one recorded status observation.
type Snapshot struct {
	ID         string                `json:"id"`
	Component  hierarchy.ComponentID `json:"component"`
	Status     hierarchy.Status      `json:"status"`
	Source     string                `json:"source"`
	Error      string                `json:"error,omitempty"`
	RecordedAt time.Time             `json:"recorded_at"`
}

// Recorder persists snapshots.
type Recorder interface {
	Record(ctx context.Context, snap Snapshot) error
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store keeps the status history of components.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a snapshot. Empty ID, Source and RecordedAt are filled in.
func (s *Store) Record(ctx context.Context, snap Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.Source == "" {
		snap.Source = "servicenow"
	}
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = time.Now()
	}
	if snap.Status == "" {
		snap.Status = hierarchy.StatusUnknown
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO status_snapshots (id, component, status, source, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID,
		string(hierarchy.NormalizeID(string(snap.Component))),
		string(snap.Status),
		snap.Source,
		snap.Error,
		snap.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting status snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot of component, or nil if none exists.
func (s *Store) Latest(ctx context.Context, component hierarchy.ComponentID) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, component, status, source, error, recorded_at
		FROM status_snapshots WHERE component = ?
		ORDER BY recorded_at DESC, rowid DESC LIMIT 1`,
		string(hierarchy.NormalizeID(string(component))))

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	return snap, nil
}

// History returns up to limit snapshots of component, newest first.
// A limit of zero or less returns everything.
func (s *Store) History(ctx context.Context, component hierarchy.ComponentID, limit int) ([]Snapshot, error) {
	query := `SELECT id, component, status, source, error, recorded_at
		FROM status_snapshots WHERE component = ?
		ORDER BY recorded_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, string(hierarchy.NormalizeID(string(component))))
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// DeleteBefore removes snapshots older than before and returns the count.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM status_snapshots WHERE recorded_at < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old snapshots: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (*Snapshot, error) {
	var (
		snap              Snapshot
		component, status string
		ts                string
	)
	if err := sc.Scan(&snap.ID, &component, &status, &snap.Source, &snap.Error, &ts); err != nil {
		return nil, err
	}
	snap.Component = hierarchy.ComponentID(component)
	snap.Status = hierarchy.ParseStatus(status)
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, ts); err == nil {
			snap.RecordedAt = t
			break
		}
	}
	return &snap, nil
}
