package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/feedbridge/internal/feed"
)

// eventColumns is the SELECT column list for event queries.
const eventColumns = `direction, feed, "left", "right", recorded_at`

// defaultRecentLimit caps Recent when the caller passes a non-positive limit.
const defaultRecentLimit = 100

// Journal stores feed events in the feed_events table.
// It implements feed.Recorder.
type Journal struct {
	db *sql.DB
}

// NewJournal creates a journal over an open, migrated database.
func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts one event.
func (j *Journal) Record(ctx context.Context, e feed.Event) error {
	left, right := bit(e.State.Left), bit(e.State.Right)
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO feed_events (direction, feed, "left", "right", recorded_at) VALUES (?, ?, ?, ?, ?)`,
		string(e.Direction), e.Feed, left, right, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting feed event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]feed.Event, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM feed_events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying feed events: %w", err)
	}
	defer rows.Close()

	var events []feed.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feed events: %w", err)
	}
	return events, nil
}

// Last returns the newest event in the given direction, or ErrNoEvents.
func (j *Journal) Last(ctx context.Context, dir feed.Direction) (feed.Event, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM feed_events WHERE direction = ? ORDER BY id DESC LIMIT 1`,
		string(dir),
	)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return feed.Event{}, ErrNoEvents
	}
	return e, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(scanner rowScanner) (feed.Event, error) {
	var (
		e           feed.Event
		direction   string
		left, right int
		recordedAt  string
	)
	if err := scanner.Scan(&direction, &e.Feed, &left, &right, &recordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return feed.Event{}, err
		}
		return feed.Event{}, fmt.Errorf("scanning feed event: %w", err)
	}

	e.Direction = feed.Direction(direction)
	e.State = feed.State{Left: left == 1, Right: right == 1}

	at, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return feed.Event{}, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}
	e.At = at
	return e, nil
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
