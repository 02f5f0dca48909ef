// Package storage persists the event cache and quiz activity. The SQLite
// adapter is the default host-local store; Mongo serves server deployments.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"histomap/internal/domain"
	"histomap/internal/ports"
)

// SQLiteStore keeps events, rejection tombstones and quiz activity in a
// local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.EventStore = (*SQLiteStore)(nil)
var _ ports.ActivityStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database and its tables.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			year INTEGER,
			category TEXT NOT NULL,
			score INTEGER NOT NULL,
			notoriety INTEGER NOT NULL,
			incontournable INTEGER NOT NULL
		)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS rejections (
			id INTEGER PRIMARY KEY,
			reason TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS quiz_activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			event_id INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			points INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`)
	return err
}

// SaveEvent upserts an accepted event.
func (s *SQLiteStore) SaveEvent(ctx context.Context, event domain.ClassifiedEvent) error {
	var year any
	if event.Year != nil {
		year = *event.Year
	}

	query, args, err := sq.Insert("events").
		Options("OR REPLACE").
		Columns("id", "title", "description", "latitude", "longitude",
			"year", "category", "score", "notoriety", "incontournable").
		Values(event.ID, event.Title, event.Description, event.Latitude,
			event.Longitude, year, string(event.Category), event.Score,
			event.NotorietyScore, event.IsIncontournable).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert event %d: %w", event.ID, err)
	}
	return nil
}

// SaveRejection records a tombstone so the id is never rescored.
func (s *SQLiteStore) SaveRejection(ctx context.Context, articleID int, reason string) error {
	query, args, err := sq.Insert("rejections").
		Options("OR REPLACE").
		Columns("id", "reason").
		Values(articleID, reason).
		ToSql()
	if err != nil {
		return fmt.Errorf("build rejection upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rejection %d: %w", articleID, err)
	}
	return nil
}

// LoadAll returns every stored event plus the rejected ids, for pre-warming
// the in-process cache at startup.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]domain.ClassifiedEvent, []int, error) {
	query, args, err := sq.Select("id", "title", "description", "latitude",
		"longitude", "year", "category", "score", "notoriety", "incontournable").
		From("events").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build events select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.ClassifiedEvent
	for rows.Next() {
		var (
			event    domain.ClassifiedEvent
			year     sql.NullInt64
			category string
		)
		if err := rows.Scan(&event.ID, &event.Title, &event.Description,
			&event.Latitude, &event.Longitude, &year, &category,
			&event.Score, &event.NotorietyScore, &event.IsIncontournable); err != nil {
			return nil, nil, fmt.Errorf("scan event: %w", err)
		}
		event.Category = domain.Category(category)
		if year.Valid {
			y := int(year.Int64)
			event.Year = &y
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("events iteration: %w", err)
	}

	rejected, err := s.loadRejections(ctx)
	if err != nil {
		return nil, nil, err
	}
	return events, rejected, nil
}

func (s *SQLiteStore) loadRejections(ctx context.Context) ([]int, error) {
	query, args, err := sq.Select("id").From("rejections").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rejections select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rejections: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rejections iteration: %w", err)
	}
	return ids, nil
}

// SaveAnswer records one quiz round outcome.
func (s *SQLiteStore) SaveAnswer(ctx context.Context, userID int64, eventID int, result domain.QuizResult) error {
	query, args, err := sq.Insert("quiz_activity").
		Columns("user_id", "event_id", "correct", "points", "created_at").
		Values(userID, eventID, result.Correct, result.Points, time.Now().Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build activity insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Stats aggregates a player's answer history.
func (s *SQLiteStore) Stats(ctx context.Context, userID int64) (domain.QuizStats, error) {
	var stats domain.QuizStats
	err := sq.Select("COUNT(*)", "COALESCE(SUM(correct), 0)", "COALESCE(SUM(points), 0)").
		From("quiz_activity").
		Where(sq.Eq{"user_id": userID}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&stats.Answered, &stats.Correct, &stats.Points)
	if err != nil {
		return domain.QuizStats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}
