package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"wordburn/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "queue.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const itemColumns = `id, run_id, source_url, title, status, video_file,
    transcript_text, segments_json, scenes_json, subtitle_file, final_file,
    error_message, created_at, updated_at, progress_stage, progress_percent,
    progress_message, last_heartbeat`

// NewLink enqueues a source URL as a pending pipeline run with a fresh run ID.
func (s *Store) NewLink(ctx context.Context, sourceURL string) (*Item, error) {
	trimmed := strings.TrimSpace(sourceURL)
	if trimmed == "" {
		return nil, errors.New("source url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("source url %q is not an absolute URL", trimmed)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	runID := uuid.NewString()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO queue_items (
            run_id, source_url, status, created_at, updated_at,
            progress_percent
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		trimmed,
		StatusPending,
		timestamp,
		timestamp,
		0.0,
	)
	if err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByRunID fetches a queue item by its run identifier.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE run_id = ?`, runID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by run id: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items
         SET source_url = ?, title = ?, status = ?, video_file = ?,
             transcript_text = ?, segments_json = ?, scenes_json = ?,
             subtitle_file = ?, final_file = ?, error_message = ?,
             updated_at = ?, progress_stage = ?, progress_percent = ?,
             progress_message = ?, last_heartbeat = ?
         WHERE id = ?`,
		item.SourceURL,
		nullableString(item.Title),
		item.Status,
		nullableString(item.VideoFile),
		nullableString(item.TranscriptText),
		nullableString(item.SegmentsJSON),
		nullableString(item.ScenesJSON),
		nullableString(item.SubtitleFile),
		nullableString(item.FinalFile),
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(item.ProgressStage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		nullableTime(item.LastHeartbeat),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns queue items filtered by status set (or all items when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM queue_items`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextForStatuses returns the oldest item matching any of the provided statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE status IN (` + placeholders + `) ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateHeartbeat stamps the item's heartbeat with the current time.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now, now, id,
	)
	if err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return nil
}

// ReclaimStaleProcessing rolls items whose heartbeat predates cutoff back to
// their stage start status so a restarted daemon can resume them.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time, statuses ...Status) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	allowed := make(map[Status]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}

	var total int64
	cutoffText := cutoff.UTC().Format(time.RFC3339Nano)
	for _, transition := range stageRollbackTransitions {
		if _, ok := allowed[transition.from]; !ok {
			continue
		}
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE queue_items
             SET status = ?, last_heartbeat = NULL, updated_at = ?,
                 progress_message = 'Reclaimed after stalled heartbeat'
             WHERE status = ? AND (last_heartbeat IS NULL OR last_heartbeat < ?)`,
			transition.to,
			time.Now().UTC().Format(time.RFC3339Nano),
			transition.from,
			cutoffText,
		)
		if err != nil {
			return total, fmt.Errorf("reclaim %s items: %w", transition.from, err)
		}
		count, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("reclaim rows affected: %w", err)
		}
		total += count
	}
	return total, nil
}

// ResetStuckProcessing rolls all in-flight items back to their stage start status.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	return s.ReclaimStaleProcessing(ctx, time.Now().UTC().Add(time.Minute), ProcessingStatuses()...)
}

// RetryFailed resets failed items (optionally a subset) back to pending.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	query := `UPDATE queue_items
        SET status = ?, error_message = NULL, progress_stage = NULL,
            progress_percent = 0, progress_message = NULL, updated_at = ?
        WHERE status = ?`
	args := []any{StatusPending, timestamp, StatusFailed}

	if len(ids) > 0 {
		query += ` AND id IN (` + makePlaceholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all queue items.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted removes only completed queue items.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	return s.clearByStatus(ctx, StatusCompleted)
}

// ClearFailed removes only failed queue items.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	return s.clearByStatus(ctx, StatusFailed)
}

func (s *Store) clearByStatus(ctx context.Context, status Status) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_items WHERE status = ?`, status)
	if err != nil {
		return 0, fmt.Errorf("clear %s items: %w", status, err)
	}
	return res.RowsAffected()
}

// Stats returns per-status item counts.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM queue_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health returns aggregate queue counts.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM queue_items GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("queue health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan health row: %w", err)
		}
		summary.Total += count
		switch {
		case status == StatusPending:
			summary.Pending += count
		case IsProcessingStatus(status):
			summary.Processing += count
		case status == StatusFailed:
			summary.Failed += count
		case status == StatusCompleted:
			summary.Completed += count
		}
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*Item, error) {
	var (
		item            Item
		title           sql.NullString
		videoFile       sql.NullString
		transcriptText  sql.NullString
		segmentsJSON    sql.NullString
		scenesJSON      sql.NullString
		subtitleFile    sql.NullString
		finalFile       sql.NullString
		errorMessage    sql.NullString
		createdAt       string
		updatedAt       string
		progressStage   sql.NullString
		progressMessage sql.NullString
		lastHeartbeat   sql.NullString
	)

	err := scanner.Scan(
		&item.ID,
		&item.RunID,
		&item.SourceURL,
		&title,
		&item.Status,
		&videoFile,
		&transcriptText,
		&segmentsJSON,
		&scenesJSON,
		&subtitleFile,
		&finalFile,
		&errorMessage,
		&createdAt,
		&updatedAt,
		&progressStage,
		&item.ProgressPercent,
		&progressMessage,
		&lastHeartbeat,
	)
	if err != nil {
		return nil, err
	}

	item.Title = title.String
	item.VideoFile = videoFile.String
	item.TranscriptText = transcriptText.String
	item.SegmentsJSON = segmentsJSON.String
	item.ScenesJSON = scenesJSON.String
	item.SubtitleFile = subtitleFile.String
	item.FinalFile = finalFile.String
	item.ErrorMessage = errorMessage.String
	item.ProgressStage = progressStage.String
	item.ProgressMessage = progressMessage.String

	if item.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if item.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if lastHeartbeat.Valid && strings.TrimSpace(lastHeartbeat.String) != "" {
		heartbeat, err := parseTimestamp(lastHeartbeat.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_heartbeat: %w", err)
		}
		item.LastHeartbeat = &heartbeat
	}

	return &item, nil
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
