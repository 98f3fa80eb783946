package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const videoColumns = `id, source_id, title, stem, source_path, base_path, current_path, state,
    filter_name, captioned, start_second, last_error, error_kind, created_at, updated_at`

// Create inserts a new video in the created state and returns it with its id.
func (s *Store) Create(ctx context.Context, sourceID, title string) (*Video, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, errors.New("source id is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.exec(ctx,
		`INSERT INTO videos (source_id, title, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sourceID, nullableString(title), StateCreated, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches a video by id. A missing row returns nil, nil.
func (s *Store) Get(ctx context.Context, id int64) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// Update persists every mutable field of video.
func (s *Store) Update(ctx context.Context, video *Video) error {
	if video == nil {
		return errors.New("video is nil")
	}
	video.UpdatedAt = time.Now().UTC()
	res, err := s.exec(ctx,
		`UPDATE videos SET
            title = ?, stem = ?, source_path = ?, base_path = ?, current_path = ?, state = ?,
            filter_name = ?, captioned = ?, start_second = ?, last_error = ?, error_kind = ?, updated_at = ?
        WHERE id = ?`,
		nullableString(video.Title),
		nullableString(video.Stem),
		nullableString(video.SourcePath),
		nullableString(video.BasePath),
		nullableString(video.CurrentPath),
		video.State,
		nullableString(video.FilterName),
		boolToInt(video.Captioned),
		video.StartSecond,
		nullableString(video.LastError),
		nullableString(video.ErrorKind),
		video.UpdatedAt.Format(time.RFC3339Nano),
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update video %d: %w", video.ID, sql.ErrNoRows)
	}
	return nil
}

// List returns videos ordered by id, optionally restricted to states.
func (s *Store) List(ctx context.Context, states ...State) ([]*Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos`
	args := make([]any, 0, len(states))
	if len(states) > 0 {
		placeholders := make([]string, len(states))
		for i, state := range states {
			placeholders[i] = "?"
			args = append(args, state)
		}
		query += ` WHERE state IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// Delete removes a video record. Files on disk are untouched.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete video rows: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*Video, error) {
	var (
		video                                          Video
		title, stem, sourcePath, basePath, currentPath sql.NullString
		filterName, lastError, errorKind               sql.NullString
		state, createdAt, updatedAt                    string
		captioned                                      int
	)
	if err := row.Scan(
		&video.ID, &video.SourceID, &title, &stem, &sourcePath, &basePath, &currentPath, &state,
		&filterName, &captioned, &video.StartSecond, &lastError, &errorKind, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	video.Title = title.String
	video.Stem = stem.String
	video.SourcePath = sourcePath.String
	video.BasePath = basePath.String
	video.CurrentPath = currentPath.String
	video.State = State(state)
	video.FilterName = filterName.String
	video.Captioned = captioned != 0
	video.LastError = lastError.String
	video.ErrorKind = errorKind.String
	video.CreatedAt = parseTime(createdAt)
	video.UpdatedAt = parseTime(updatedAt)
	return &video, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
