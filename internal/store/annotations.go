package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidseg/internal/annotation"
)

// VersionInfo summarizes one stored version of a video's annotation.
type VersionInfo struct {
	Version   int       `json:"version" yaml:"version"`
	RunID     string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Processed bool      `json:"processed" yaml:"processed"`
	Segments  int       `json:"segments" yaml:"segments"`
	Markers   int       `json:"markers" yaml:"markers"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// VideoSummary describes a video with at least one stored annotation.
type VideoSummary struct {
	Path          string    `json:"path" yaml:"path"`
	LatestVersion int       `json:"latest_version" yaml:"latest_version"`
	Versions      int       `json:"versions" yaml:"versions"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// Save writes ann and returns the version it was stored under. With
// newVersion the annotation becomes latest+1; otherwise ann.Version (1 when
// unset) is created or overwritten. Segment and marker lists replace any
// previously stored lists for that version.
func (s *Store) Save(ctx context.Context, ann *annotation.VideoAnnotation, newVersion bool) (int, error) {
	if ann == nil {
		return 0, errors.New("save annotation: nil annotation")
	}
	path := strings.TrimSpace(ann.VideoPath)
	if path == "" {
		return 0, errors.New("save annotation: video path required")
	}

	var version int
	err := retryOnBusy(ctx, func() error {
		var err error
		version, err = s.save(ctx, path, ann, newVersion)
		return err
	})
	if err != nil {
		return 0, err
	}
	ann.Version = version
	return version, nil
}

func (s *Store) save(ctx context.Context, path string, ann *annotation.VideoAnnotation, newVersion bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var latest int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM annotations WHERE video_path = ?", path).Scan(&latest); err != nil {
		return 0, fmt.Errorf("read latest version: %w", err)
	}
	version := max(ann.Version, 1)
	if newVersion {
		version = latest + 1
	}

	now := time.Now()
	created := ann.CreatedAt
	if created.IsZero() {
		created = now
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO annotations (video_path, version, run_id, model_version, duration_sec, fps, frame_count, processed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_path, version) DO UPDATE SET
			run_id = excluded.run_id,
			model_version = excluded.model_version,
			duration_sec = excluded.duration_sec,
			fps = excluded.fps,
			frame_count = excluded.frame_count,
			processed = excluded.processed,
			updated_at = excluded.updated_at`,
		path, version, ann.RunID, ann.ModelVersion, ann.DurationSec, ann.FPS, ann.FrameCount,
		boolToInt(ann.Processed), formatTime(created), formatTime(now),
	); err != nil {
		return 0, fmt.Errorf("upsert annotation: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM annotations WHERE video_path = ? AND version = ?", path, version).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup annotation id: %w", err)
	}

	for _, table := range []string{"task_segments", "participant_markers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE annotation_id = ?", id); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for i, seg := range ann.TaskSegments {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO task_segments (annotation_id, position, task_name, start_time, end_time, confidence) VALUES (?, ?, ?, ?, ?, ?)",
			id, i, seg.TaskName, seg.StartTime, seg.EndTime, seg.Confidence,
		); err != nil {
			return 0, fmt.Errorf("insert segment %d: %w", i, err)
		}
	}
	for i, m := range ann.ParticipantMarkers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO participant_markers (annotation_id, position, participant_type, participant_number, timestamp, duration, confidence) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, i, string(m.Type), m.Number, m.Timestamp, m.Duration, m.Confidence,
		); err != nil {
			return 0, fmt.Errorf("insert marker %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit annotation: %w", err)
	}
	return version, nil
}

// Load returns the latest version for path, or nil when none is stored.
func (s *Store) Load(ctx context.Context, path string) (*annotation.VideoAnnotation, error) {
	return s.load(ctx, path, 0)
}

// LoadVersion returns the requested version for path, or nil when it is not stored.
func (s *Store) LoadVersion(ctx context.Context, path string, version int) (*annotation.VideoAnnotation, error) {
	if version <= 0 {
		return nil, fmt.Errorf("load annotation: invalid version %d", version)
	}
	return s.load(ctx, path, version)
}

func (s *Store) load(ctx context.Context, path string, version int) (*annotation.VideoAnnotation, error) {
	query := `SELECT id, video_path, version, run_id, model_version, duration_sec, fps, frame_count, processed, created_at
		FROM annotations WHERE video_path = ?`
	args := []any{path}
	if version > 0 {
		query += " AND version = ?"
		args = append(args, version)
	} else {
		query += " ORDER BY version DESC LIMIT 1"
	}

	var (
		id           int64
		ann          annotation.VideoAnnotation
		runID        sql.NullString
		modelVersion sql.NullString
		processed    int
		createdRaw   string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&id, &ann.VideoPath, &ann.Version, &runID, &modelVersion,
		&ann.DurationSec, &ann.FPS, &ann.FrameCount, &processed, &createdRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load annotation: %w", err)
	}
	ann.RunID = runID.String
	ann.ModelVersion = modelVersion.String
	ann.Processed = processed != 0
	ann.CreatedAt = parseTime(createdRaw)

	if ann.TaskSegments, err = s.loadSegments(ctx, id); err != nil {
		return nil, err
	}
	if ann.ParticipantMarkers, err = s.loadMarkers(ctx, id); err != nil {
		return nil, err
	}
	return &ann, nil
}

func (s *Store) loadSegments(ctx context.Context, id int64) ([]annotation.TaskSegment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT task_name, start_time, end_time, confidence FROM task_segments WHERE annotation_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	defer rows.Close()

	segments := []annotation.TaskSegment{}
	for rows.Next() {
		var seg annotation.TaskSegment
		if err := rows.Scan(&seg.TaskName, &seg.StartTime, &seg.EndTime, &seg.Confidence); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

func (s *Store) loadMarkers(ctx context.Context, id int64) ([]annotation.ParticipantMarker, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_type, participant_number, timestamp, duration, confidence FROM participant_markers WHERE annotation_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("load markers: %w", err)
	}
	defer rows.Close()

	markers := []annotation.ParticipantMarker{}
	for rows.Next() {
		var (
			m   annotation.ParticipantMarker
			typ string
		)
		if err := rows.Scan(&typ, &m.Number, &m.Timestamp, &m.Duration, &m.Confidence); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		m.Type = annotation.ParticipantType(typ)
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

// Versions lists the stored versions for path, oldest first.
func (s *Store) Versions(ctx context.Context, path string) ([]VersionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.version, a.run_id, a.processed, a.created_at, a.updated_at,
			(SELECT COUNT(1) FROM task_segments t WHERE t.annotation_id = a.id),
			(SELECT COUNT(1) FROM participant_markers p WHERE p.annotation_id = a.id)
		FROM annotations a WHERE a.video_path = ? ORDER BY a.version`, path)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []VersionInfo
	for rows.Next() {
		var (
			info       VersionInfo
			runID      sql.NullString
			processed  int
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&info.Version, &runID, &processed, &createdRaw, &updatedRaw, &info.Segments, &info.Markers); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		info.RunID = runID.String
		info.Processed = processed != 0
		info.CreatedAt = parseTime(createdRaw)
		info.UpdatedAt = parseTime(updatedRaw)
		versions = append(versions, info)
	}
	return versions, rows.Err()
}

// Videos lists every video with stored annotations, ordered by path.
func (s *Store) Videos(ctx context.Context) ([]VideoSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT video_path, MAX(version), COUNT(1), MAX(updated_at)
		FROM annotations GROUP BY video_path ORDER BY video_path`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []VideoSummary
	for rows.Next() {
		var (
			summary    VideoSummary
			updatedRaw string
		)
		if err := rows.Scan(&summary.Path, &summary.LatestVersion, &summary.Versions, &updatedRaw); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		summary.UpdatedAt = parseTime(updatedRaw)
		videos = append(videos, summary)
	}
	return videos, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
