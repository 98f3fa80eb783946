package workflow

import (
	"context"
	"path/filepath"
	"strings"

	"shortsmith/internal/artifact"
	"shortsmith/internal/fileutil"
	"shortsmith/internal/highlight"
	"shortsmith/internal/lineagelock"
	"shortsmith/internal/logging"
	"shortsmith/internal/services"
	"shortsmith/internal/store"
	"shortsmith/internal/textutil"
)

// ConvertRequest describes a local source to turn into a short.
type ConvertRequest struct {
	SourcePath string
	// SourceID defaults to the sanitized source file name.
	SourceID string
	Title    string
	// Duration overrides trim.duration_seconds when positive.
	Duration int
}

// Convert creates a lineage record for the source, copies it into temp/,
// selects the highlight start and runs trim then vertical reformat. The
// returned record is persisted in its final state; on failure it carries
// last_error and the error is returned unchanged.
func (m *Manager) Convert(ctx context.Context, req ConvertRequest) (*store.Video, error) {
	if err := requireSource("convert", req.SourcePath); err != nil {
		return nil, err
	}
	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" {
		sourceID = textutil.SanitizeToken(strings.TrimSuffix(filepath.Base(req.SourcePath), filepath.Ext(req.SourcePath)))
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = textutil.DisplayName(sourceID)
	}

	video, err := m.store.Create(ctx, sourceID, title)
	if err != nil {
		return nil, err
	}
	ctx = services.WithVideoID(ctx, video.ID)
	release, err := m.locks.Acquire(ctx, lineagelock.Key(video.ID))
	if err != nil {
		return video, err
	}
	defer release()

	logger := logging.WithContext(ctx, m.logger)
	logger.Info("convert started",
		logging.String(logging.FieldEventType, "convert_start"),
		logging.String("source", req.SourcePath),
		logging.String("source_id", sourceID),
	)

	video.Stem = artifact.NewStem(sourceID, video.ID)
	staged := filepath.Join(m.cfg.TempDir(), video.Stem+strings.ToLower(filepath.Ext(req.SourcePath)))
	if err := fileutil.CopyFile(req.SourcePath, staged); err != nil {
		return video, m.fail(ctx, video, "stage", services.Wrap(services.ErrExternalTool, "convert", "stage source", "copy source into temp", err))
	}
	video.SourcePath = m.cfg.RelativePath(staged)
	if err := m.store.Update(ctx, video); err != nil {
		return video, err
	}

	sig, err := m.extractor.Extract(services.WithStage(ctx, "highlight"), staged)
	if err != nil {
		fileutil.RemoveBestEffort(logger, staged, "staged source copy remains in temp directory")
		return video, m.fail(ctx, video, "highlight", err)
	}
	video.StartSecond = highlight.SelectStart(sig.Speech, sig.Motion)

	trimmed, err := m.stages.Trim(ctx, staged, video.StartSecond, req.Duration)
	if err != nil {
		return video, m.fail(ctx, video, "trim", err)
	}
	m.advance(video, store.StateTrimmed, trimmed)
	if err := m.store.Update(ctx, video); err != nil {
		return video, err
	}

	reformatted, err := m.stages.ReformatVertical(ctx, trimmed)
	if err != nil {
		return video, m.fail(ctx, video, "reformat", err)
	}
	m.advance(video, store.StateReformatted, reformatted)
	video.BasePath = video.CurrentPath
	if err := m.store.Update(ctx, video); err != nil {
		return video, err
	}

	logger.Info("convert complete",
		logging.String(logging.FieldEventType, "convert_complete"),
		logging.String("output", video.CurrentPath),
		logging.Int("start_second", video.StartSecond),
	)
	return video, nil
}
