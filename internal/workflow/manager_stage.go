package workflow

import (
	"context"
	"fmt"

	"shortsmith/internal/filters"
	"shortsmith/internal/lineagelock"
	"shortsmith/internal/logging"
	"shortsmith/internal/pipeline"
	"shortsmith/internal/services"
	"shortsmith/internal/store"
	"shortsmith/internal/subtitles"
)

// ApplyFilter renders filterName from the video's recorded base and makes
// the result its current artifact. Re-applying the current filter is a
// no-op; applying after captions is rejected. Unknown filter names fail
// before the lock or the record is touched.
func (m *Manager) ApplyFilter(ctx context.Context, id int64, filterName string) (*store.Video, error) {
	if _, ok := filters.Lookup(filterName); !ok {
		return nil, services.Wrap(services.ErrValidation, "filter", "lookup", fmt.Sprintf("unknown filter %q", filterName), nil)
	}
	return m.withLineage(ctx, id, "filter", store.StateFiltered, func(ctx context.Context, video *store.Video) error {
		output, err := m.stages.ApplyFilter(ctx, pipeline.FilterRequest{
			Current: m.cfg.AbsolutePath(video.CurrentPath),
			Base:    m.cfg.AbsolutePath(video.BasePath),
			Filter:  filterName,
		})
		if err != nil {
			return err
		}
		m.advance(video, store.StateFiltered, output)
		video.FilterName = filterName
		return nil
	})
}

// ApplyCaptions transcribes the video's current artifact and burns the
// captions into a _subtitled variant, which becomes current.
func (m *Manager) ApplyCaptions(ctx context.Context, id int64, style subtitles.Style) (*store.Video, error) {
	return m.withLineage(ctx, id, "caption", store.StateCaptioned, func(ctx context.Context, video *store.Video) error {
		output, err := m.stages.ApplyCaptions(ctx, m.cfg.AbsolutePath(video.CurrentPath), style)
		if err != nil {
			return err
		}
		m.advance(video, store.StateCaptioned, output)
		video.Captioned = true
		return nil
	})
}

// withLineage loads the video under its lineage lock, checks that next is
// reachable from its state, runs fn and persists the outcome.
func (m *Manager) withLineage(ctx context.Context, id int64, stage string, next store.State, fn func(context.Context, *store.Video) error) (*store.Video, error) {
	ctx = services.WithVideoID(ctx, id)
	release, err := m.locks.Acquire(ctx, lineagelock.Key(id))
	if err != nil {
		return nil, err
	}
	defer release()

	video, err := m.Video(ctx, id)
	if err != nil {
		return nil, err
	}
	if !video.State.CanTransition(next) {
		err := services.Wrap(services.ErrValidation, stage, "state",
			fmt.Sprintf("video %d is %s and cannot move to %s", id, video.State, next), nil)
		return video, m.fail(ctx, video, stage, err)
	}

	stageCtx := services.WithStage(ctx, stage)
	logging.WithContext(stageCtx, m.logger).Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("current", video.CurrentPath),
		logging.String("state", string(video.State)),
	)
	if err := fn(stageCtx, video); err != nil {
		return video, m.fail(ctx, video, stage, err)
	}
	if err := m.store.Update(ctx, video); err != nil {
		return video, err
	}
	logging.WithContext(stageCtx, m.logger).Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("current", video.CurrentPath),
		logging.String("state", string(video.State)),
	)
	return video, nil
}

// advance records a successful stage output and clears the previous failure.
func (m *Manager) advance(video *store.Video, state store.State, output string) {
	video.State = state
	video.CurrentPath = m.cfg.RelativePath(output)
	video.LastError = ""
	video.ErrorKind = ""
}
