package workflow

import (
	"context"
	"errors"
	"strings"

	"shortsmith/internal/logging"
	"shortsmith/internal/services"
	"shortsmith/internal/store"
)

// fail records stageErr on the video and returns it unchanged. The record
// is written even when ctx was cancelled.
func (m *Manager) fail(ctx context.Context, video *store.Video, stage string, stageErr error) error {
	logger := logging.WithContext(services.WithStage(ctx, stage), m.logger)
	kind := services.Kind(stageErr)

	video.LastError = strings.TrimSpace(stageErr.Error())
	video.ErrorKind = kind
	logging.ErrorWithContext(logger, "stage failed", "stage_failure",
		logging.String("error_kind", kind),
		logging.Bool("retryable", services.Retryable(stageErr)),
		logging.String("state", string(video.State)),
		logging.Error(stageErr),
	)

	if err := m.store.Update(context.WithoutCancel(ctx), video); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("shutting down, could not persist stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}
	return stageErr
}
