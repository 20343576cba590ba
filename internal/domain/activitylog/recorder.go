package activitylog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/reftrack/reftrack/internal/platform/middleware"
)

// Recorder adapts the activity log service to the audit middleware. Writes
// run on a detached context with a short deadline so a slow insert never
// holds a response.
type Recorder struct {
	svc    *Service
	logger zerolog.Logger
}

func NewRecorder(svc *Service, logger zerolog.Logger) *Recorder {
	return &Recorder{svc: svc, logger: logger}
}

func (r *Recorder) RecordActivity(entry middleware.ActivityEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e := &Entry{
		LogLevel:    LevelInfo,
		LogActivity: entry.Action + " " + entry.Resource,
		LogData: map[string]interface{}{
			"user_id":    entry.UserID,
			"user_role":  entry.UserRole,
			"method":     entry.Method,
			"path":       entry.Path,
			"status":     entry.StatusCode,
			"remote_ip":  entry.IPAddress,
			"user_agent": entry.UserAgent,
			"request_id": entry.RequestID,
		},
	}
	if entry.StatusCode >= 500 {
		e.LogLevel = LevelError
	} else if entry.StatusCode >= 400 {
		e.LogLevel = LevelWarn
	}

	if err := r.svc.CreateEntry(ctx, e); err != nil {
		r.logger.Error().Err(err).Str("request_id", entry.RequestID).Msg("activity log insert failed")
		return err
	}
	return nil
}
