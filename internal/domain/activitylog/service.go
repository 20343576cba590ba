package activitylog

import (
	"context"
	"fmt"
)

type Service struct {
	entries Repository
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

func (s *Service) CreateEntry(ctx context.Context, e *Entry) error {
	if e.LogActivity == "" {
		return fmt.Errorf("log_activity is required")
	}
	if e.LogLevel == "" {
		e.LogLevel = LevelInfo
	}
	if !ValidLogLevel(e.LogLevel) {
		return fmt.Errorf("unknown log level %q", e.LogLevel)
	}
	return s.entries.Create(ctx, e)
}

func (s *Service) ListEntries(ctx context.Context, f Filters, limit, offset int) ([]*Entry, int, error) {
	return s.entries.List(ctx, f, limit, offset)
}
