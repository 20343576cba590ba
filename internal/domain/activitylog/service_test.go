package activitylog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reftrack/reftrack/internal/platform/middleware"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	entries []*Entry
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filters, limit, offset int) ([]*Entry, int, error) {
	var out []*Entry
	for _, e := range m.entries {
		if f.LogLevel != "" && e.LogLevel != f.LogLevel {
			continue
		}
		if f.LogActivity != "" && e.LogActivity != f.LogActivity {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func TestService_CreateEntry_DefaultsLevel(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	e := &Entry{LogActivity: "create hospitals"}
	if err := svc.CreateEntry(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.LogLevel != LevelInfo {
		t.Errorf("expected default INFO, got %s", e.LogLevel)
	}
}

func TestService_CreateEntry_RejectsUnknownLevel(t *testing.T) {
	svc := NewService(&mockRepo{})
	e := &Entry{LogActivity: "x", LogLevel: "SHOUTING"}
	if err := svc.CreateEntry(context.Background(), e); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestService_CreateEntry_RequiresActivity(t *testing.T) {
	svc := NewService(&mockRepo{})
	if err := svc.CreateEntry(context.Background(), &Entry{}); err == nil {
		t.Error("expected error for missing log_activity")
	}
}

func TestService_ListEntries_FiltersByLevel(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	svc.CreateEntry(context.Background(), &Entry{LogActivity: "a", LogLevel: LevelInfo})
	svc.CreateEntry(context.Background(), &Entry{LogActivity: "b", LogLevel: LevelError})

	rows, total, err := svc.ListEntries(context.Background(), Filters{LogLevel: LevelError}, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].LogActivity != "b" {
		t.Errorf("expected only the ERROR entry, got total=%d", total)
	}
}

func TestRecorder_MapsAuditEntry(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(NewService(repo), zerolog.Nop())

	err := rec.RecordActivity(middleware.ActivityEntry{
		UserID:     "user-1",
		UserRole:   "SITE_ADMIN",
		Resource:   "hospitals",
		Action:     "create",
		Method:     "POST",
		Path:       "/api/v1/hospitals",
		StatusCode: 201,
		RequestID:  "req-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.LogActivity != "create hospitals" {
		t.Errorf("expected activity 'create hospitals', got %q", e.LogActivity)
	}
	if e.LogLevel != LevelInfo {
		t.Errorf("expected INFO for 2xx, got %s", e.LogLevel)
	}
	if e.LogData["user_id"] != "user-1" {
		t.Error("expected user id carried into log_data")
	}
}

func TestRecorder_ErrorStatusEscalatesLevel(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(NewService(repo), zerolog.Nop())

	rec.RecordActivity(middleware.ActivityEntry{Resource: "referrals", Action: "delete", StatusCode: 409})
	rec.RecordActivity(middleware.ActivityEntry{Resource: "referrals", Action: "update", StatusCode: 500})

	if repo.entries[0].LogLevel != LevelWarn {
		t.Errorf("expected WARN for 4xx, got %s", repo.entries[0].LogLevel)
	}
	if repo.entries[1].LogLevel != LevelError {
		t.Errorf("expected ERROR for 5xx, got %s", repo.entries[1].LogLevel)
	}
}
