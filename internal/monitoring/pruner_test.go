package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/avenside/inkpost-be/internal/models"
)

type mockActivityService struct {
	cutoffs []time.Time
	removed int64
	err     error
}

func (m *mockActivityService) RecordActivity(activityType, level, message string, subjectID *string) error {
	return nil
}

func (m *mockActivityService) GetRecentActivity(limit int) ([]models.Event, error) {
	return nil, nil
}

func (m *mockActivityService) PruneOlderThan(cutoff time.Time) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.removed, nil
}

func TestPruneUsesRetentionCutoff(t *testing.T) {
	svc := &mockActivityService{removed: 3}
	pruner, err := NewPruner(svc, "0 3 * * *", 90)
	if err != nil {
		t.Fatalf("NewPruner failed: %v", err)
	}

	now := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
	pruner.prune(now)

	if len(svc.cutoffs) != 1 {
		t.Fatalf("expected 1 prune call, got %d", len(svc.cutoffs))
	}
	want := now.Add(-90 * 24 * time.Hour)
	if !svc.cutoffs[0].Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, svc.cutoffs[0])
	}
}

func TestPruneSwallowsStorageErrors(t *testing.T) {
	svc := &mockActivityService{err: errors.New("db gone")}
	pruner, err := NewPruner(svc, "0 3 * * *", 30)
	if err != nil {
		t.Fatalf("NewPruner failed: %v", err)
	}

	// Must log and carry on, not panic or break the loop.
	pruner.prune(time.Now())
}

func TestNewPrunerRejectsBadSchedule(t *testing.T) {
	if _, err := NewPruner(&mockActivityService{}, "every day at 3", 30); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestScheduleAdvancesToNextDay(t *testing.T) {
	pruner, err := NewPruner(&mockActivityService{}, "0 3 * * *", 30)
	if err != nil {
		t.Fatalf("NewPruner failed: %v", err)
	}

	// Just past today's firing time, the next run lands at 03:00 tomorrow.
	now := time.Date(2026, 8, 30, 3, 0, 1, 0, time.UTC)
	next := pruner.schedule.Next(now)
	want := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected next run %v, got %v", want, next)
	}
}
