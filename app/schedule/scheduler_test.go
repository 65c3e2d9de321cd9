package schedule

import (
	"testing"
	"time"
)

func TestScheduleDailyRequiresHandler(t *testing.T) {
	s := NewScheduler()

	err := s.ScheduleDaily("unknown", time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC))
	if err == nil {
		t.Error("Expected error for unregistered job, got nil")
	}
}

func TestScheduleDailyAndClear(t *testing.T) {
	s := NewScheduler()
	s.Register("job", func(now time.Time) {})

	if _, ok := s.NextFire("job"); ok {
		t.Error("Expected no recurrence before scheduling")
	}

	first := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)
	if err := s.ScheduleDaily("job", first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, ok := s.NextFire("job"); !ok {
		t.Error("Expected recurrence after scheduling")
	}

	s.Clear("job")

	if _, ok := s.NextFire("job"); ok {
		t.Error("Expected no recurrence after clear")
	}
}

func TestScheduleDailyReplacesExisting(t *testing.T) {
	s := NewScheduler()
	s.Register("job", func(now time.Time) {})

	if err := s.ScheduleDaily("job", time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.ScheduleDaily("job", time.Date(2026, 8, 31, 5, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	s.Start()
	defer s.Stop()

	next, ok := s.NextFire("job")
	if !ok {
		t.Fatal("Expected recurrence to be installed")
	}
	if next.IsZero() {
		t.Fatal("Expected a computed next fire time after start")
	}
	if next.Hour() != 5 {
		t.Errorf("Expected next fire at hour 5, got %d", next.Hour())
	}
}

func TestClearUnknownJobIsNoop(t *testing.T) {
	s := NewScheduler()
	s.Clear("missing")
}
