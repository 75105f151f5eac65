package service

import (
	"testing"
	"time"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec != "0 5 9 * * *" {
		t.Fatalf("spec = %q", spec)
	}
	for _, bad := range []string{"9", "24:00", "12:60", "ab:cd", ""} {
		if _, err := buildDailySpec(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestSchedulerService_Register(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	if _, err := s.ScheduleDaily("08:00", func() {}); err != nil {
		t.Fatalf("daily: %v", err)
	}
	if _, err := s.ScheduleInterval(6*time.Hour, func() {}); err != nil {
		t.Fatalf("interval: %v", err)
	}
	if _, err := s.ScheduleInterval(0, func() {}); err == nil {
		t.Fatal("expected error for zero interval")
	}
	if s.Entries() != 2 {
		t.Fatalf("entries = %d, want 2", s.Entries())
	}
}
