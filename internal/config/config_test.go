package config

import (
	"testing"
	"time"

	"github.com/campusboard/timetable-backend/internal/logger"
)

func TestLoadDayOffWeekday(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	t.Setenv("DAY_OFF_WEEKDAY", "1")
	if got := Load(log).Academic.DayOff; got != time.Monday {
		t.Fatalf("DayOff = %v, want Monday", got)
	}

	// out of Go's Sunday=0..Saturday=6 range falls back to the default
	t.Setenv("DAY_OFF_WEEKDAY", "7")
	if got := Load(log).Academic.DayOff; got != time.Sunday {
		t.Fatalf("DayOff = %v, want Sunday fallback", got)
	}
}
