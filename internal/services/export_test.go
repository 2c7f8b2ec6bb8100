package services

import (
	"context"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/campusboard/timetable-backend/internal/config"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
	"github.com/campusboard/timetable-backend/internal/types"
	"gorm.io/gorm"
)

func testAcademic() config.AcademicCalendar {
	return config.AcademicCalendar{
		SpringEndMonth: time.May,
		SpringEndDay:   24,
		FallEndMonth:   time.December,
		FallEndDay:     24,
		DayOff:         time.Sunday,
	}
}

func newExportService(t *testing.T, db *gorm.DB, cacheDir string, ttl time.Duration, now time.Time) *exportService {
	t.Helper()
	log := testutil.Logger(t)
	svc := NewExportService(
		log,
		repos.NewEventRepo(db, log),
		repos.NewGroupRepo(db, log),
		testAcademic(),
		cacheDir,
		ttl,
	).(*exportService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestExportWindow(t *testing.T) {
	svc := newExportService(t, testutil.DB(t), t.TempDir(), time.Hour, time.Now())

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "spring term",
			now:       time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.May, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "first day of spring term",
			now:       time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.May, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "fall term",
			now:       time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.December, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "summer break degenerates to one day",
			now:       time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.July, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "june is outside the spring term",
			now:       time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "past the term boundary falls back to one day",
			now:       time.Date(2026, time.May, 30, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.May, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := svc.window(tt.now)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Fatalf("window(%v) = [%v, %v), want [%v, %v)",
					tt.now, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExportSkipsDayOffAndIsDeterministic(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	// 2026-03-10 is a Tuesday
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	svc := newExportService(t, db, t.TempDir(), time.Hour, now)

	group := testutil.SeedGroup(t, ctx, db, "101")
	testutil.SeedEvent(t, ctx, db, "Algebra",
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 11, 11, 30, 0, 0, time.UTC),
		[]*types.Group{group})
	// 2026-03-15 is a Sunday and must never contribute entries
	testutil.SeedEvent(t, ctx, db, "Sunday lecture",
		time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 11, 30, 0, 0, time.UTC),
		[]*types.Group{group})

	first, err := svc.Entries(ctx, group.ID)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(first))
	}
	for _, e := range first {
		if e.Start.Weekday() == time.Sunday {
			t.Fatalf("entry on the day off: %+v", e)
		}
	}

	second, err := svc.Entries(ctx, group.ID)
	if err != nil {
		t.Fatalf("Entries second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("export not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExportEntryWithoutRoomOrLecturer(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	// 2026-03-11 is a Wednesday
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	svc := newExportService(t, db, t.TempDir(), time.Hour, now)

	group := testutil.SeedGroup(t, ctx, db, "101")
	testutil.SeedEvent(t, ctx, db, "Physics",
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 11, 11, 30, 0, 0, time.UTC),
		[]*types.Group{group})

	entries, err := svc.Entries(ctx, group.ID)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Summary != "Physics / -" {
		t.Fatalf("summary = %q, want %q", got.Summary, "Physics / -")
	}
	if got.Location != "-" {
		t.Fatalf("location = %q, want %q", got.Location, "-")
	}
	if !got.Start.Equal(time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", got.Start)
	}
}

func TestExportEmptyWindowProducesValidCalendar(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	svc := newExportService(t, db, t.TempDir(), time.Hour, now)

	group := testutil.SeedGroup(t, ctx, db, "empty")

	data, err := svc.Calendar(ctx, group.ID)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "END:VCALENDAR") {
		t.Fatalf("not a valid calendar file:\n%s", body)
	}
	if strings.Contains(body, "BEGIN:VEVENT") {
		t.Fatalf("empty window must not produce events:\n%s", body)
	}
}

func TestCalendarFileCaching(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dir := t.TempDir()
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	svc := newExportService(t, db, dir, 24*time.Hour, now)

	group := testutil.SeedGroup(t, ctx, db, "101")

	path, err := svc.CalendarFile(ctx, group.ID)
	if err != nil {
		t.Fatalf("CalendarFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}

	// a fresh file must be served as-is
	sentinel := []byte("BEGIN:VCALENDAR\r\nX-SENTINEL:1\r\nEND:VCALENDAR\r\n")
	if err := os.WriteFile(path, sentinel, 0o644); err != nil {
		t.Fatalf("write sentinel: %v", err)
	}
	if _, err := svc.CalendarFile(ctx, group.ID); err != nil {
		t.Fatalf("CalendarFile fresh: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if string(data) != string(sentinel) {
		t.Fatal("fresh cache file was regenerated")
	}

	// past the TTL the file must be rebuilt
	svc.now = func() time.Time { return now.Add(48 * time.Hour) }
	if _, err := svc.CalendarFile(ctx, group.ID); err != nil {
		t.Fatalf("CalendarFile stale: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache after regen: %v", err)
	}
	if strings.Contains(string(data), "X-SENTINEL") {
		t.Fatal("stale cache file was not regenerated")
	}
}
