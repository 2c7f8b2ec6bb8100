package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/config"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

// CalendarEntry is one exported occurrence, normalized to UTC.
type CalendarEntry struct {
	UID      string
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

type ExportService interface {
	// Entries builds the group's calendar entries for the default window.
	Entries(ctx context.Context, groupID uuid.UUID) ([]CalendarEntry, error)
	// EntriesInWindow builds entries for an explicit [from, to) window.
	EntriesInWindow(ctx context.Context, groupID uuid.UUID, from, to time.Time) ([]CalendarEntry, error)
	// Calendar serializes the default-window entries to ICS bytes.
	Calendar(ctx context.Context, groupID uuid.UUID) ([]byte, error)
	// CalendarFile returns the path of a cached ICS file for the group,
	// regenerating it when stale. Safe for concurrent callers.
	CalendarFile(ctx context.Context, groupID uuid.UUID) (string, error)
	// ListEvents is the JSON-facing variant: raw events in the window.
	ListEvents(ctx context.Context, groupID uuid.UUID, from, to *time.Time) ([]*types.Event, error)
}

type exportService struct {
	log       *logger.Logger
	eventRepo repos.EventRepo
	groupRepo repos.GroupRepo

	academic config.AcademicCalendar
	cacheDir string
	cacheTTL time.Duration

	regen singleflight.Group
	now   func() time.Time
}

func NewExportService(
	baseLog *logger.Logger,
	eventRepo repos.EventRepo,
	groupRepo repos.GroupRepo,
	academic config.AcademicCalendar,
	cacheDir string,
	cacheTTL time.Duration,
) ExportService {
	return &exportService{
		log:       baseLog.With("service", "ExportService"),
		eventRepo: eventRepo,
		groupRepo: groupRepo,
		academic:  academic,
		cacheDir:  cacheDir,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// window computes the export range [start, end): start is today at
// midnight UTC, end is the configured term boundary, or the next day when
// today falls outside both terms.
func (s *exportService) window(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var end time.Time
	switch {
	case now.Month() >= time.February && now.Month() < time.June:
		end = time.Date(now.Year(), s.academic.SpringEndMonth, s.academic.SpringEndDay, 0, 0, 0, 0, time.UTC)
	case now.Month() >= time.September && now.Month() <= time.December:
		end = time.Date(now.Year(), s.academic.FallEndMonth, s.academic.FallEndDay, 0, 0, 0, 0, time.UTC)
	default:
		end = start.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return start, end
}

func presenterOf(event *types.Event) string {
	if len(event.Lecturers) == 0 {
		return "-"
	}
	return event.Lecturers[0].DisplayName()
}

func locationOf(event *types.Event) string {
	if len(event.Rooms) == 0 {
		return "-"
	}
	return event.Rooms[0].Name
}

func entryOf(event *types.Event) CalendarEntry {
	return CalendarEntry{
		UID:      fmt.Sprintf("%s@timetable", event.ID),
		Summary:  fmt.Sprintf("%s / %s", event.Name, presenterOf(event)),
		Location: locationOf(event),
		Start:    event.StartTS.UTC(),
		End:      event.EndTS.UTC(),
	}
}

func (s *exportService) Entries(ctx context.Context, groupID uuid.UUID) ([]CalendarEntry, error) {
	from, to := s.window(s.now())
	return s.EntriesInWindow(ctx, groupID, from, to)
}

// EntriesInWindow walks the window day by day, skipping the weekly day
// off. A day with no events contributes nothing; partial results are
// expected during breaks and holidays.
func (s *exportService) EntriesInWindow(ctx context.Context, groupID uuid.UUID, from, to time.Time) ([]CalendarEntry, error) {
	if _, err := s.groupRepo.GetByID(ctx, nil, groupID, false); err != nil {
		return nil, err
	}

	entries := []CalendarEntry{}
	for day := from.UTC().Truncate(24 * time.Hour); day.Before(to); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == s.academic.DayOff {
			continue
		}
		events, err := s.eventRepo.ListForGroup(ctx, nil, groupID, day, day.AddDate(0, 0, 1))
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, event := range events {
			entries = append(entries, entryOf(event))
		}
	}
	return entries, nil
}

func serializeEntries(entries []CalendarEntry) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//campusboard//timetable//EN")
	for _, entry := range entries {
		ev := cal.AddEvent(entry.UID)
		ev.SetSummary(entry.Summary)
		ev.SetLocation(entry.Location)
		ev.SetStartAt(entry.Start)
		ev.SetEndAt(entry.End)
		ev.SetDtStampTime(entry.Start)
	}
	return []byte(cal.Serialize())
}

func (s *exportService) Calendar(ctx context.Context, groupID uuid.UUID) ([]byte, error) {
	entries, err := s.Entries(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return serializeEntries(entries), nil
}

func (s *exportService) cachePath(groupID uuid.UUID) string {
	return filepath.Join(s.cacheDir, groupID.String()+".ics")
}

func (s *exportService) CalendarFile(ctx context.Context, groupID uuid.UUID) (string, error) {
	path := s.cachePath(groupID)

	// one regeneration per group at a time; concurrent callers share the
	// result
	_, err, _ := s.regen.Do(groupID.String(), func() (any, error) {
		info, statErr := os.Stat(path)
		if statErr == nil && s.now().Sub(info.ModTime()) < s.cacheTTL {
			return nil, nil
		}

		data, genErr := s.Calendar(ctx, groupID)
		if genErr != nil {
			return nil, genErr
		}
		if writeErr := s.writeCacheFile(path, data); writeErr != nil {
			// a stale file beats no file, but never a corrupt one
			if statErr == nil {
				s.log.Warn("Serving stale calendar export", "group_id", groupID, "error", writeErr)
				return nil, nil
			}
			return nil, apperr.Upstream(writeErr)
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// writeCacheFile writes to a temp file and renames so readers never see a
// partial calendar. The temp file is removed on any failure.
func (s *exportService) writeCacheFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *exportService) ListEvents(ctx context.Context, groupID uuid.UUID, from, to *time.Time) ([]*types.Event, error) {
	if _, err := s.groupRepo.GetByID(ctx, nil, groupID, false); err != nil {
		return nil, err
	}

	start, end := s.window(s.now())
	if from != nil {
		start = from.UTC()
	}
	if to != nil {
		end = to.UTC()
	}
	return s.eventRepo.ListForGroup(ctx, nil, groupID, start, end)
}
