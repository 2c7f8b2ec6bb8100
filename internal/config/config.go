package config

import (
	"time"

	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/utils"
)

// AcademicCalendar bounds the export window. Spring covers [Feb, Jun) and
// ends on SpringEndMonth/Day; fall covers [Sep, Dec] and ends on
// FallEndMonth/Day. Outside either term the window degenerates to a
// single day.
type AcademicCalendar struct {
	SpringEndMonth time.Month
	SpringEndDay   int
	FallEndMonth   time.Month
	FallEndDay     int
	DayOff         time.Weekday
}

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SignupCode      string

	Moderation moderation.Config

	ExportCacheDir string
	ExportCacheTTL time.Duration
	Academic       AcademicCalendar

	GoogleClientID     string
	GoogleClientSecret string
}

func Load(log *logger.Logger) Config {
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	exportCacheTTLSeconds := utils.GetEnvAsInt("EXPORT_CACHE_TTL", 86400, log)

	// DAY_OFF_WEEKDAY uses Go's weekday numbering: Sunday=0 .. Saturday=6.
	dayOff := utils.GetEnvAsInt("DAY_OFF_WEEKDAY", int(time.Sunday), log)
	if dayOff < 0 || dayOff > 6 {
		log.Warn("DAY_OFF_WEEKDAY out of range, falling back to Sunday", "value", dayOff)
		dayOff = int(time.Sunday)
	}

	return Config{
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		SignupCode:      utils.GetEnv("SIGNUP_CODE", "", log),

		Moderation: moderation.Config{
			ReviewLecturerComments: utils.GetEnvAsBool("REVIEW_LECTURER_COMMENTS", true, log),
			ReviewEventComments:    utils.GetEnvAsBool("REVIEW_EVENT_COMMENTS", true, log),
			ReviewPhotos:           utils.GetEnvAsBool("REVIEW_PHOTOS", true, log),
		},

		ExportCacheDir: utils.GetEnv("EXPORT_CACHE_DIR", "/tmp/timetable-ics", log),
		ExportCacheTTL: time.Duration(exportCacheTTLSeconds) * time.Second,
		Academic: AcademicCalendar{
			SpringEndMonth: time.Month(utils.GetEnvAsInt("SPRING_END_MONTH", int(time.May), log)),
			SpringEndDay:   utils.GetEnvAsInt("SPRING_END_DAY", 24, log),
			FallEndMonth:   time.Month(utils.GetEnvAsInt("FALL_END_MONTH", int(time.December), log)),
			FallEndDay:     utils.GetEnvAsInt("FALL_END_DAY", 24, log),
			DayOff:         time.Weekday(dayOff),
		},

		GoogleClientID:     utils.GetEnv("GOOGLE_CLIENT_ID", "", log),
		GoogleClientSecret: utils.GetEnv("GOOGLE_CLIENT_SECRET", "", log),
	}
}
