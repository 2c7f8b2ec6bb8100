package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/types"
	"github.com/campusboard/timetable-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "timetable", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Room{},
		&types.Group{},
		&types.Lecturer{},
		&types.Event{},
		&types.Photo{},
		&types.CommentLecturer{},
		&types.CommentEvent{},
		&types.CalendarCredential{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{
			name: "fk_user_token_user_id",
			stmt: `ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id"
				FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_photo_lecturer_id",
			stmt: `ALTER TABLE "photo" ADD CONSTRAINT "fk_photo_lecturer_id"
				FOREIGN KEY ("lecturer_id") REFERENCES "lecturer"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_comment_lecturer_lecturer_id",
			stmt: `ALTER TABLE "comment_lecturer" ADD CONSTRAINT "fk_comment_lecturer_lecturer_id"
				FOREIGN KEY ("lecturer_id") REFERENCES "lecturer"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_comment_event_event_id",
			stmt: `ALTER TABLE "comment_event" ADD CONSTRAINT "fk_comment_event_event_id"
				FOREIGN KEY ("event_id") REFERENCES "event"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_calendar_credential_group_id",
			stmt: `ALTER TABLE "calendar_credential" ADD CONSTRAINT "fk_calendar_credential_group_id"
				FOREIGN KEY ("group_id") REFERENCES "group"("id") ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %q`, tableOf(c.name), c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("drop constraint %s: %w", c.name, err)
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func tableOf(constraint string) string {
	switch constraint {
	case "fk_user_token_user_id":
		return `"user_token"`
	case "fk_photo_lecturer_id":
		return `"photo"`
	case "fk_comment_lecturer_lecturer_id":
		return `"comment_lecturer"`
	case "fk_comment_event_event_id":
		return `"comment_event"`
	default:
		return `"calendar_credential"`
	}
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
