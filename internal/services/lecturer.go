package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

type CreateLecturerInput struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Description string
}

type UpdateLecturerInput struct {
	FirstName   *string
	MiddleName  *string
	LastName    *string
	Description *string
}

type LecturerService interface {
	Create(ctx context.Context, in CreateLecturerInput) (*types.Lecturer, error)
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Lecturer, error)
	List(ctx context.Context, p repos.ListParams) ([]*types.Lecturer, int64, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateLecturerInput) (*types.Lecturer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SetAvatar points the lecturer at one of their own APPROVED photos.
	SetAvatar(ctx context.Context, lecturerID, photoID uuid.UUID) (*types.Lecturer, error)
}

type lecturerService struct {
	db           *gorm.DB
	log          *logger.Logger
	lecturerRepo repos.LecturerRepo
	photoRepo    repos.PhotoRepo
	commentRepo  repos.CommentLecturerRepo
}

func NewLecturerService(db *gorm.DB, baseLog *logger.Logger, lecturerRepo repos.LecturerRepo, photoRepo repos.PhotoRepo, commentRepo repos.CommentLecturerRepo) LecturerService {
	return &lecturerService{
		db:           db,
		log:          baseLog.With("service", "LecturerService"),
		lecturerRepo: lecturerRepo,
		photoRepo:    photoRepo,
		commentRepo:  commentRepo,
	}
}

func (s *lecturerService) Create(ctx context.Context, in CreateLecturerInput) (*types.Lecturer, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, apperr.Validation("first_name", "required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, apperr.Validation("last_name", "required")
	}

	lecturer := &types.Lecturer{
		ID:          uuid.New(),
		FirstName:   strings.TrimSpace(in.FirstName),
		MiddleName:  strings.TrimSpace(in.MiddleName),
		LastName:    strings.TrimSpace(in.LastName),
		Description: in.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.lecturerRepo.Create(ctx, tx, lecturer)
	})
	if err != nil {
		return nil, err
	}
	return lecturer, nil
}

func (s *lecturerService) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Lecturer, error) {
	return s.lecturerRepo.GetByID(ctx, nil, id, includeDeleted)
}

func (s *lecturerService) List(ctx context.Context, p repos.ListParams) ([]*types.Lecturer, int64, error) {
	return s.lecturerRepo.List(ctx, nil, p)
}

func (s *lecturerService) Update(ctx context.Context, id uuid.UUID, in UpdateLecturerInput) (*types.Lecturer, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, apperr.Validation("first_name", "must not be empty")
		}
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.MiddleName != nil {
		updates["middle_name"] = strings.TrimSpace(*in.MiddleName)
	}
	if in.LastName != nil {
		if strings.TrimSpace(*in.LastName) == "" {
			return nil, apperr.Validation("last_name", "must not be empty")
		}
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	var updated *types.Lecturer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := s.lecturerRepo.Update(ctx, tx, id, updates); err != nil {
				return err
			}
		}
		lecturer, err := s.lecturerRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		updated = lecturer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *lecturerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lecturerRepo.SoftDelete(ctx, tx, id); err != nil {
			return err
		}
		// dependent content goes with the lecturer
		if err := s.photoRepo.SoftDeleteForLecturer(ctx, tx, id); err != nil {
			return err
		}
		return s.commentRepo.SoftDeleteForLecturer(ctx, tx, id)
	})
}

func (s *lecturerService) SetAvatar(ctx context.Context, lecturerID, photoID uuid.UUID) (*types.Lecturer, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	var updated *types.Lecturer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lecturerRepo.GetByID(ctx, tx, lecturerID, false); err != nil {
			return err
		}
		photo, err := s.photoRepo.GetForLecturer(ctx, tx, lecturerID, photoID, false)
		if err != nil {
			return err
		}
		if photo.ApproveStatus != moderation.StatusApproved {
			return apperr.Validation("photo_id", "avatar must be an approved photo")
		}
		if err := s.lecturerRepo.Update(ctx, tx, lecturerID, map[string]any{"avatar_id": photoID}); err != nil {
			return err
		}
		lecturer, err := s.lecturerRepo.GetByID(ctx, tx, lecturerID, false)
		if err != nil {
			return err
		}
		updated = lecturer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
