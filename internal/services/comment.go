package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

type CreateCommentInput struct {
	AuthorName string
	Text       string
}

type UpdateCommentInput struct {
	AuthorName *string
	Text       *string
}

// CommentService covers both comment families. Submissions are open to
// anonymous visitors; review, edits and deletion are reviewer operations.
type CommentService interface {
	CreateForLecturer(ctx context.Context, lecturerID uuid.UUID, in CreateCommentInput) (*types.CommentLecturer, error)
	ListForLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*types.CommentLecturer, error)
	UpdateForLecturer(ctx context.Context, lecturerID, commentID uuid.UUID, in UpdateCommentInput) (*types.CommentLecturer, error)
	ReviewForLecturer(ctx context.Context, lecturerID, commentID uuid.UUID, verdict moderation.Verdict) (*types.CommentLecturer, error)
	DeleteForLecturer(ctx context.Context, lecturerID, commentID uuid.UUID) error
	UnreviewedForLecturers(ctx context.Context, p repos.ListParams) ([]*types.CommentLecturer, int64, error)

	CreateForEvent(ctx context.Context, eventID uuid.UUID, in CreateCommentInput) (*types.CommentEvent, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]*types.CommentEvent, error)
	UpdateForEvent(ctx context.Context, eventID, commentID uuid.UUID, in UpdateCommentInput) (*types.CommentEvent, error)
	ReviewForEvent(ctx context.Context, eventID, commentID uuid.UUID, verdict moderation.Verdict) (*types.CommentEvent, error)
	DeleteForEvent(ctx context.Context, eventID, commentID uuid.UUID) error
	UnreviewedForEvents(ctx context.Context, p repos.ListParams) ([]*types.CommentEvent, int64, error)
}

type commentService struct {
	db               *gorm.DB
	log              *logger.Logger
	engine           *moderation.Engine
	lecturerRepo     repos.LecturerRepo
	eventRepo        repos.EventRepo
	lectCommentRepo  repos.CommentLecturerRepo
	eventCommentRepo repos.CommentEventRepo
}

func NewCommentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *moderation.Engine,
	lecturerRepo repos.LecturerRepo,
	eventRepo repos.EventRepo,
	lectCommentRepo repos.CommentLecturerRepo,
	eventCommentRepo repos.CommentEventRepo,
) CommentService {
	return &commentService{
		db:               db,
		log:              baseLog.With("service", "CommentService"),
		engine:           engine,
		lecturerRepo:     lecturerRepo,
		eventRepo:        eventRepo,
		lectCommentRepo:  lectCommentRepo,
		eventCommentRepo: eventCommentRepo,
	}
}

func validateCommentInput(in CreateCommentInput) error {
	if strings.TrimSpace(in.AuthorName) == "" {
		return apperr.Validation("author_name", "required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return apperr.Validation("text", "required")
	}
	return nil
}

func (s *commentService) CreateForLecturer(ctx context.Context, lecturerID uuid.UUID, in CreateCommentInput) (*types.CommentLecturer, error) {
	if err := validateCommentInput(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &types.CommentLecturer{
		ID:            uuid.New(),
		LecturerID:    lecturerID,
		AuthorName:    strings.TrimSpace(in.AuthorName),
		Text:          strings.TrimSpace(in.Text),
		ApproveStatus: s.engine.InitialStatus(moderation.KindLecturerComment),
		CreateTS:      now,
		UpdateTS:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lecturerRepo.GetByID(ctx, tx, lecturerID, false); err != nil {
			return err
		}
		return s.lectCommentRepo.Create(ctx, tx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListForLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*types.CommentLecturer, error) {
	if _, err := s.lecturerRepo.GetByID(ctx, nil, lecturerID, false); err != nil {
		return nil, err
	}
	return s.lectCommentRepo.ListForLecturer(ctx, nil, lecturerID, moderation.StatusApproved)
}

func (s *commentService) UpdateForLecturer(ctx context.Context, lecturerID, commentID uuid.UUID, in UpdateCommentInput) (*types.CommentLecturer, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	var updated *types.CommentLecturer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.lectCommentRepo.GetForLecturer(ctx, tx, lecturerID, commentID, false)
		if err != nil {
			return err
		}
		if err := s.engine.EnsureEditable(comment); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.AuthorName != nil {
			if strings.TrimSpace(*in.AuthorName) == "" {
				return apperr.Validation("author_name", "must not be empty")
			}
			updates["author_name"] = strings.TrimSpace(*in.AuthorName)
		}
		if in.Text != nil {
			if strings.TrimSpace(*in.Text) == "" {
				return apperr.Validation("text", "must not be empty")
			}
			updates["text"] = strings.TrimSpace(*in.Text)
		}
		if len(updates) > 0 {
			updates["update_ts"] = time.Now().UTC()
			if err := s.lectCommentRepo.Update(ctx, tx, commentID, updates); err != nil {
				return err
			}
		}

		comment, err = s.lectCommentRepo.GetForLecturer(ctx, tx, lecturerID, commentID, false)
		if err != nil {
			return err
		}
		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *commentService) ReviewForLecturer(ctx context.Context, lecturerID, commentID uuid.UUID, verdict moderation.Verdict) (*types.CommentLecturer, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	var reviewed *types.CommentLecturer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.lectCommentRepo.GetForLecturer(ctx, tx, lecturerID, commentID, false)
		if err != nil {
			return err
		}
		if err := s.engine.Review(comment, verdict); err != nil {
			return err
		}
		err = s.lectCommentRepo.Update(ctx, tx, commentID, map[string]any{
			"approve_status": comment.ApproveStatus,
			"is_deleted":     comment.IsDeleted,
		})
		if err != nil {
			return err
		}
		reviewed = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (s *commentService) DeleteForLecturer(ctx context.Context, lecturerID, commentID uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lectCommentRepo.GetForLecturer(ctx, tx, lecturerID, commentID, false); err != nil {
			return err
		}
		return s.lectCommentRepo.SoftDelete(ctx, tx, commentID)
	})
}

func (s *commentService) UnreviewedForLecturers(ctx context.Context, p repos.ListParams) ([]*types.CommentLecturer, int64, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, 0, err
	}
	return s.lectCommentRepo.ListUnreviewed(ctx, nil, p)
}

func (s *commentService) CreateForEvent(ctx context.Context, eventID uuid.UUID, in CreateCommentInput) (*types.CommentEvent, error) {
	if err := validateCommentInput(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &types.CommentEvent{
		ID:            uuid.New(),
		EventID:       eventID,
		AuthorName:    strings.TrimSpace(in.AuthorName),
		Text:          strings.TrimSpace(in.Text),
		ApproveStatus: s.engine.InitialStatus(moderation.KindEventComment),
		CreateTS:      now,
		UpdateTS:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.eventRepo.GetByID(ctx, tx, eventID, false); err != nil {
			return err
		}
		return s.eventCommentRepo.Create(ctx, tx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]*types.CommentEvent, error) {
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID, false); err != nil {
		return nil, err
	}
	return s.eventCommentRepo.ListForEvent(ctx, nil, eventID, moderation.StatusApproved)
}

func (s *commentService) UpdateForEvent(ctx context.Context, eventID, commentID uuid.UUID, in UpdateCommentInput) (*types.CommentEvent, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	var updated *types.CommentEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.eventCommentRepo.GetForEvent(ctx, tx, eventID, commentID, false)
		if err != nil {
			return err
		}
		if err := s.engine.EnsureEditable(comment); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.AuthorName != nil {
			if strings.TrimSpace(*in.AuthorName) == "" {
				return apperr.Validation("author_name", "must not be empty")
			}
			updates["author_name"] = strings.TrimSpace(*in.AuthorName)
		}
		if in.Text != nil {
			if strings.TrimSpace(*in.Text) == "" {
				return apperr.Validation("text", "must not be empty")
			}
			updates["text"] = strings.TrimSpace(*in.Text)
		}
		if len(updates) > 0 {
			updates["update_ts"] = time.Now().UTC()
			if err := s.eventCommentRepo.Update(ctx, tx, commentID, updates); err != nil {
				return err
			}
		}

		comment, err = s.eventCommentRepo.GetForEvent(ctx, tx, eventID, commentID, false)
		if err != nil {
			return err
		}
		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *commentService) ReviewForEvent(ctx context.Context, eventID, commentID uuid.UUID, verdict moderation.Verdict) (*types.CommentEvent, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	var reviewed *types.CommentEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.eventCommentRepo.GetForEvent(ctx, tx, eventID, commentID, false)
		if err != nil {
			return err
		}
		if err := s.engine.Review(comment, verdict); err != nil {
			return err
		}
		err = s.eventCommentRepo.Update(ctx, tx, commentID, map[string]any{
			"approve_status": comment.ApproveStatus,
			"is_deleted":     comment.IsDeleted,
		})
		if err != nil {
			return err
		}
		reviewed = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (s *commentService) DeleteForEvent(ctx context.Context, eventID, commentID uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.eventCommentRepo.GetForEvent(ctx, tx, eventID, commentID, false); err != nil {
			return err
		}
		return s.eventCommentRepo.SoftDelete(ctx, tx, commentID)
	})
}

func (s *commentService) UnreviewedForEvents(ctx context.Context, p repos.ListParams) ([]*types.CommentEvent, int64, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, 0, err
	}
	return s.eventCommentRepo.ListUnreviewed(ctx, nil, p)
}
