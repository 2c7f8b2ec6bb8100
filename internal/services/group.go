package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

type CreateGroupInput struct {
	Name   string
	Number string
}

type UpdateGroupInput struct {
	Name   *string
	Number *string
}

type GroupService interface {
	Create(ctx context.Context, in CreateGroupInput) (*types.Group, error)
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Group, error)
	List(ctx context.Context, p repos.ListParams) ([]*types.Group, int64, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateGroupInput) (*types.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupService struct {
	db        *gorm.DB
	log       *logger.Logger
	groupRepo repos.GroupRepo
}

func NewGroupService(db *gorm.DB, baseLog *logger.Logger, groupRepo repos.GroupRepo) GroupService {
	return &groupService{
		db:        db,
		log:       baseLog.With("service", "GroupService"),
		groupRepo: groupRepo,
	}
}

func (s *groupService) Create(ctx context.Context, in CreateGroupInput) (*types.Group, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, apperr.Validation("number", "required")
	}

	group := &types.Group{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(in.Name),
		Number: number,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.groupRepo.NumberExists(ctx, tx, number)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("group with this number already exists")
		}
		return s.groupRepo.Create(ctx, tx, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Group, error) {
	return s.groupRepo.GetByID(ctx, nil, id, includeDeleted)
}

func (s *groupService) List(ctx context.Context, p repos.ListParams) ([]*types.Group, int64, error) {
	return s.groupRepo.List(ctx, nil, p)
}

func (s *groupService) Update(ctx context.Context, id uuid.UUID, in UpdateGroupInput) (*types.Group, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Number != nil {
		number := strings.TrimSpace(*in.Number)
		if number == "" {
			return nil, apperr.Validation("number", "must not be empty")
		}
		updates["number"] = number
	}

	var updated *types.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if number, ok := updates["number"]; ok {
			current, err := s.groupRepo.GetByID(ctx, tx, id, false)
			if err != nil {
				return err
			}
			if current.Number != number {
				exists, err := s.groupRepo.NumberExists(ctx, tx, number.(string))
				if err != nil {
					return err
				}
				if exists {
					return apperr.Conflict("group with this number already exists")
				}
			}
		}
		if len(updates) > 0 {
			if err := s.groupRepo.Update(ctx, tx, id, updates); err != nil {
				return err
			}
		}
		group, err := s.groupRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *groupService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.groupRepo.SoftDelete(ctx, tx, id)
	})
}
