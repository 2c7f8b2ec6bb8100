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

type CreateRoomInput struct {
	Name        string
	Direction   string
	Building    string
	BuildingURL string
}

// UpdateRoomInput uses pointers so an omitted field is distinguishable
// from an explicitly cleared one.
type UpdateRoomInput struct {
	Name        *string
	Direction   *string
	Building    *string
	BuildingURL *string
}

type RoomService interface {
	Create(ctx context.Context, in CreateRoomInput) (*types.Room, error)
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Room, error)
	List(ctx context.Context, p repos.ListParams) ([]*types.Room, int64, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateRoomInput) (*types.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomService struct {
	db       *gorm.DB
	log      *logger.Logger
	roomRepo repos.RoomRepo
}

func NewRoomService(db *gorm.DB, baseLog *logger.Logger, roomRepo repos.RoomRepo) RoomService {
	return &roomService{
		db:       db,
		log:      baseLog.With("service", "RoomService"),
		roomRepo: roomRepo,
	}
}

func validDirection(d string) bool {
	return d == string(types.DirectionNorth) || d == string(types.DirectionSouth)
}

func (s *roomService) Create(ctx context.Context, in CreateRoomInput) (*types.Room, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name", "required")
	}
	if strings.TrimSpace(in.Building) == "" {
		return nil, apperr.Validation("building", "required")
	}
	if !validDirection(in.Direction) {
		return nil, apperr.Validation("direction", "must be North or South")
	}

	room := &types.Room{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Direction:   types.Direction(in.Direction),
		Building:    strings.TrimSpace(in.Building),
		BuildingURL: in.BuildingURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.roomRepo.NameExists(ctx, tx, room.Name, room.Building)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("room with this name already exists in the building")
		}
		return s.roomRepo.Create(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Room, error) {
	return s.roomRepo.GetByID(ctx, nil, id, includeDeleted)
}

func (s *roomService) List(ctx context.Context, p repos.ListParams) ([]*types.Room, int64, error) {
	return s.roomRepo.List(ctx, nil, p)
}

func (s *roomService) Update(ctx context.Context, id uuid.UUID, in UpdateRoomInput) (*types.Room, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Validation("name", "must not be empty")
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Direction != nil {
		if !validDirection(*in.Direction) {
			return nil, apperr.Validation("direction", "must be North or South")
		}
		updates["direction"] = *in.Direction
	}
	if in.Building != nil {
		if strings.TrimSpace(*in.Building) == "" {
			return nil, apperr.Validation("building", "must not be empty")
		}
		updates["building"] = strings.TrimSpace(*in.Building)
	}
	if in.BuildingURL != nil {
		updates["building_url"] = *in.BuildingURL
	}

	var updated *types.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Name != nil || in.Building != nil {
			current, err := s.roomRepo.GetByID(ctx, tx, id, false)
			if err != nil {
				return err
			}
			name := current.Name
			building := current.Building
			if v, ok := updates["name"]; ok {
				name = v.(string)
			}
			if v, ok := updates["building"]; ok {
				building = v.(string)
			}
			if name != current.Name || building != current.Building {
				exists, err := s.roomRepo.NameExists(ctx, tx, name, building)
				if err != nil {
					return err
				}
				if exists {
					return apperr.Conflict("room with this name already exists in the building")
				}
			}
		}
		if len(updates) > 0 {
			if err := s.roomRepo.Update(ctx, tx, id, updates); err != nil {
				return err
			}
		}
		room, err := s.roomRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *roomService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.roomRepo.SoftDelete(ctx, tx, id)
	})
}
