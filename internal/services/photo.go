package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

type PhotoService interface {
	// Upload stores the file and records the photo against the lecturer.
	// Anyone may submit; the photo only becomes visible once approved.
	Upload(ctx context.Context, lecturerID uuid.UUID, filename string, file io.Reader) (*types.Photo, error)
	Get(ctx context.Context, lecturerID, photoID uuid.UUID, includeDeleted bool) (*types.Photo, error)
	ListApproved(ctx context.Context, lecturerID uuid.UUID) ([]*types.Photo, error)
	Review(ctx context.Context, lecturerID, photoID uuid.UUID, verdict moderation.Verdict) (*types.Photo, error)
	Delete(ctx context.Context, lecturerID, photoID uuid.UUID) error
	Unreviewed(ctx context.Context, p repos.ListParams) ([]*types.Photo, int64, error)
}

type photoService struct {
	db           *gorm.DB
	log          *logger.Logger
	engine       *moderation.Engine
	lecturerRepo repos.LecturerRepo
	photoRepo    repos.PhotoRepo
	bucket       BucketService
}

func NewPhotoService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *moderation.Engine,
	lecturerRepo repos.LecturerRepo,
	photoRepo repos.PhotoRepo,
	bucket BucketService,
) PhotoService {
	return &photoService{
		db:           db,
		log:          baseLog.With("service", "PhotoService"),
		engine:       engine,
		lecturerRepo: lecturerRepo,
		photoRepo:    photoRepo,
		bucket:       bucket,
	}
}

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

func (s *photoService) Upload(ctx context.Context, lecturerID uuid.UUID, filename string, file io.Reader) (*types.Photo, error) {
	if s.bucket == nil {
		return nil, apperr.Upstream(fmt.Errorf("photo storage is not configured"))
	}
	ext := strings.ToLower(path.Ext(filename))
	if !allowedPhotoExts[ext] {
		return nil, apperr.Validation("file", "unsupported image format")
	}

	if _, err := s.lecturerRepo.GetByID(ctx, nil, lecturerID, false); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("photos/%s/%s%s", lecturerID, uuid.New(), ext)
	if err := s.bucket.UploadFile(ctx, key, file); err != nil {
		return nil, apperr.Upstream(err)
	}

	photo := &types.Photo{
		ID:            uuid.New(),
		LecturerID:    lecturerID,
		Link:          s.bucket.GetPublicURL(key),
		ApproveStatus: s.engine.InitialStatus(moderation.KindPhoto),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.photoRepo.LinkExists(ctx, tx, photo.Link)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("photo with this link already exists")
		}
		return s.photoRepo.Create(ctx, tx, photo)
	})
	if err != nil {
		// the DB row is the source of truth; an orphaned object is cleaned up
		// best-effort here
		if delErr := s.bucket.DeleteFile(ctx, key); delErr != nil {
			s.log.Warn("Failed to remove orphaned photo object", "key", key, "error", delErr)
		}
		return nil, err
	}
	return photo, nil
}

func (s *photoService) Get(ctx context.Context, lecturerID, photoID uuid.UUID, includeDeleted bool) (*types.Photo, error) {
	return s.photoRepo.GetForLecturer(ctx, nil, lecturerID, photoID, includeDeleted)
}

func (s *photoService) ListApproved(ctx context.Context, lecturerID uuid.UUID) ([]*types.Photo, error) {
	if _, err := s.lecturerRepo.GetByID(ctx, nil, lecturerID, false); err != nil {
		return nil, err
	}
	return s.photoRepo.ListForLecturer(ctx, nil, lecturerID, moderation.StatusApproved)
}

func (s *photoService) Review(ctx context.Context, lecturerID, photoID uuid.UUID, verdict moderation.Verdict) (*types.Photo, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	var reviewed *types.Photo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photo, err := s.photoRepo.GetForLecturer(ctx, tx, lecturerID, photoID, false)
		if err != nil {
			return err
		}
		if err := s.engine.Review(photo, verdict); err != nil {
			return err
		}
		err = s.photoRepo.Update(ctx, tx, photoID, map[string]any{
			"approve_status": photo.ApproveStatus,
			"is_deleted":     photo.IsDeleted,
		})
		if err != nil {
			return err
		}
		reviewed = photo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (s *photoService) Delete(ctx context.Context, lecturerID, photoID uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.photoRepo.GetForLecturer(ctx, tx, lecturerID, photoID, false); err != nil {
			return err
		}
		if err := s.photoRepo.SoftDelete(ctx, tx, photoID); err != nil {
			return err
		}
		// a deleted photo can no longer serve as the avatar
		lecturer, err := s.lecturerRepo.GetByID(ctx, tx, lecturerID, false)
		if err != nil {
			return err
		}
		if lecturer.AvatarID != nil && *lecturer.AvatarID == photoID {
			return s.lecturerRepo.Update(ctx, tx, lecturerID, map[string]any{"avatar_id": nil})
		}
		return nil
	})
}

func (s *photoService) Unreviewed(ctx context.Context, p repos.ListParams) ([]*types.Photo, int64, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, 0, err
	}
	return s.photoRepo.ListUnreviewed(ctx, nil, p)
}
