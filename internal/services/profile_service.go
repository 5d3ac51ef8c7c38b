package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/repository"
)

var ErrStorageUnavailable = errors.New("storage service is not configured")

type ProfileService struct {
	profileRepo *repository.ProfileRepository
	storage     StorageService
}

func NewProfileService(profileRepo *repository.ProfileRepository, storage StorageService) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateDisplayName(ctx context.Context, userID int64, displayName string) (*models.Profile, error) {
	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: display_name must not be empty", ErrValidation)
	}

	profile, err := s.profileRepo.UpdateDisplayName(ctx, userID, trimmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

// UploadAvatar stores the image keyed by user id and records its public
// URL on the profile.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID int64, file multipart.File, filename string) (*models.Profile, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, fmt.Errorf("%w: unsupported avatar format %q", ErrValidation, ext)
	}

	current, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile", ErrNotFound)
		}
		return nil, err
	}

	objectName := fmt.Sprintf("%d%s", userID, ext)
	avatarURL, err := s.storage.UploadFile(ctx, file, objectName, "avatars")
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.UpdateAvatarURL(ctx, userID, avatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile", ErrNotFound)
		}
		return nil, err
	}

	// A changed extension leaves the previous object behind; remove it.
	if current.AvatarURL != nil && *current.AvatarURL != avatarURL {
		if err := s.storage.DeleteFile(ctx, *current.AvatarURL); err != nil {
			log.Printf("failed to delete previous avatar for user %d: %v", userID, err)
		}
	}
	return profile, nil
}
