package service

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/oss"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

var ErrInvalidAvatarFormat = errors.New("format d'avatar non supporté")

type UserService struct {
	userRepo   *repository.UserRepository
	premiumSvc *PremiumService
	ossClient  *oss.Client
}

func NewUserService(userRepo *repository.UserRepository, premiumSvc *PremiumService, ossClient *oss.Client) *UserService {
	return &UserService{
		userRepo:   userRepo,
		premiumSvc: premiumSvc,
		ossClient:  ossClient,
	}
}

// GetProfile returns the profile with the premium status re-derived from the
// subscription ledger, not the cached flag.
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := buildUserInfo(user)
	premium, err := s.premiumSvc.Status(userID)
	if err != nil {
		return nil, err
	}
	info.Premium = premium
	return info, nil
}

func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = *req.Username
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.GetProfile(userID)
}

// UploadAvatar stores the image on OSS and points the profile at it.
func (s *UserService) UploadAvatar(userID int64, filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", ErrInvalidAvatarFormat
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	url, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"avatar_url": url,
	}); err != nil {
		return "", err
	}

	return url, nil
}
