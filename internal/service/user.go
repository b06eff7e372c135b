package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// UserService serves user profiles and avatars
type UserService struct {
	db     *gorm.DB
	images *ImageService
}

func NewUserService(db *gorm.DB, images *ImageService) *UserService {
	return &UserService{db: db, images: images}
}

// ListUsers returns one page of users ordered by id
func (s *UserService) ListUsers(ctx context.Context, viewerID *uint, page types.PageParams) ([]types.UserView, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	views, err := userViews(ctx, s.db, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetUser returns the profile of id as seen by viewerID
func (s *UserService) GetUser(ctx context.Context, viewerID *uint, id uint) (*types.UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := userViews(ctx, s.db, viewerID, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// SetAvatar stores a new avatar and drops the previous one
func (s *UserService) SetAvatar(ctx context.Context, userID uint, raw string) (string, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return "", err
	}

	previous := user.Avatar
	url, err := s.images.Upload(ctx, "users/avatars", "avatar", raw)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		s.images.Remove(ctx, url)
		return "", err
	}
	s.images.Remove(ctx, previous)
	return url, nil
}

// DeleteAvatar clears the avatar
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}
	previous := user.Avatar
	if previous == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", "").Error; err != nil {
		return err
	}
	s.images.Remove(ctx, previous)
	return nil
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
