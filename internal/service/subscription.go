package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// SubscriptionService manages follower to author links
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes followerID follow authorID. recipesLimit < 0 means all
// recipes in the returned preview.
func (s *SubscriptionService) Subscribe(ctx context.Context, followerID, authorID uint, recipesLimit int) (*types.SubscriptionView, error) {
	author, err := s.user(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if followerID == authorID {
		return nil, FieldError("errors", "You cannot subscribe to yourself.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, FieldError("errors", "You are already subscribed to this author.")
	}

	err = s.db.WithContext(ctx).Create(&models.Subscription{UserID: followerID, AuthorID: authorID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, FieldError("errors", "You are already subscribed to this author.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	views, err := s.subscriptionViews(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unsubscribe removes the link. ErrNotFound if the author is missing,
// ErrNotMember if there was no subscription.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, followerID, authorID uint) error {
	if _, err := s.user(ctx, authorID); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not subscribed to author %d: %w", authorID, ErrNotMember)
	}
	return nil
}

// ListSubscriptions returns one page of the authors followerID follows
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, followerID uint, page types.PageParams, recipesLimit int) ([]types.SubscriptionView, int64, error) {
	authors := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN (?)", s.db.Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", followerID)).
		Session(&gorm.Session{})

	var total int64
	if err := authors.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := authors.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	views, err := s.subscriptionViews(ctx, users, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// subscriptionViews builds views for authors the caller is known to follow
func (s *SubscriptionService) subscriptionViews(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	views := make([]types.SubscriptionView, len(authors))
	for i := range authors {
		author := &authors[i]

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
			return nil, err
		}

		query := s.db.WithContext(ctx).
			Select("id", "name", "image", "cooking_time").
			Where("author_id = ?", author.ID).
			Order("published_at ASC, id ASC")
		if recipesLimit >= 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, err
		}

		shorts := make([]types.RecipeShort, len(recipes))
		for j := range recipes {
			shorts[j] = types.NewRecipeShort(&recipes[j])
		}

		views[i] = types.SubscriptionView{
			UserView:     types.NewUserView(author, true),
			RecipesCount: count,
			Recipes:      shorts,
		}
	}
	return views, nil
}

func (s *SubscriptionService) user(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
