package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// ListKind selects the per-user recipe list a membership belongs to
type ListKind int

const (
	Favorites ListKind = iota
	ShoppingCart
)

func (k ListKind) String() string {
	if k == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

func (k ListKind) row(userID, recipeID uint) interface{} {
	if k == ShoppingCart {
		return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	}
	return &models.Favorite{UserID: userID, RecipeID: recipeID}
}

// MembershipService manages favorites and shopping cart entries
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// Add puts a recipe on the user's list. ErrNotFound if the recipe is
// missing, ErrAlreadyExists if it is already there.
func (s *MembershipService) Add(ctx context.Context, kind ListKind, userID, recipeID uint) (*types.RecipeShort, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.exists(ctx, kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("recipe is already in %s: %w", kind, ErrAlreadyExists)
	}

	if err := s.db.WithContext(ctx).Create(kind.row(userID, recipeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("recipe is already in %s: %w", kind, ErrAlreadyExists)
		}
		return nil, err
	}

	short := types.NewRecipeShort(recipe)
	return &short, nil
}

// Remove takes a recipe off the user's list. ErrNotFound if the recipe is
// missing, ErrNotMember if it was never added.
func (s *MembershipService) Remove(ctx context.Context, kind ListKind, userID, recipeID uint) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(kind.row(0, 0))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipe is not in %s: %w", kind, ErrNotMember)
	}
	return nil
}

func (s *MembershipService) exists(ctx context.Context, kind ListKind, userID, recipeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(kind.row(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (s *MembershipService) recipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id", "name", "image", "cooking_time").First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
