package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// idSet loads the recipe or author ids a viewer is linked to through model,
// restricted to candidates
func idSet(ctx context.Context, db *gorm.DB, model interface{}, column string, viewerID uint, candidates []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if len(candidates) == 0 {
		return set, nil
	}
	var ids []uint
	err := db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+column+" IN ?", viewerID, candidates).
		Pluck(column, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// subscribedAuthors reports which of authorIDs the viewer follows
func subscribedAuthors(ctx context.Context, db *gorm.DB, viewerID *uint, authorIDs []uint) (map[uint]bool, error) {
	if viewerID == nil {
		return map[uint]bool{}, nil
	}
	return idSet(ctx, db, &models.Subscription{}, "author_id", *viewerID, authorIDs)
}

// userViews converts users for a viewer, nil for anonymous
func userViews(ctx context.Context, db *gorm.DB, viewerID *uint, users []models.User) ([]types.UserView, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := subscribedAuthors(ctx, db, viewerID, ids)
	if err != nil {
		return nil, err
	}
	views := make([]types.UserView, len(users))
	for i := range users {
		views[i] = types.NewUserView(&users[i], subscribed[users[i].ID])
	}
	return views, nil
}

// recipeViews converts preloaded recipes for a viewer, nil for anonymous
func recipeViews(ctx context.Context, db *gorm.DB, viewerID *uint, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited := map[uint]bool{}
	inCart := map[uint]bool{}
	if viewerID != nil {
		var err error
		if favorited, err = idSet(ctx, db, &models.Favorite{}, "recipe_id", *viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = idSet(ctx, db, &models.ShoppingCart{}, "recipe_id", *viewerID, recipeIDs); err != nil {
			return nil, err
		}
	}
	subscribed, err := subscribedAuthors(ctx, db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		ingredients := make([]types.RecipeIngredientView, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		views[i] = types.RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           types.NewUserView(&r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return views, nil
}
