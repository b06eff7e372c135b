package service_test

import (
	"errors"
	"testing"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

func newRecipeService(t *testing.T, db *gorm.DB, images storage.ImageStore) *service.RecipeService {
	t.Helper()
	recipes := repository.NewRecipeRepository(db)
	return service.NewRecipeService(
		db,
		recipes,
		repository.NewIngredientRepository(db),
		repository.NewTagRepository(db),
		service.NewShortLinkService(recipes, nil),
		service.NewImageService(images),
	)
}

func ptr[T any](v T) *T {
	return &v
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return verr.Fields
}

func firstPage(limit int) types.PageParams {
	return types.PageParams{Page: 1, Limit: limit}
}
