package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// CatalogService serves the read-only ingredient and tag dictionaries
type CatalogService struct {
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
}

func NewCatalogService(ingredients repository.IngredientRepository, tags repository.TagRepository) *CatalogService {
	return &CatalogService{ingredients: ingredients, tags: tags}
}

// ListIngredients returns ingredients whose name starts with prefix,
// case-insensitively, ordered by name
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx, prefix)
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.Get(ctx, id)
	return ingredient, notFound(err)
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tags.Get(ctx, id)
	return tag, notFound(err)
}

// ImportIngredients inserts ingredients, skipping (name, unit) pairs that
// already exist. It returns the number of rows inserted.
func (s *CatalogService) ImportIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	return s.ingredients.Import(ctx, ingredients)
}
