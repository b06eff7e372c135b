package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// RecipeFilter narrows the recipe list. The membership filters only apply to
// an authenticated viewer.
type RecipeFilter struct {
	Tags             []string
	AuthorID         *uint
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// RecipeService handles recipe operations
type RecipeService struct {
	db          *gorm.DB
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	shortLinks  *ShortLinkService
	images      *ImageService
	now         func() time.Time
}

// NewRecipeService creates a new RecipeService instance. db is used for the
// viewer flags on returned recipes.
func NewRecipeService(
	db *gorm.DB,
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	tags repository.TagRepository,
	shortLinks *ShortLinkService,
	images *ImageService,
) *RecipeService {
	return &RecipeService{
		db:          db,
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		shortLinks:  shortLinks,
		images:      images,
		now:         time.Now,
	}
}

// ListRecipes returns one page of recipes ordered by publication time
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID *uint, filter RecipeFilter, page types.PageParams) ([]types.RecipeView, int64, error) {
	recipes, total, err := s.recipes.List(ctx, repository.RecipeFilter{
		Tags:             filter.Tags,
		AuthorID:         filter.AuthorID,
		IsFavorited:      filter.IsFavorited,
		IsInShoppingCart: filter.IsInShoppingCart,
		ViewerID:         viewerID,
	}, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}

	views, err := recipeViews(ctx, s.db, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, viewerID *uint, id uint) (*types.RecipeView, error) {
	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	views, err := recipeViews(ctx, s.db, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// CreateRecipe validates input, stores the image and writes the recipe with
// its tags, ingredients and short link in one transaction
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, input *types.RecipeInput) (*types.RecipeView, error) {
	tags, err := s.validateInput(ctx, input, true)
	if err != nil {
		return nil, err
	}

	image, err := s.images.Upload(ctx, "recipes/images", "image", *input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		PublishedAt: s.now(),
	}

	err = s.recipes.Transaction(ctx, func(repo repository.RecipeRepository) error {
		if err := repo.Create(ctx, &recipe, tags, ingredientRows(input.Ingredients)); err != nil {
			return err
		}
		return s.shortLinks.Assign(ctx, repo, &recipe)
	})
	if err != nil {
		s.images.Remove(ctx, image)
		return nil, err
	}

	metrics.RecipesCreated.Inc()
	logging.Ctx(ctx).Info().
		Uint("recipe_id", recipe.ID).
		Uint("author_id", authorID).
		Str("short_link", recipe.ShortLink).
		Msg("recipe created")

	return s.GetRecipe(ctx, &authorID, recipe.ID)
}

// UpdateRecipe replaces the recipe fields, tags and ingredients. Only the
// author may update. The short link is left untouched.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uint, input *types.RecipeInput) (*types.RecipeView, error) {
	recipe, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.validateInput(ctx, input, false)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if input.Image != nil && *input.Image != "" {
		if newImage, err = s.images.Upload(ctx, "recipes/images", "image", *input.Image); err != nil {
			return nil, err
		}
		recipe.Image = newImage
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime

	err = s.recipes.Transaction(ctx, func(repo repository.RecipeRepository) error {
		return repo.Update(ctx, recipe, tags, ingredientRows(input.Ingredients))
	})
	if err != nil {
		s.images.Remove(ctx, newImage)
		return nil, err
	}
	if newImage != "" {
		s.images.Remove(ctx, oldImage)
	}

	return s.GetRecipe(ctx, &userID, recipe.ID)
}

func ingredientRows(ingredients []types.IngredientAmount) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, len(ingredients))
	for i, in := range ingredients {
		rows[i] = models.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount}
	}
	return rows
}

// DeleteRecipe removes a recipe owned by userID
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uint) error {
	recipe, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipe); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.shortLinks.Invalidate(ctx, recipe.ShortLink)
	s.images.Remove(ctx, recipe.Image)
	return nil
}

func (s *RecipeService) owned(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.Find(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

// ShortLink returns the short code of a recipe
func (s *RecipeService) ShortLink(ctx context.Context, id uint) (string, error) {
	return s.shortLinks.Code(ctx, id)
}

// validateInput checks everything that can be checked before writing and
// returns the referenced tags
func (s *RecipeService) validateInput(ctx context.Context, input *types.RecipeInput, creating bool) ([]models.Tag, error) {
	verr := NewValidationError()

	if creating && (input.Image == nil || *input.Image == "") {
		verr.Add("image", "This field is required.")
	}
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "This field may not be blank.")
	} else if utf8.RuneCountInString(input.Name) > models.RecipeNameMaxLength {
		verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", models.RecipeNameMaxLength))
	}
	if strings.TrimSpace(input.Text) == "" {
		verr.Add("text", "This field may not be blank.")
	}
	if input.CookingTime < models.MinAmount || input.CookingTime > models.MaxAmount {
		verr.Add("cooking_time", fmt.Sprintf("Cooking time must be between %d and %d.", models.MinAmount, models.MaxAmount))
	}

	ingredientIDs := make([]uint, 0, len(input.Ingredients))
	if len(input.Ingredients) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
	} else {
		seen := make(map[uint]bool, len(input.Ingredients))
		for _, in := range input.Ingredients {
			if seen[in.ID] {
				verr.Add("ingredients", "Ingredients must not repeat.")
				break
			}
			seen[in.ID] = true
			ingredientIDs = append(ingredientIDs, in.ID)
		}
		for _, in := range input.Ingredients {
			if in.Amount < models.MinAmount || in.Amount > models.MaxAmount {
				verr.Add("ingredients", fmt.Sprintf("Amount must be between %d and %d.", models.MinAmount, models.MaxAmount))
				break
			}
		}
	}

	tagIDs := make([]uint, 0, len(input.Tags))
	if len(input.Tags) == 0 {
		verr.Add("tags", "At least one tag is required.")
	} else {
		seen := make(map[uint]bool, len(input.Tags))
		for _, id := range input.Tags {
			if seen[id] {
				verr.Add("tags", "Tags must not repeat.")
				break
			}
			seen[id] = true
			tagIDs = append(tagIDs, id)
		}
	}

	if len(ingredientIDs) > 0 {
		found, err := s.ingredients.CountByIDs(ctx, uniqueIDs(ingredientIDs))
		if err != nil {
			return nil, err
		}
		if found != int64(len(uniqueIDs(ingredientIDs))) {
			verr.Add("ingredients", "Unknown ingredient.")
		}
	}

	var tags []models.Tag
	if len(tagIDs) > 0 {
		var err error
		if tags, err = s.tags.FindByIDs(ctx, uniqueIDs(tagIDs)); err != nil {
			return nil, err
		}
		if len(tags) != len(uniqueIDs(tagIDs)) {
			verr.Add("tags", "Unknown tag.")
		}
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
