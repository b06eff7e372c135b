package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows the recipe list. The membership filters only apply
// when ViewerID is set.
type RecipeFilter struct {
	Tags             []string
	AuthorID         *uint
	IsFavorited      *bool
	IsInShoppingCart *bool
	ViewerID         *uint
}

// RecipeRepository persists recipes together with their tag and ingredient
// links
type RecipeRepository interface {
	// Transaction runs fn against a repository bound to one transaction
	Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error

	// Get loads a recipe with author, tags and ingredients
	Get(ctx context.Context, id uint) (*models.Recipe, error)
	// Find loads the recipe row only
	Find(ctx context.Context, id uint) (*models.Recipe, error)
	// List returns one window of filtered recipes, oldest first, plus the
	// total number of matches
	List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)

	Create(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error
	// Update rewrites the editable columns and replaces every link
	Update(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error
	// Delete removes the recipe and every row referencing it
	Delete(ctx context.Context, recipe *models.Recipe) error

	ShortLinkTaken(ctx context.Context, code string) (bool, error)
	// SetShortLink stores code for the recipe. A code already owned by
	// another recipe yields ErrDuplicate and leaves the transaction usable.
	SetShortLink(ctx context.Context, id uint, code string) error
	IDByShortLink(ctx context.Context, code string) (uint, error)
}

type recipeRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx, inTx: true})
	})
}

func (r *recipeRepository) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preload(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) Find(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	if len(filter.Tags) > 0 {
		cond := r.db.Where("LOWER(tags.slug) LIKE ? ESCAPE '\\'", likePattern("%", filter.Tags[0], "%"))
		for _, tag := range filter.Tags[1:] {
			cond = cond.Or("LOWER(tags.slug) LIKE ? ESCAPE '\\'", likePattern("%", tag, "%"))
		}
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where(cond)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if filter.ViewerID != nil {
		query = r.membership(query, &models.Favorite{}, *filter.ViewerID, filter.IsFavorited)
		query = r.membership(query, &models.ShoppingCart{}, *filter.ViewerID, filter.IsInShoppingCart)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	recipes := []models.Recipe{}
	err := preload(query).
		Order("recipes.published_at ASC, recipes.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

func (r *recipeRepository) membership(query *gorm.DB, model interface{}, viewerID uint, want *bool) *gorm.DB {
	if want == nil {
		return query
	}
	members := r.db.Model(model).Select("recipe_id").Where("user_id = ?", viewerID)
	if *want {
		return query.Where("recipes.id IN (?)", members)
	}
	return query.Where("recipes.id NOT IN (?)", members)
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", translate(err))
	}
	return writeLinks(db, recipe, tags, ingredients)
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	err := db.Model(recipe).
		Select("name", "text", "cooking_time", "image", "updated_at").
		Updates(recipe).Error
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := db.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	return writeLinks(db, recipe, tags, ingredients)
}

func writeLinks(db *gorm.DB, recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	if err := db.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to set recipe tags: %w", err)
	}
	for i := range ingredients {
		ingredients[i].RecipeID = recipe.ID
	}
	if len(ingredients) == 0 {
		return nil
	}
	if err := db.Omit(clause.Associations).Create(&ingredients).Error; err != nil {
		return fmt.Errorf("failed to set recipe ingredients: %w", err)
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func (r *recipeRepository) ShortLinkTaken(ctx context.Context, code string) (bool, error) {
	var taken int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("short_link = ?", code).Count(&taken).Error
	return taken > 0, err
}

func (r *recipeRepository) SetShortLink(ctx context.Context, id uint, code string) error {
	const savepoint = "short_link"
	db := r.db.WithContext(ctx)

	// postgres aborts the whole transaction on a unique violation
	if r.inTx {
		if err := db.SavePoint(savepoint).Error; err != nil {
			return err
		}
	}
	err := db.Model(&models.Recipe{}).Where("id = ?", id).Update("short_link", code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if r.inTx {
			if err := db.RollbackTo(savepoint).Error; err != nil {
				return err
			}
		}
		return ErrDuplicate
	}
	return err
}

func (r *recipeRepository) IDByShortLink(ctx context.Context, code string) (uint, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Select("id").Where("short_link = ?", code).First(&recipe).Error; err != nil {
		return 0, translate(err)
	}
	return recipe.ID, nil
}

// preload adds the associations a full recipe view needs
func preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.id") }).
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB { return tx.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}
