package repository_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func checkSetShortLinkRecovers(t *testing.T, db *gorm.DB) {
	author := testhelpers.CreateUser(t, db)
	testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: author, ShortLink: "owned"})
	target := testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: author, ShortLink: "first"})
	repo := repository.NewRecipeRepository(db)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx repository.RecipeRepository) error {
		assert.ErrorIs(t, tx.SetShortLink(ctx, target.ID, "owned"), repository.ErrDuplicate)
		return tx.SetShortLink(ctx, target.ID, "fresh")
	})
	require.NoError(t, err)

	id, err := repo.IDByShortLink(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, target.ID, id)
}

func TestSetShortLinkRecoversInTransaction(t *testing.T) {
	checkSetShortLinkRecovers(t, testhelpers.SetupSQLite(t))
}

func TestSetShortLinkRecoversInTransactionPostgres(t *testing.T) {
	checkSetShortLinkRecovers(t, testhelpers.SetupTestDatabase(t))
}

func TestRecipeRepositoryCreateAndGet(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	author := testhelpers.CreateUser(t, db)
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	brunch := testhelpers.CreateTag(t, db, "Brunch", "brunch")
	repo := repository.NewRecipeRepository(db)
	ctx := context.Background()

	recipe := &models.Recipe{AuthorID: author.ID, Name: "Omelette", Image: "/media/x.png", Text: "Whisk.", CookingTime: 5}
	require.NoError(t, repo.Create(ctx, recipe, []models.Tag{*brunch}, []models.RecipeIngredient{{IngredientID: eggs.ID, Amount: 3}}))

	got, err := repo.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, author.Username, got.Author.Username)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "brunch", got.Tags[0].Slug)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "eggs", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 3, got.Ingredients[0].Amount)

	taken, err := repo.ShortLinkTaken(ctx, "nope0")
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.Get(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.IDByShortLink(ctx, "nope0")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIngredientRepositoryCountByIDs(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	a := testhelpers.CreateIngredient(t, db, "a", "g")
	b := testhelpers.CreateIngredient(t, db, "b", "g")
	repo := repository.NewIngredientRepository(db)

	n, err := repo.CountByIDs(context.Background(), []uint{a.ID, b.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTagRepositoryFindByIDs(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	x := testhelpers.CreateTag(t, db, "X", "x")
	y := testhelpers.CreateTag(t, db, "Y", "y")
	repo := repository.NewTagRepository(db)

	tags, err := repo.FindByIDs(context.Background(), []uint{y.ID, x.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{*x, *y}, tags)
}
