package service_test

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/pageza/foodgram/backend/internal/cache"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9]{5}$`)

// sequence yields codes in order and repeats the last one
func sequence(codes ...string) (service.CodeGenerator, *int) {
	calls := 0
	return func() (string, error) {
		i := calls
		if i >= len(codes) {
			i = len(codes) - 1
		}
		calls++
		return codes[i], nil
	}, &calls
}

// recipeWithoutLink creates a recipe and strips its short link
func recipeWithoutLink(t *testing.T, db *gorm.DB) *models.Recipe {
	t.Helper()
	recipe := testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: testhelpers.CreateUser(t, db)})
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("short_link", nil).Error)
	recipe.ShortLink = ""
	return recipe
}

func storedLink(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var recipe models.Recipe
	require.NoError(t, db.Select("short_link").First(&recipe, id).Error)
	return recipe.ShortLink
}

func TestGenerateShortCode(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := service.GenerateShortCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	}
}

func TestShortLinkAssignedLazily(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	recipe := recipeWithoutLink(t, db)
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil)

	code, err := svc.Code(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
	assert.Equal(t, code, storedLink(t, db, recipe.ID))

	again, err := svc.Code(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestShortLinkUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil)

	_, err := svc.Code(context.Background(), 4242)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestShortLinkRetriesOnCollision(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: testhelpers.CreateUser(t, db), ShortLink: "AAAAA"})
	recipe := recipeWithoutLink(t, db)

	gen, calls := sequence("AAAAA", "AAAAA", "BBBBB")
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil).WithGenerator(gen)
	before := testutil.ToFloat64(metrics.ShortLinkCollisions)

	code, err := svc.Code(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "BBBBB", code)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ShortLinkCollisions)-before)
}

// racingRepo claims every code is free but rejects the first writes, as if
// another transaction took the code in between
type racingRepo struct {
	repository.RecipeRepository
	rejections int
}

func (r *racingRepo) ShortLinkTaken(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (r *racingRepo) SetShortLink(ctx context.Context, id uint, code string) error {
	if r.rejections > 0 {
		r.rejections--
		return repository.ErrDuplicate
	}
	return r.RecipeRepository.SetShortLink(ctx, id, code)
}

func TestShortLinkRetriesOnWriteConflict(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	recipe := recipeWithoutLink(t, db)

	gen, _ := sequence("CCCCC", "DDDDD", "EEEEE")
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil).WithGenerator(gen)
	repo := &racingRepo{RecipeRepository: repository.NewRecipeRepository(db), rejections: 2}

	require.NoError(t, svc.Assign(context.Background(), repo, recipe))
	assert.Equal(t, "EEEEE", recipe.ShortLink)
	assert.Equal(t, "EEEEE", storedLink(t, db, recipe.ID))
}

func TestShortLinkExhausted(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: testhelpers.CreateUser(t, db), ShortLink: "AAAAA"})
	recipe := recipeWithoutLink(t, db)

	gen, calls := sequence("AAAAA")
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil).WithGenerator(gen)

	_, err := svc.Code(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, service.ErrShortLinkExhausted)
	assert.Equal(t, 10, *calls)
	assert.Empty(t, storedLink(t, db, recipe.ID))
}

func TestShortLinkAssignKeepsExistingCode(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	recipe := testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: testhelpers.CreateUser(t, db), ShortLink: "keep1"})

	gen, calls := sequence("ZZZZZ")
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil).WithGenerator(gen)

	require.NoError(t, svc.Assign(context.Background(), repository.NewRecipeRepository(db), recipe))
	assert.Equal(t, "keep1", recipe.ShortLink)
	assert.Zero(t, *calls)
}

func TestShortLinkResolve(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	recipe := testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: testhelpers.CreateUser(t, db), ShortLink: "Ab3dE"})
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), nil)

	id, err := svc.Resolve(context.Background(), "Ab3dE")
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, id)

	_, err = svc.Resolve(context.Background(), "ab3de")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Resolve(context.Background(), "toolong")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestShortLinkResolveUsesCache(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	recipe := testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: testhelpers.CreateUser(t, db), ShortLink: "c4che"})
	id := strconv.FormatUint(uint64(recipe.ID), 10)

	store := new(testhelpers.MockCache)
	store.On("Get", mock.Anything, "shortlink:c4che").Return("", cache.ErrMiss).Once()
	store.On("Set", mock.Anything, "shortlink:c4che", id, 24*time.Hour).Return(nil).Once()
	store.On("Get", mock.Anything, "shortlink:c4che").Return(id, nil).Once()
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), store)

	hits := testutil.ToFloat64(metrics.ShortLinkCacheHits)
	misses := testutil.ToFloat64(metrics.ShortLinkCacheMisses)

	got, err := svc.Resolve(context.Background(), "c4che")
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got)

	got, err = svc.Resolve(context.Background(), "c4che")
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got)

	store.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ShortLinkCacheHits)-hits)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ShortLinkCacheMisses)-misses)
}

func TestShortLinkInvalidate(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	store := new(testhelpers.MockCache)
	store.On("Delete", mock.Anything, []string{"shortlink:gone1"}).Return(nil).Once()
	svc := service.NewShortLinkService(repository.NewRecipeRepository(db), store)

	svc.Invalidate(context.Background(), "gone1")
	svc.Invalidate(context.Background(), "")

	store.AssertExpectations(t)
}
