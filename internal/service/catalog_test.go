package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalog(db *gorm.DB) *service.CatalogService {
	return service.NewCatalogService(repository.NewIngredientRepository(db), repository.NewTagRepository(db))
}

func ingredientNames(items []models.Ingredient) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}

func TestListIngredientsByPrefix(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	testhelpers.CreateIngredient(t, db, "sugar", "g")
	testhelpers.CreateIngredient(t, db, "salt", "g")
	testhelpers.CreateIngredient(t, db, "brown sugar", "g")
	testhelpers.CreateIngredient(t, db, "semolina", "g")
	testhelpers.CreateIngredient(t, db, "50% cream", "ml")
	svc := newCatalog(db)
	ctx := context.Background()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"50% cream", "brown sugar", "salt", "semolina", "sugar"}},
		{"s", []string{"salt", "semolina", "sugar"}},
		{"SU", []string{"sugar"}},
		{"sugar", []string{"sugar"}},
		{"50%", []string{"50% cream"}},
		{"%", []string{}},
		{"x", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			items, err := svc.ListIngredients(ctx, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ingredientNames(items))
		})
	}
}

func TestCatalogLookups(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	lunch := testhelpers.CreateTag(t, db, "Lunch", "lunch")
	testhelpers.CreateTag(t, db, "Breakfast", "breakfast")
	svc := newCatalog(db)
	ctx := context.Background()

	got, err := svc.GetIngredient(ctx, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, *flour, *got)

	_, err = svc.GetIngredient(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	tag, err := svc.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", tag.Slug)

	_, err = svc.GetTag(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
}

func TestImportIngredients(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	testhelpers.CreateIngredient(t, db, "flour", "g")
	svc := newCatalog(db)

	inserted, err := svc.ImportIngredients(context.Background(), []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "kg"},
		{Name: "milk", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.Equal(t, int64(3), count(t, db, "ingredients"))

	inserted, err = svc.ImportIngredients(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}
