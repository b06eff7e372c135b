package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	follower := testhelpers.CreateUser(t, db)
	author := testhelpers.CreateUser(t, db)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	first := testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: author, PublishedAt: base})
	testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: author, PublishedAt: base.Add(time.Hour)})
	testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: author, PublishedAt: base.Add(2 * time.Hour)})
	svc := service.NewSubscriptionService(db)

	view, err := svc.Subscribe(context.Background(), follower.ID, author.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, author.ID, view.ID)
	assert.True(t, view.IsSubscribed)
	assert.Equal(t, int64(3), view.RecipesCount)
	require.Len(t, view.Recipes, 1)
	assert.Equal(t, first.ID, view.Recipes[0].ID)
}

func TestSubscribeRejections(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	follower := testhelpers.CreateUser(t, db)
	author := testhelpers.CreateUser(t, db)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, follower.ID, follower.ID, -1)
	assert.Contains(t, fields(t, err), "errors")

	_, err = svc.Subscribe(ctx, follower.ID, 9999, -1)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Subscribe(ctx, follower.ID, author.ID, -1)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, follower.ID, author.ID, -1)
	assert.Contains(t, fields(t, err), "errors")
	assert.Equal(t, int64(1), count(t, db, "subscriptions"))
}

func TestUnsubscribe(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	follower := testhelpers.CreateUser(t, db)
	author := testhelpers.CreateUser(t, db)
	testhelpers.Subscribe(t, db, follower, author)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	require.NoError(t, svc.Unsubscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, follower.ID, author.ID), service.ErrNotMember)
	assert.ErrorIs(t, svc.Unsubscribe(ctx, follower.ID, 9999), service.ErrNotFound)
}

func TestListSubscriptions(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	follower := testhelpers.CreateUser(t, db)
	a := testhelpers.CreateUser(t, db)
	b := testhelpers.CreateUser(t, db)
	c := testhelpers.CreateUser(t, db)
	testhelpers.CreateUser(t, db)
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, db, testhelpers.RecipeFixture{Author: a})
	}
	testhelpers.Subscribe(t, db, follower, c)
	testhelpers.Subscribe(t, db, follower, a)
	testhelpers.Subscribe(t, db, follower, b)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	views, total, err := svc.ListSubscriptions(ctx, follower.ID, types.PageParams{Page: 1, Limit: 2}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, views, 2)
	assert.Equal(t, a.ID, views[0].ID)
	assert.Equal(t, b.ID, views[1].ID)
	assert.Equal(t, int64(3), views[0].RecipesCount)
	assert.Len(t, views[0].Recipes, 2)
	assert.Empty(t, views[1].Recipes)
	assert.NotNil(t, views[1].Recipes)

	views, _, err = svc.ListSubscriptions(ctx, follower.ID, types.PageParams{Page: 1, Limit: 10}, -1)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Len(t, views[0].Recipes, 3)

	views, total, err = svc.ListSubscriptions(ctx, a.ID, firstPage(10), -1)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, views)
}
