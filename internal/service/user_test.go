package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	viewer := testhelpers.CreateUser(t, db)
	followed := testhelpers.CreateUser(t, db)
	testhelpers.CreateUser(t, db)
	testhelpers.Subscribe(t, db, viewer, followed)
	svc := service.NewUserService(db, service.NewImageService(testhelpers.NewImageStore()))
	ctx := context.Background()

	views, total, err := svc.ListUsers(ctx, &viewer.ID, types.PageParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, views, 2)
	assert.Equal(t, viewer.ID, views[0].ID)
	assert.False(t, views[0].IsSubscribed)
	assert.True(t, views[1].IsSubscribed)
	assert.Nil(t, views[1].Avatar)

	views, _, err = svc.ListUsers(ctx, nil, types.PageParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsSubscribed)
}

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	svc := service.NewUserService(db, service.NewImageService(testhelpers.NewImageStore()))

	view, err := svc.GetUser(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, view.Username)
	assert.Equal(t, user.Email, view.Email)

	_, err = svc.GetUser(context.Background(), nil, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAvatarLifecycle(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	images := testhelpers.NewImageStore()
	svc := service.NewUserService(db, service.NewImageService(images))
	ctx := context.Background()

	first, err := svc.SetAvatar(ctx, user.ID, testhelpers.PixelPNG)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "/media/users/avatars/"), first)
	images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	second, err := svc.SetAvatar(ctx, user.ID, testhelpers.PixelPNG)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	images.AssertCalled(t, "Delete", mock.Anything, first)

	view, err := svc.GetUser(ctx, nil, user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Avatar)
	assert.Equal(t, second, *view.Avatar)

	require.NoError(t, svc.DeleteAvatar(ctx, user.ID))
	images.AssertCalled(t, "Delete", mock.Anything, second)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Empty(t, stored.Avatar)

	// nothing left to remove
	require.NoError(t, svc.DeleteAvatar(ctx, user.ID))
	images.AssertNumberOfCalls(t, "Delete", 2)
}

func TestSetAvatarRejectsNonImage(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	svc := service.NewUserService(db, service.NewImageService(new(testhelpers.MockImageStore)))

	_, err := svc.SetAvatar(context.Background(), user.ID, "not base64 at all")
	assert.Contains(t, fields(t, err), "avatar")
}
