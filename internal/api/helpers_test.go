package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testPublicURL = "http://foodgram.test"

// testAPI is the full handler stack on an in-memory database
type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
	images *testhelpers.MockImageStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	images := testhelpers.NewImageStore()
	imageService := service.NewImageService(images)

	recipes := repository.NewRecipeRepository(db)
	ingredients := repository.NewIngredientRepository(db)
	tags := repository.NewTagRepository(db)
	shortLinks := service.NewShortLinkService(recipes, nil)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)

	router := gin.New()
	SetupAPI(router, Services{
		Auth:          auth,
		Users:         service.NewUserService(db, imageService),
		Recipes:       service.NewRecipeService(db, recipes, ingredients, tags, shortLinks, imageService),
		Memberships:   service.NewMembershipService(db),
		Subscriptions: service.NewSubscriptionService(db),
		ShoppingList:  service.NewShoppingListService(db),
		ShortLinks:    shortLinks,
		Catalog:       service.NewCatalogService(ingredients, tags),
	}, Options{PublicURL: testPublicURL, PageSize: 6})

	return &testAPI{t: t, db: db, router: router, auth: auth, images: images}
}

// do sends body as JSON, authenticated as user when it is not nil
func (a *testAPI) do(method, path string, body any, user *models.User) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(a.t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, err := a.auth.GenerateToken(user.ID)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// request sends an empty request with a raw Authorization header
func (a *testAPI) request(method, path, authorization string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authorization)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// fieldErrors decodes a validation body
func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	return decode[map[string][]string](t, w)
}
