// Package api holds the gin handlers of the JSON API.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services are the collaborators behind the handlers
type Services struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Recipes       service.IRecipeService
	Memberships   service.IMembershipService
	Subscriptions service.ISubscriptionService
	ShoppingList  service.IShoppingListService
	ShortLinks    service.IShortLinkService
	Catalog       service.ICatalogService
}

// Options tune the handlers
type Options struct {
	PublicURL     string
	PageSize      int
	CreateLimiter *middleware.RateLimiter
}

// SetupAPI mounts /api and the /s/<code> redirect on router
func SetupAPI(router *gin.Engine, svc Services, opts Options) {
	registerValidators()
	if opts.PageSize <= 0 {
		opts.PageSize = 6
	}

	api := router.Group("/api")
	{
		NewAuthHandler(svc.Auth).RegisterRoutes(api)
		NewUserHandler(svc.Auth, svc.Users, svc.Subscriptions, opts.PageSize).RegisterRoutes(api)
		NewRecipeHandler(RecipeHandlerConfig{
			AuthService:       svc.Auth,
			RecipeService:     svc.Recipes,
			MembershipService: svc.Memberships,
			ShoppingList:      svc.ShoppingList,
			CreateLimiter:     opts.CreateLimiter,
			PublicURL:         opts.PublicURL,
			PageSize:          opts.PageSize,
		}).RegisterRoutes(api)
		NewCatalogHandler(svc.Catalog).RegisterRoutes(api)
	}

	NewShortLinkHandler(svc.ShortLinks).RegisterRoutes(router)
}
