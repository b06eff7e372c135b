package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, userID uint, current, next string) error
}

// IUserService defines the interface for user profile operations
type IUserService interface {
	ListUsers(ctx context.Context, viewerID *uint, page types.PageParams) ([]types.UserView, int64, error)
	GetUser(ctx context.Context, viewerID *uint, id uint) (*types.UserView, error)
	SetAvatar(ctx context.Context, userID uint, raw string) (string, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, viewerID *uint, filter RecipeFilter, page types.PageParams) ([]types.RecipeView, int64, error)
	GetRecipe(ctx context.Context, viewerID *uint, id uint) (*types.RecipeView, error)
	CreateRecipe(ctx context.Context, authorID uint, input *types.RecipeInput) (*types.RecipeView, error)
	UpdateRecipe(ctx context.Context, userID, id uint, input *types.RecipeInput) (*types.RecipeView, error)
	DeleteRecipe(ctx context.Context, userID, id uint) error
	ShortLink(ctx context.Context, id uint) (string, error)
}

// IMembershipService defines favorites and shopping cart operations
type IMembershipService interface {
	Add(ctx context.Context, kind ListKind, userID, recipeID uint) (*types.RecipeShort, error)
	Remove(ctx context.Context, kind ListKind, userID, recipeID uint) error
}

// ISubscriptionService defines follow operations
type ISubscriptionService interface {
	Subscribe(ctx context.Context, followerID, authorID uint, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, followerID, authorID uint) error
	ListSubscriptions(ctx context.Context, followerID uint, page types.PageParams, recipesLimit int) ([]types.SubscriptionView, int64, error)
}

// IShoppingListService renders the aggregated cart
type IShoppingListService interface {
	Build(ctx context.Context, userID uint) (string, error)
}

// IShortLinkService resolves short codes
type IShortLinkService interface {
	Resolve(ctx context.Context, code string) (uint, error)
}

// ICatalogService defines ingredient and tag lookups
type ICatalogService interface {
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IMembershipService   = (*MembershipService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ IShortLinkService    = (*ShortLinkService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
)
