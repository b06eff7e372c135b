package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeHandler serves recipes and the per-user lists hanging off them
type RecipeHandler struct {
	authService       service.IAuthService
	recipeService     service.IRecipeService
	membershipService service.IMembershipService
	shoppingList      service.IShoppingListService
	createLimiter     *middleware.RateLimiter
	publicURL         string
	pageSize          int
}

// RecipeHandlerConfig groups the RecipeHandler collaborators. CreateLimiter
// may be nil.
type RecipeHandlerConfig struct {
	AuthService       service.IAuthService
	RecipeService     service.IRecipeService
	MembershipService service.IMembershipService
	ShoppingList      service.IShoppingListService
	CreateLimiter     *middleware.RateLimiter
	PublicURL         string
	PageSize          int
}

func NewRecipeHandler(cfg RecipeHandlerConfig) *RecipeHandler {
	return &RecipeHandler{
		authService:       cfg.AuthService,
		recipeService:     cfg.RecipeService,
		membershipService: cfg.MembershipService,
		shoppingList:      cfg.ShoppingList,
		createLimiter:     cfg.CreateLimiter,
		publicURL:         strings.TrimSuffix(cfg.PublicURL, "/"),
		pageSize:          cfg.PageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuth(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", optional, h.ListRecipes)
		recipes.POST("/", required, h.createLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart/", required, h.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.GetRecipe)
		recipes.PUT("/:id/", required, h.UpdateRecipe)
		recipes.PATCH("/:id/", required, h.UpdateRecipe)
		recipes.DELETE("/:id/", required, h.DeleteRecipe)
		recipes.GET("/:id/get-link/", h.GetLink)
		recipes.POST("/:id/favorite/", required, h.addTo(service.Favorites))
		recipes.DELETE("/:id/favorite/", required, h.removeFrom(service.Favorites))
		recipes.POST("/:id/shopping_cart/", required, h.addTo(service.ShoppingCart))
		recipes.DELETE("/:id/shopping_cart/", required, h.removeFrom(service.ShoppingCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	filter := service.RecipeFilter{
		Tags:             c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited"),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, service.FieldError("author", "Select a valid choice."))
			return
		}
		id := uint(author)
		filter.AuthorID = &id
	}

	recipes, count, err := h.recipeService.ListRecipes(c.Request.Context(), middleware.ViewerID(c), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, params, count, recipes)
}

// queryBool reads a 1/0/true/false flag. Anything else leaves the filter off.
func queryBool(c *gin.Context, name string) *bool {
	var v bool
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		v = true
	case "0", "false":
		v = false
	default:
		return nil
	}
	return &v
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var input types.RecipeInput
	if !bindJSON(c, &input) {
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe handles both PUT and PATCH. The image may be omitted.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input types.RecipeInput
	if !bindJSON(c, &input) {
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	code, err := h.recipeService.ShortLink(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: h.publicURL + "/s/" + code})
}

func (h *RecipeHandler) addTo(kind service.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		userID, _ := middleware.UserID(c)
		short, err := h.membershipService.Add(c.Request.Context(), kind, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (h *RecipeHandler) removeFrom(kind service.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		userID, _ := middleware.UserID(c)
		if err := h.membershipService.Remove(c.Request.Context(), kind, userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	body, err := h.shoppingList.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
