package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves registration, profiles, avatars and subscriptions
type UserHandler struct {
	authService         service.IAuthService
	userService         service.IUserService
	subscriptionService service.ISubscriptionService
	pageSize            int
}

func NewUserHandler(
	authService service.IAuthService,
	userService service.IUserService,
	subscriptionService service.ISubscriptionService,
	pageSize int,
) *UserHandler {
	return &UserHandler{
		authService:         authService,
		userService:         userService,
		subscriptionService: subscriptionService,
		pageSize:            pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuth(h.authService)

	users := router.Group("/users")
	{
		users.POST("/", h.Register)
		users.GET("/", optional, h.ListUsers)
		users.GET("/me/", required, h.Me)
		users.PUT("/me/avatar/", required, h.SetAvatar)
		users.DELETE("/me/avatar/", required, h.DeleteAvatar)
		users.POST("/set_password/", required, h.SetPassword)
		users.GET("/subscriptions/", required, h.ListSubscriptions)
		users.GET("/:id/", optional, h.GetUser)
		users.POST("/:id/subscribe/", required, h.Subscribe)
		users.DELETE("/:id/subscribe/", required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.RegisteredUser{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	params, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}
	users, count, err := h.userService.ListUsers(c.Request.Context(), middleware.ViewerID(c), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, params, count, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	user, err := h.userService.GetUser(c.Request.Context(), viewer, *viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.authService.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.UserID(c)
	url, err := h.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	params, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	authors, count, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID, params, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, params, count, authors)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	view, err := h.subscriptionService.Subscribe(c.Request.Context(), userID, authorID, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
