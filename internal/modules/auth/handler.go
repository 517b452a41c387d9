package auth

import (
	"errors"
	"net/http"

	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

// Handler manages the HTTP side of registration and sessions.
type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.POST("/users", h.Register)
	r.GET("/connect", h.Connect)
	r.GET("/disconnect", h.Disconnect)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
}

// Register creates a new user.
// @Summary		Register a user
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"email, password"
// @Success		201	{object}	map[string]interface{}	"id and email"
// @Failure		400	{object}	map[string]interface{}	"Missing email or password, or email taken"
// @Failure		500	{object}	map[string]interface{}	"Server error"
// @Router		/users [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingEmail):
			response.Error(c, http.StatusBadRequest, "MISSING_EMAIL", "Missing email")
		case errors.Is(err, ErrInvalidEmail):
			response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email")
		case errors.Is(err, ErrMissingPassword):
			response.Error(c, http.StatusBadRequest, "MISSING_PASSWORD", "Missing password")
		case errors.Is(err, ErrAlreadyExists):
			response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", "Already exist")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, UserPublic{ID: user.ID, Email: user.Email})
}

// Connect exchanges Basic credentials for a session token.
// @Summary		Sign in
// @Description	Reads Authorization: Basic base64(email:password) and returns a token valid for 24 hours.
// @Tags		Auth
// @Success		200	{object}	map[string]interface{}	"token"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Router		/connect [GET]
func (h *Handler) Connect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	token, err := h.service.Connect(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "CONNECT_FAILED", "Failed to sign in")
		return
	}

	response.Success(c, http.StatusOK, TokenResponse{Token: token})
}

// Disconnect revokes the token in X-Token.
// @Summary		Sign out
// @Tags		Auth
// @Security	XToken
// @Success		204	"Signed out"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Router		/disconnect [GET]
func (h *Handler) Disconnect(c *gin.Context) {
	err := h.service.Disconnect(c.Request.Context(), c.GetHeader(TokenHeader))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "DISCONNECT_FAILED", "Failed to sign out")
		return
	}

	response.NoContent(c, http.StatusNoContent)
}

// GetMe returns the signed-in user.
// @Summary		Current user
// @Tags		Auth
// @Security	XToken
// @Success		200	{object}	map[string]interface{}	"id and email"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Router		/users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, UserPublic{ID: user.ID, Email: user.Email})
}
