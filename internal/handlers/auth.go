package handlers

import (
	"context"
	"errors"
	"net/http"

	dom "todolist/internal/domain"
	"todolist/internal/dto"
	"todolist/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// UserService is what AuthHandler needs from service.UserService.
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (dom.User, error)
	ValidateCredentials(ctx context.Context, email, password string) (dom.User, error)
}

// AuthHandler handles register and login.
type AuthHandler struct {
	tokens  TokenIssuer
	userSvc UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens TokenIssuer, userSvc UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, userSvc: userSvc}
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "New account"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgRegisterReq)
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), service.RegisterInput{
		Firstname:       req.Firstname,
		Lastname:        req.Lastname,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondMessage(c, http.StatusBadRequest, msgRegisterReq)
		case errors.Is(err, service.ErrEmailTaken):
			respondMessage(c, http.StatusBadRequest, msgEmailTaken)
		case errors.Is(err, service.ErrPasswordMismatch):
			respondMessage(c, http.StatusBadRequest, msgPasswordMatch)
		default:
			respondInternal(c, err, "register")
		}
		return
	}
	h.respondWithToken(c, user)
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgLoginRequired)
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondMessage(c, http.StatusBadRequest, msgLoginRequired)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondMessage(c, http.StatusBadRequest, msgInvalidLogin)
		default:
			respondInternal(c, err, "login")
		}
		return
	}
	h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user dom.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondInternal(c, err, "issue token")
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{User: userToResponse(user), Token: token})
}
