package handlers

import (
	"net/http"

	"recipe-catalog-backend/middleware"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/services"
	"recipe-catalog-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth      *services.AuthService
	JWTSecret string
}

func NewAuthHandler(auth *services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{Auth: auth, JWTSecret: jwtSecret}
}

func (h *AuthHandler) authResponse(user *models.User) (models.AuthResponse, error) {
	token, err := utils.GenerateJWT(h.JWTSecret, user.ID, user.Role)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{
		Token: token,
		User:  models.NewUserView(*user),
		Roles: []int{int(user.Role)},
	}, nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		// Invalid credentials read as 401 at the HTTP edge.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	resp, err := h.authResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.Auth.GetProfile(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserView(*user))
}
