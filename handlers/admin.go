package handlers

import (
	"net/http"

	"recipe-catalog-backend/middleware"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/services"

	"github.com/gin-gonic/gin"
)

// UserAdminHandler exposes the Administrator-only user management routes.
type UserAdminHandler struct {
	Users         *services.UserAdminService
	ResetPassword string
}

func NewUserAdminHandler(users *services.UserAdminService, resetPassword string) *UserAdminHandler {
	return &UserAdminHandler{Users: users, ResetPassword: resetPassword}
}

func (h *UserAdminHandler) List(c *gin.Context) {
	var query models.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.Users.List(middleware.CurrentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserAdminHandler) Get(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.Users.Get(middleware.CurrentActor(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserAdminHandler) Update(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Update(middleware.CurrentActor(c), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserAdminHandler) SetRole(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	user, err := h.Users.SetRole(middleware.CurrentActor(c), userID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserAdminHandler) ResetUserPassword(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Users.ResetPassword(middleware.CurrentActor(c), userID, h.ResetPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *UserAdminHandler) Delete(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Users.Delete(middleware.CurrentActor(c), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
