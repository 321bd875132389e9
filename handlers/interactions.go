package handlers

import (
	"net/http"

	"recipe-catalog-backend/middleware"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/services"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	Interactions *services.InteractionService
	Catalog      *services.CatalogService
	Moderation   *services.ModerationService
}

func NewInteractionHandler(interactions *services.InteractionService, catalog *services.CatalogService, moderation *services.ModerationService) *InteractionHandler {
	return &InteractionHandler{Interactions: interactions, Catalog: catalog, Moderation: moderation}
}

func (h *InteractionHandler) Rate(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	summary, err := h.Interactions.Rate(middleware.CurrentActor(c), recipeID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *InteractionHandler) RatingSummary(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.Interactions.RatingSummary(middleware.CurrentActor(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *InteractionHandler) UpdateRating(c *gin.Context) {
	ratingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	if err := h.Interactions.UpdateRating(middleware.CurrentActor(c), ratingID, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating updated"})
}

func (h *InteractionHandler) DeleteRating(c *gin.Context) {
	ratingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Interactions.DeleteRating(middleware.CurrentActor(c), ratingID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InteractionHandler) ListComments(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.Interactions.ListComments(recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *InteractionHandler) AddComment(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	comment, err := h.Interactions.AddComment(middleware.CurrentActor(c), recipeID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *InteractionHandler) UpdateComment(c *gin.Context) {
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	comment, err := h.Interactions.UpdateComment(middleware.CurrentActor(c), commentID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Interactions.DeleteComment(middleware.CurrentActor(c), commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InteractionHandler) ToggleFavorite(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	favorite, err := h.Interactions.ToggleFavorite(middleware.CurrentActor(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

func (h *InteractionHandler) CheckFavorite(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	favorite, err := h.Interactions.IsFavorite(middleware.CurrentActor(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

func (h *InteractionHandler) ListFavorites(c *gin.Context) {
	var query models.RecipeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.Catalog.ListFavorites(middleware.CurrentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InteractionHandler) CreateReport(c *gin.Context) {
	var req models.ReportCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.Moderation.CreateReport(middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *InteractionHandler) ListReports(c *gin.Context) {
	var query models.ReportListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.Moderation.ListReports(middleware.CurrentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InteractionHandler) ResolveReport(c *gin.Context) {
	reportID, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.Moderation.Resolve(middleware.CurrentActor(c), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *InteractionHandler) RemoveReported(c *gin.Context) {
	reportID, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.Moderation.Remove(middleware.CurrentActor(c), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
