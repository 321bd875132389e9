package handlers

import (
	"net/http"

	"recipe-catalog-backend/middleware"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/services"

	"github.com/gin-gonic/gin"
)

type MetaHandler struct {
	Meta *services.MetaService
}

func NewMetaHandler(meta *services.MetaService) *MetaHandler {
	return &MetaHandler{Meta: meta}
}

func (h *MetaHandler) ListCategories(c *gin.Context) {
	categories, err := h.Meta.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MetaHandler) GetCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	category, err := h.Meta.GetCategory(categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MetaHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category, err := h.Meta.CreateCategory(middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MetaHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category, err := h.Meta.UpdateCategory(middleware.CurrentActor(c), categoryID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MetaHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Meta.DeleteCategory(middleware.CurrentActor(c), categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MetaHandler) ListTags(c *gin.Context) {
	tags, err := h.Meta.ListTags()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *MetaHandler) CreateTag(c *gin.Context) {
	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name is required"})
		return
	}

	tag, err := h.Meta.CreateTag(middleware.CurrentActor(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *MetaHandler) UpdateTag(c *gin.Context) {
	tagID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name is required"})
		return
	}

	tag, err := h.Meta.UpdateTag(middleware.CurrentActor(c), tagID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *MetaHandler) DeleteTag(c *gin.Context) {
	tagID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Meta.DeleteTag(middleware.CurrentActor(c), tagID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MetaHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.Meta.ListIngredients(c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *MetaHandler) GetIngredient(c *gin.Context) {
	ingredientID, ok := idParam(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.Meta.GetIngredient(ingredientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *MetaHandler) CreateIngredient(c *gin.Context) {
	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	ingredient, err := h.Meta.CreateIngredient(middleware.CurrentActor(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func (h *MetaHandler) UpdateIngredient(c *gin.Context) {
	ingredientID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	ingredient, err := h.Meta.UpdateIngredient(middleware.CurrentActor(c), ingredientID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *MetaHandler) DeleteIngredient(c *gin.Context) {
	ingredientID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Meta.DeleteIngredient(middleware.CurrentActor(c), ingredientID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
