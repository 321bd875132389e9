package handlers

import (
	"net/http"

	"recipe-catalog-backend/middleware"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/services"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	Recipes *services.RecipeService
	Catalog *services.CatalogService
}

func NewRecipeHandler(recipes *services.RecipeService, catalog *services.CatalogService) *RecipeHandler {
	return &RecipeHandler{Recipes: recipes, Catalog: catalog}
}

func (h *RecipeHandler) List(c *gin.Context) {
	var query models.RecipeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.Catalog.List(query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) ListMine(c *gin.Context) {
	var query models.RecipeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.Catalog.ListMine(middleware.CurrentActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.Recipes.Detail(middleware.CurrentActor(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req models.RecipeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.Recipes.Upsert(middleware.CurrentActor(c), 0, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req models.RecipeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.Recipes.Upsert(middleware.CurrentActor(c), recipeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	recipeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Recipes.Delete(middleware.CurrentActor(c), recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
