package services

import (
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"gorm.io/gorm"
)

// recipeRow is a recipe with its aggregate counts. The counts come from
// correlated subqueries so the same SQL works on both drivers.
type recipeRow struct {
	models.Recipe
	FavoritesCount int64
	RatingsCount   int64
}

const recipeAggregateSelect = "recipes.*, " +
	"(SELECT COUNT(*) FROM favorites WHERE favorites.recipe_id = recipes.id) AS favorites_count, " +
	"(SELECT COUNT(*) FROM ratings WHERE ratings.recipe_id = recipes.id) AS ratings_count"

// CatalogService answers filtered, sorted, paginated reads over the recipe
// collection. It holds no state between calls.
type CatalogService struct {
	db   *gorm.DB
	gate *AccessGate
}

func NewCatalogService(db *gorm.DB, gate *AccessGate) *CatalogService {
	return &CatalogService{db: db, gate: gate}
}

// filtered builds the WHERE clauses shared by the count and the page query.
func (s *CatalogService) filtered(q models.RecipeListQuery) *gorm.DB {
	query := s.db.Model(&models.Recipe{})

	if text := strings.TrimSpace(q.TextSearch); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ?", pattern, pattern)
	}
	if q.CategoryID != 0 {
		query = query.Where("recipes.category_id = ?", q.CategoryID)
	}
	if len(q.Tags) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.recipe_id = recipes.id AND t.name IN ?)",
			q.Tags)
	}
	if ingredient := strings.TrimSpace(q.IngredientSearch); ingredient != "" {
		pattern := "%" + strings.ToLower(ingredient) + "%"
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id WHERE ri.recipe_id = recipes.id AND LOWER(i.name) LIKE ?)",
			pattern)
	}
	if q.MinRating > 0 {
		query = query.Where("recipes.average_rating >= ?", q.MinRating)
	}
	return query
}

func orderExpr(q models.RecipeListQuery) string {
	dir := "DESC"
	if q.SortDir == "asc" {
		dir = "ASC"
	}
	// Ties break by recipe id ascending for a deterministic order.
	switch q.SortBy {
	case models.SortRating:
		return "recipes.average_rating " + dir + ", recipes.id ASC"
	case models.SortPopularity:
		return "favorites_count " + dir + ", recipes.id ASC"
	default:
		return "recipes.created_at " + dir + ", recipes.id ASC"
	}
}

// List returns one page of the catalog. A page past the end yields an empty
// item list with the correct total; callers reset paging themselves when
// filters change.
func (s *CatalogService) List(q models.RecipeListQuery) (*models.RecipePage, error) {
	q.Normalize()
	return s.page(s.filtered(q), q, orderExpr(q))
}

// ListMine restricts the catalog to the acting user's own recipes.
func (s *CatalogService) ListMine(actor *models.Actor, q models.RecipeListQuery) (*models.RecipePage, error) {
	if actor == nil {
		return nil, apperr.Forbidden("Authentication required")
	}
	q.Normalize()
	query := s.filtered(q).Where("recipes.user_id = ?", actor.ID)
	return s.page(query, q, orderExpr(q))
}

// ListFavorites returns the acting user's favorited recipes, most recently
// favorited first.
func (s *CatalogService) ListFavorites(actor *models.Actor, q models.RecipeListQuery) (*models.RecipePage, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return nil, err
	}
	q.Normalize()
	query := s.filtered(q).
		Joins("JOIN favorites fav ON fav.recipe_id = recipes.id").
		Where("fav.user_id = ?", actor.ID)
	return s.page(query, q, "fav.created_at DESC, recipes.id ASC")
}

func (s *CatalogService) page(query *gorm.DB, q models.RecipeListQuery, order string) (*models.RecipePage, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	var rows []recipeRow
	err := query.Session(&gorm.Session{}).
		Select(recipeAggregateSelect).
		Order(order).
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	items := make([]models.RecipeSummary, 0, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		items = append(items, summaryFromRow(row))
		ids = append(ids, row.ID)
	}

	tagsByRecipe, err := s.tagsFor(ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Tags = tagsByRecipe[items[i].ID]
	}

	return &models.RecipePage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// tagsFor loads the de-duplicated tag names for a page of recipes.
func (s *CatalogService) tagsFor(recipeIDs []uint) (map[uint][]string, error) {
	tags := make(map[uint][]string, len(recipeIDs))
	for _, id := range recipeIDs {
		tags[id] = []string{}
	}
	if len(recipeIDs) == 0 {
		return tags, nil
	}

	var rows []struct {
		RecipeID uint
		Name     string
	}
	err := s.db.Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.name").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	for _, row := range rows {
		tags[row.RecipeID] = append(tags[row.RecipeID], row.Name)
	}
	return tags, nil
}

func summaryFromRow(row recipeRow) models.RecipeSummary {
	return models.RecipeSummary{
		ID:             row.ID,
		UserID:         row.UserID,
		CategoryID:     row.CategoryID,
		Title:          row.Title,
		Description:    row.Description,
		ImagePath:      row.ImagePath,
		ImageCrop:      models.DecodeImageCrop(row.ImageCrop),
		AverageRating:  row.AverageRating,
		RatingsCount:   row.RatingsCount,
		FavoritesCount: row.FavoritesCount,
		Tags:           []string{},
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
