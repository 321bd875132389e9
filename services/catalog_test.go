package services

import (
	"testing"
	"time"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCatalog builds a small catalog with spread-out creation times so the
// newest sort is deterministic.
func seedCatalog(t *testing.T, env *testEnv) []uint {
	t.Helper()

	seeds := []struct {
		title string
		tags  models.TagList
	}{
		{"Apple Pie", models.TagList{"dessert", "baking"}},
		{"Beef Stew", models.TagList{"dinner"}},
		{"Carrot Soup", models.TagList{"dinner", "vegan"}},
		{"Date Cake", models.TagList{"dessert"}},
		{"Egg Salad", nil},
	}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]uint, 0, len(seeds))
	for i, seed := range seeds {
		detail, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
			Title:       seed.title,
			Description: "Seeded " + seed.title,
			Steps:       []string{"Cook"},
			Ingredients: []models.IngredientInput{{Name: "Salt", Quantity: 1}},
			Tags:        seed.tags,
		})
		require.NoError(t, err)
		require.NoError(t, env.db.Model(&models.Recipe{}).
			Where("id = ?", detail.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		ids = append(ids, detail.ID)
	}
	return ids
}

func titles(page *models.RecipePage) []string {
	out := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		out = append(out, item.Title)
	}
	return out
}

func TestListNewestFirstByDefault(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	page, err := env.catalog.List(models.RecipeListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, []string{"Egg Salad", "Date Cake", "Carrot Soup", "Beef Stew", "Apple Pie"}, titles(page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 12, page.PageSize)
}

func TestListPageBeyondEnd(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	page, err := env.catalog.List(models.RecipeListQuery{Page: 3, PageSize: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Page)
}

func TestListPagination(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	page, err := env.catalog.List(models.RecipeListQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, []string{"Carrot Soup", "Beef Stew"}, titles(page))
}

func TestListTextSearchIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	page, err := env.catalog.List(models.RecipeListQuery{TextSearch: "CARROT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Carrot Soup"}, titles(page))
}

func TestListFilterByTagAndIngredient(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	page, err := env.catalog.List(models.RecipeListQuery{Tags: []string{"dinner"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Beef Stew", "Carrot Soup"}, titles(page))

	page, err = env.catalog.List(models.RecipeListQuery{IngredientSearch: "salt"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)

	page, err = env.catalog.List(models.RecipeListQuery{IngredientSearch: "saffron"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListSortByRatingWithTieBreak(t *testing.T) {
	env := newTestEnv(t)
	ids := seedCatalog(t, env)

	// Two recipes share the top average; ties resolve by id ascending.
	require.NoError(t, env.db.Model(&models.Recipe{}).Where("id = ?", ids[1]).
		Update("average_rating", 4.5).Error)
	require.NoError(t, env.db.Model(&models.Recipe{}).Where("id = ?", ids[3]).
		Update("average_rating", 4.5).Error)
	require.NoError(t, env.db.Model(&models.Recipe{}).Where("id = ?", ids[0]).
		Update("average_rating", 3.0).Error)

	page, err := env.catalog.List(models.RecipeListQuery{SortBy: models.SortRating})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beef Stew", "Date Cake", "Apple Pie", "Carrot Soup", "Egg Salad"}, titles(page))

	page, err = env.catalog.List(models.RecipeListQuery{SortBy: models.SortRating, MinRating: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beef Stew", "Date Cake"}, titles(page))
}

func TestListSortByPopularity(t *testing.T) {
	env := newTestEnv(t)
	ids := seedCatalog(t, env)

	for _, actor := range []*models.Actor{env.explorer, env.manager} {
		_, err := env.interactions.ToggleFavorite(actor, ids[2])
		require.NoError(t, err)
	}
	_, err := env.interactions.ToggleFavorite(env.explorer, ids[0])
	require.NoError(t, err)

	page, err := env.catalog.List(models.RecipeListQuery{SortBy: models.SortPopularity, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Carrot Soup", "Apple Pie"}, titles(page))
	assert.EqualValues(t, 2, page.Items[0].FavoritesCount)
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	env.createRecipe(t, env.creator2, "Someone Else's")

	page, err := env.catalog.ListMine(env.creator, models.RecipeListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)

	_, err = env.catalog.ListMine(nil, models.RecipeListQuery{})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestListFavoritesNewestFavoriteFirst(t *testing.T) {
	env := newTestEnv(t)
	ids := seedCatalog(t, env)

	_, err := env.interactions.ToggleFavorite(env.explorer, ids[0])
	require.NoError(t, err)
	_, err = env.interactions.ToggleFavorite(env.explorer, ids[2])
	require.NoError(t, err)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", env.explorer.ID, ids[0]).
		Update("created_at", base).Error)
	require.NoError(t, env.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", env.explorer.ID, ids[2]).
		Update("created_at", base.Add(time.Hour)).Error)

	page, err := env.catalog.ListFavorites(env.explorer, models.RecipeListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Carrot Soup", "Apple Pie"}, titles(page))

	// Another account's favorites are invisible.
	page, err = env.catalog.ListFavorites(env.creator, models.RecipeListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListTagsOnSummaries(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	page, err := env.catalog.List(models.RecipeListQuery{TextSearch: "apple"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, []string{"baking", "dessert"}, page.Items[0].Tags)
}
