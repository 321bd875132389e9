package services

import (
	"errors"
	"testing"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		want models.IngredientLine
	}{
		{"2 cups Flour", models.IngredientLine{Name: "Flour", Quantity: 2, Unit: "cups"}},
		{"1 Egg", models.IngredientLine{Name: "Egg", Quantity: 1}},
		{"0.5 tsp baking soda", models.IngredientLine{Name: "baking soda", Quantity: 0.5, Unit: "tsp"}},
		{"Salt to taste", models.IngredientLine{Name: "Salt to taste", Quantity: 1}},
		{"", models.IngredientLine{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseIngredientLine(tt.line), "line %q", tt.line)
	}
}

func TestUpsertCreatesRecipeWithChildren(t *testing.T) {
	env := newTestEnv(t)

	detail, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Pancakes",
		Description: "Fluffy pancakes",
		Steps:       []string{"Mix the batter", "Fry until golden"},
		Ingredients: []models.IngredientInput{
			{Text: "2 cups Flour"},
			{Name: "Egg", Quantity: 3},
			{Text: "   "},
		},
		Tags: models.TagList{"breakfast", "sweet", "breakfast"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", detail.Title)
	assert.Equal(t, env.creator.ID, detail.UserID)
	assert.Equal(t, []string{"Mix the batter", "Fry until golden"}, detail.Steps)
	assert.Equal(t, []string{"breakfast", "sweet"}, detail.Tags)

	// Ingredients come back ordered by name; the blank entry was dropped.
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, models.IngredientLine{Name: "Egg", Quantity: 3}, detail.Ingredients[0])
	assert.Equal(t, models.IngredientLine{Name: "Flour", Quantity: 2, Unit: "cups"}, detail.Ingredients[1])
}

func TestUpsertValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Description: "No title",
		Steps:       []string{"Step"},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title: "No steps", Description: "Something",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = env.recipes.Upsert(env.explorer, 0, models.RecipeUpsertRequest{
		Title: "Explorer recipe", Description: "Not allowed", Steps: []string{"Step"},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpsertUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	missing := uint(999)
	_, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Soup",
		Description: "Soup with a bad category",
		Steps:       []string{"Boil"},
		CategoryID:  &missing,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpsertReplacesChildCollections(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Salad",
		Description: "Simple salad",
		Steps:       []string{"Chop", "Toss"},
		Ingredients: []models.IngredientInput{{Name: "Lettuce", Quantity: 1}},
		Tags:        models.TagList{"healthy"},
	})
	require.NoError(t, err)

	updated, err := env.recipes.Upsert(env.creator, created.ID, models.RecipeUpsertRequest{
		Title:       "Greek Salad",
		Description: "With feta",
		Steps:       []string{"Chop", "Toss", "Add feta"},
		Ingredients: []models.IngredientInput{
			{Name: "Feta", Quantity: 100, Unit: "g"},
			{Name: "Tomato", Quantity: 2},
		},
		Tags: models.TagList{"greek"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Greek Salad", updated.Title)
	assert.Equal(t, []string{"greek"}, updated.Tags)
	require.Len(t, updated.Ingredients, 2)
	assert.Equal(t, "Feta", updated.Ingredients[0].Name)
	assert.Equal(t, "Tomato", updated.Ingredients[1].Name)

	// Old join rows are gone, the vocabulary entries survive.
	var joins int64
	require.NoError(t, env.db.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", created.ID).Count(&joins).Error)
	assert.EqualValues(t, 2, joins)
	var lettuce models.Ingredient
	assert.NoError(t, env.db.Where("name = ?", "Lettuce").First(&lettuce).Error)
}

func TestUpsertRollsBackOnInvalidQuantity(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Stew",
		Description: "Slow stew",
		Steps:       []string{"Simmer"},
		Ingredients: []models.IngredientInput{{Name: "Beef", Quantity: 500, Unit: "g"}},
		Tags:        models.TagList{"dinner"},
	})
	require.NoError(t, err)

	// The tag set is replaced before the bad quantity is hit; the failure
	// must undo that replacement too.
	_, err = env.recipes.Upsert(env.creator, created.ID, models.RecipeUpsertRequest{
		Title:       "Broken Stew",
		Description: "Should not persist",
		Steps:       []string{"Simmer"},
		Ingredients: []models.IngredientInput{
			{Name: "Beef", Quantity: 500, Unit: "g"},
			{Name: "Carrot", Quantity: -1},
		},
		Tags: models.TagList{"weeknight"},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	detail, err := env.recipes.Detail(nil, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stew", detail.Title)
	assert.Equal(t, []string{"dinner"}, detail.Tags)
	require.Len(t, detail.Ingredients, 1)
	assert.Equal(t, "Beef", detail.Ingredients[0].Name)
}

func TestUpsertStoreFailureSurfacesAsInternal(t *testing.T) {
	env := newTestEnv(t)

	restore := forceCreateError(t, env.db, "recipes", errors.New("disk full"))
	_, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Unwritable",
		Description: "Never lands",
		Steps:       []string{"Try"},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	restore()

	var count int64
	require.NoError(t, env.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpsertImageCrop(t *testing.T) {
	env := newTestEnv(t)

	detail, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Cake",
		Description: "Chocolate cake",
		Steps:       []string{"Bake"},
		ImagePath:   "/uploads/cake.jpg",
		ImageCrop:   &models.ImageCrop{OriginX: 150, OriginY: -10, Zoom: 9},
	})
	require.NoError(t, err)
	require.NotNil(t, detail.ImageCrop)
	assert.Equal(t, models.ImageCrop{OriginX: 100, OriginY: 0, Zoom: 4}, *detail.ImageCrop)

	// Without an image reference the crop descriptor is discarded.
	noImage, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Bread",
		Description: "Plain bread",
		Steps:       []string{"Bake"},
		ImageCrop:   &models.ImageCrop{OriginX: 10, OriginY: 10, Zoom: 2},
	})
	require.NoError(t, err)
	assert.Nil(t, noImage.ImageCrop)
}

func TestRecipeOwnershipPolicy(t *testing.T) {
	env := newTestEnv(t)
	recipe := env.createRecipe(t, env.creator, "Owned")

	_, err := env.recipes.Upsert(env.creator2, recipe.ID, models.RecipeUpsertRequest{
		Title: "Hijacked", Description: "x", Steps: []string{"x"},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	updated, err := env.recipes.Upsert(env.manager, recipe.ID, models.RecipeUpsertRequest{
		Title: "Moderated", Description: "x", Steps: []string{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Title)

	assert.True(t, apperr.IsKind(env.recipes.Delete(env.creator2, recipe.ID), apperr.KindForbidden))
	require.NoError(t, env.recipes.Delete(env.creator, recipe.ID))

	_, err = env.recipes.Detail(nil, recipe.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDetailViewerState(t *testing.T) {
	env := newTestEnv(t)
	recipe := env.createRecipe(t, env.creator, "Viewed")

	_, err := env.interactions.Rate(env.explorer, recipe.ID, 4)
	require.NoError(t, err)
	_, err = env.interactions.ToggleFavorite(env.explorer, recipe.ID)
	require.NoError(t, err)

	detail, err := env.recipes.Detail(env.explorer, recipe.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsFavorite)
	assert.Equal(t, 4, detail.MyRating)
	assert.EqualValues(t, 1, detail.RatingsCount)
	assert.EqualValues(t, 1, detail.FavoritesCount)

	anonymous, err := env.recipes.Detail(nil, recipe.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorite)
	assert.Zero(t, anonymous.MyRating)
}
