package services

import (
	"testing"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryManagementRequiresManager(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.meta.CreateCategory(env.creator, models.CategoryRequest{Name: "Snacks"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	category, err := env.meta.CreateCategory(env.manager, models.CategoryRequest{Name: "Snacks", Description: "Small bites"})
	require.NoError(t, err)

	entries := env.auditEntries(t, ActionCategoryCreate)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, env.manager.ID, *entries[0].UserID)
	assert.Equal(t, category.ID, entries[0].EntityID)
}

func TestDeleteCategoryDetachesRecipes(t *testing.T) {
	env := newTestEnv(t)

	category, err := env.meta.CreateCategory(env.manager, models.CategoryRequest{Name: "Seasonal"})
	require.NoError(t, err)

	detail, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Pumpkin Soup",
		Description: "Autumn soup",
		Steps:       []string{"Roast", "Blend"},
		CategoryID:  &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, detail.CategoryID)

	require.NoError(t, env.meta.DeleteCategory(env.admin, category.ID))

	detail, err = env.recipes.Detail(nil, detail.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.CategoryID)
}

func TestDeleteTagRemovesAssociations(t *testing.T) {
	env := newTestEnv(t)

	detail, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Tagged Dish",
		Description: "x",
		Steps:       []string{"x"},
		Tags:        models.TagList{"fleeting"},
	})
	require.NoError(t, err)

	var tag models.Tag
	require.NoError(t, env.db.Where("name = ?", "fleeting").First(&tag).Error)
	require.NoError(t, env.meta.DeleteTag(env.manager, tag.ID))

	detail, err = env.recipes.Detail(nil, detail.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Tags)
}

func TestDeleteIngredientBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)

	detail, err := env.recipes.Upsert(env.creator, 0, models.RecipeUpsertRequest{
		Title:       "Flour User",
		Description: "x",
		Steps:       []string{"x"},
		Ingredients: []models.IngredientInput{{Name: "Flour", Quantity: 2, Unit: "cups"}},
	})
	require.NoError(t, err)

	var flour models.Ingredient
	require.NoError(t, env.db.Where("name = ?", "Flour").First(&flour).Error)

	err = env.meta.DeleteIngredient(env.manager, flour.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Once the last referencing recipe is gone the delete goes through.
	require.NoError(t, env.recipes.Delete(env.creator, detail.ID))
	require.NoError(t, env.meta.DeleteIngredient(env.manager, flour.ID))

	entries := env.auditEntries(t, ActionIngredientDelete)
	require.Len(t, entries, 1)
}

func TestIngredientSearchAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.meta.CreateIngredient(env.manager, "Brown Sugar")
	require.NoError(t, err)
	created, err := env.meta.CreateIngredient(env.manager, "Sea Salt")
	require.NoError(t, err)

	found, err := env.meta.ListIngredients("sugar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Brown Sugar", found[0].Name)

	updated, err := env.meta.UpdateIngredient(env.manager, created.ID, "Flaky Sea Salt")
	require.NoError(t, err)
	assert.Equal(t, "Flaky Sea Salt", updated.Name)

	_, err = env.meta.CreateIngredient(env.manager, "  ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDuplicateVocabularyNamesConflict(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.meta.CreateCategory(env.manager, models.CategoryRequest{Name: "Unique"})
	require.NoError(t, err)
	_, err = env.meta.CreateCategory(env.manager, models.CategoryRequest{Name: "Unique"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = env.meta.CreateTag(env.manager, "once")
	require.NoError(t, err)
	_, err = env.meta.CreateTag(env.manager, "once")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}
