package services

import (
	"testing"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// missNextLookup makes the next query against one table report not-found,
// simulating another writer committing the row between the lookup and the
// insert.
func missNextLookup(t *testing.T, db *gorm.DB, table string) {
	t.Helper()

	missed := false
	name := "test:miss_lookup_" + table
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table && !missed {
			missed = true
			tx.AddError(gorm.ErrRecordNotFound)
		}
	}))
	t.Cleanup(func() { require.NoError(t, db.Callback().Query().Remove(name)) })
}

func TestResolveTagIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	taxonomy := NewTaxonomyService()

	first, err := taxonomy.ResolveTag(db, "weeknight")
	require.NoError(t, err)
	second, err := taxonomy.ResolveTag(db, "weeknight")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	trimmed, err := taxonomy.ResolveTag(db, "  weeknight  ")
	require.NoError(t, err)
	assert.Equal(t, first, trimmed)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveIngredientIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	taxonomy := NewTaxonomyService()

	first, err := taxonomy.ResolveIngredient(db, "Flour")
	require.NoError(t, err)
	second, err := taxonomy.ResolveIngredient(db, "Flour")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Names are exact beyond trimming; case variants are distinct entries.
	other, err := taxonomy.ResolveIngredient(db, "flour")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestResolveTagSurvivesConcurrentInsert(t *testing.T) {
	db := openTestDB(t)
	taxonomy := NewTaxonomyService()

	existing := models.Tag{Name: "garlic"}
	require.NoError(t, db.Create(&existing).Error)

	// The lookup misses, the insert hits the unique index, and resolution
	// falls back to re-reading the row the other writer created.
	missNextLookup(t, db, "tags")
	id, err := taxonomy.ResolveTag(db, "garlic")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveIngredientSurvivesConcurrentInsert(t *testing.T) {
	db := openTestDB(t)
	taxonomy := NewTaxonomyService()

	existing := models.Ingredient{Name: "Garlic"}
	require.NoError(t, db.Create(&existing).Error)

	missNextLookup(t, db, "ingredients")
	id, err := taxonomy.ResolveIngredient(db, "Garlic")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveRejectsEmptyNames(t *testing.T) {
	db := openTestDB(t)
	taxonomy := NewTaxonomyService()

	_, err := taxonomy.ResolveTag(db, "   ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	_, err = taxonomy.ResolveIngredient(db, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
