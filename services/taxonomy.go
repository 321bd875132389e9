package services

import (
	"errors"
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"gorm.io/gorm"
)

// TaxonomyService resolves tag and ingredient names to identifiers,
// creating missing entries. Resolution is race-safe: a concurrent duplicate
// insert is treated as already-resolved, not an error.
type TaxonomyService struct{}

func NewTaxonomyService() *TaxonomyService {
	return &TaxonomyService{}
}

// ResolveTag returns the id for a tag name, inserting it if absent.
// Runs on the caller's transaction handle.
func (s *TaxonomyService) ResolveTag(tx *gorm.DB, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("Tag name is required")
	}

	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return tag.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.Internal(err, "Internal server error")
	}

	tag = models.Tag{Name: name}
	if err := tx.Create(&tag).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return 0, apperr.Internal(err, "Internal server error")
			}
			return tag.ID, nil
		}
		return 0, apperr.Internal(err, "Internal server error")
	}
	return tag.ID, nil
}

// ResolveIngredient returns the id for a canonical ingredient name,
// inserting it if absent.
func (s *TaxonomyService) ResolveIngredient(tx *gorm.DB, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("Ingredient name is required")
	}

	var ingredient models.Ingredient
	err := tx.Where("name = ?", name).First(&ingredient).Error
	if err == nil {
		return ingredient.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.Internal(err, "Internal server error")
	}

	ingredient = models.Ingredient{Name: name}
	if err := tx.Create(&ingredient).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			if err := tx.Where("name = ?", name).First(&ingredient).Error; err != nil {
				return 0, apperr.Internal(err, "Internal server error")
			}
			return ingredient.ID, nil
		}
		return 0, apperr.Internal(err, "Internal server error")
	}
	return ingredient.ID, nil
}
