package services

import (
	"fmt"
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"gorm.io/gorm"
)

// MetaService manages the shared vocabulary: categories, tags and
// ingredients. Reads are open; mutations are Manager/Administrator only and
// audited.
type MetaService struct {
	db    *gorm.DB
	gate  *AccessGate
	audit *AuditService
}

func NewMetaService(db *gorm.DB, gate *AccessGate, audit *AuditService) *MetaService {
	return &MetaService{db: db, gate: gate, audit: audit}
}

func (s *MetaService) ListCategories() ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return categories, nil
}

func (s *MetaService) GetCategory(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, apperr.FromStore(err, "Category not found")
	}
	return &category, nil
}

func (s *MetaService) CreateCategory(actor *models.Actor, req models.CategoryRequest) (*models.Category, error) {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}

	category := models.Category{Name: name, Description: req.Description}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperr.FromStore(err, "Category not found")
	}
	s.audit.Record(actor, ActionCategoryCreate, "categories", category.ID,
		fmt.Sprintf("Created category: %s", category.Name))
	return &category, nil
}

func (s *MetaService) UpdateCategory(actor *models.Actor, categoryID uint, req models.CategoryRequest) (*models.Category, error) {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, apperr.FromStore(err, "Category not found")
	}
	category.Name = name
	category.Description = req.Description
	if err := s.db.Save(&category).Error; err != nil {
		return nil, apperr.FromStore(err, "Category not found")
	}
	s.audit.Record(actor, ActionCategoryUpdate, "categories", category.ID,
		fmt.Sprintf("Updated category: %s", category.Name))
	return &category, nil
}

// DeleteCategory removes a category; recipes referencing it keep existing
// with a nulled reference.
func (s *MetaService) DeleteCategory(actor *models.Actor, categoryID uint) error {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return err
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return apperr.FromStore(err, "Category not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		if err := tx.Delete(&models.Category{}, categoryID).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(actor, ActionCategoryDelete, "categories", categoryID,
		fmt.Sprintf("Deleted category: %s", category.Name))
	return nil
}

func (s *MetaService) ListTags() ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return tags, nil
}

func (s *MetaService) CreateTag(actor *models.Actor, name string) (*models.Tag, error) {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Tag name is required")
	}

	tag := models.Tag{Name: name}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, apperr.FromStore(err, "Tag not found")
	}
	s.audit.Record(actor, ActionTagCreate, "tags", tag.ID, fmt.Sprintf("Created tag: %s", tag.Name))
	return &tag, nil
}

func (s *MetaService) UpdateTag(actor *models.Actor, tagID uint, name string) (*models.Tag, error) {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Tag name is required")
	}

	var tag models.Tag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		return nil, apperr.FromStore(err, "Tag not found")
	}
	tag.Name = name
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, apperr.FromStore(err, "Tag not found")
	}
	s.audit.Record(actor, ActionTagUpdate, "tags", tag.ID, fmt.Sprintf("Updated tag: %s", tag.Name))
	return &tag, nil
}

// DeleteTag removes a tag and its join rows.
func (s *MetaService) DeleteTag(actor *models.Actor, tagID uint) error {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return err
	}

	var tag models.Tag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		return apperr.FromStore(err, "Tag not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tagID).Delete(&models.RecipeTag{}).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		if err := tx.Delete(&models.Tag{}, tagID).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(actor, ActionTagDelete, "tags", tagID, fmt.Sprintf("Deleted tag: %s", tag.Name))
	return nil
}

// ListIngredients returns ingredients, optionally filtered by a
// case-insensitive name substring.
func (s *MetaService) ListIngredients(search string) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	query := s.db.Order("name ASC")
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return ingredients, nil
}

func (s *MetaService) GetIngredient(ingredientID uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, ingredientID).Error; err != nil {
		return nil, apperr.FromStore(err, "Ingredient not found")
	}
	return &ingredient, nil
}

func (s *MetaService) CreateIngredient(actor *models.Actor, name string) (*models.Ingredient, error) {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Ingredient name is required")
	}

	ingredient := models.Ingredient{Name: name}
	if err := s.db.Create(&ingredient).Error; err != nil {
		return nil, apperr.FromStore(err, "Ingredient not found")
	}
	s.audit.Record(actor, ActionIngredientCreate, "ingredients", ingredient.ID,
		fmt.Sprintf("Created ingredient: %s", ingredient.Name))
	return &ingredient, nil
}

func (s *MetaService) UpdateIngredient(actor *models.Actor, ingredientID uint, name string) (*models.Ingredient, error) {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Ingredient name is required")
	}

	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, ingredientID).Error; err != nil {
		return nil, apperr.FromStore(err, "Ingredient not found")
	}
	ingredient.Name = name
	if err := s.db.Save(&ingredient).Error; err != nil {
		return nil, apperr.FromStore(err, "Ingredient not found")
	}
	s.audit.Record(actor, ActionIngredientUpdate, "ingredients", ingredient.ID,
		fmt.Sprintf("Updated ingredient: %s", ingredient.Name))
	return &ingredient, nil
}

// DeleteIngredient refuses to remove an ingredient any recipe still uses.
func (s *MetaService) DeleteIngredient(actor *models.Actor, ingredientID uint) error {
	if err := s.gate.Require(actor, OpMetaManage); err != nil {
		return err
	}

	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, ingredientID).Error; err != nil {
		return apperr.FromStore(err, "Ingredient not found")
	}

	var used int64
	if err := s.db.Model(&models.RecipeIngredient{}).
		Where("ingredient_id = ?", ingredientID).
		Count(&used).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	if used > 0 {
		return apperr.Conflict("Ingredient is used in recipes and cannot be deleted")
	}

	if err := s.db.Delete(&models.Ingredient{}, ingredientID).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	s.audit.Record(actor, ActionIngredientDelete, "ingredients", ingredientID,
		fmt.Sprintf("Deleted ingredient: %s", ingredient.Name))
	return nil
}
