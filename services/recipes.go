package services

import (
	"errors"
	"strconv"
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"gorm.io/gorm"
)

// RecipeService owns the recipe aggregate: atomic create/update with full
// child replacement, detail reads, and deletion.
type RecipeService struct {
	db       *gorm.DB
	gate     *AccessGate
	taxonomy *TaxonomyService
}

func NewRecipeService(db *gorm.DB, gate *AccessGate, taxonomy *TaxonomyService) *RecipeService {
	return &RecipeService{db: db, gate: gate, taxonomy: taxonomy}
}

// parseIngredientLine normalizes a free-text ingredient line into a
// quantity/unit/name triple. "2 cups Flour" -> 2/cups/Flour, "1 Egg" ->
// 1//Egg, and a line without a leading number keeps quantity 1 and the whole
// line as the name.
func parseIngredientLine(line string) models.IngredientLine {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return models.IngredientLine{}
	}

	quantity, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return models.IngredientLine{Name: strings.Join(fields, " "), Quantity: 1}
	}

	rest := fields[1:]
	switch len(rest) {
	case 0:
		return models.IngredientLine{Quantity: quantity}
	case 1:
		return models.IngredientLine{Name: rest[0], Quantity: quantity}
	default:
		return models.IngredientLine{Name: strings.Join(rest[1:], " "), Quantity: quantity, Unit: rest[0]}
	}
}

// normalizeIngredients converts mixed free-text and structured inputs into
// triples. Blank entries are dropped; a quantity-only line has no name and
// fails validation later, when the join rows are built.
func normalizeIngredients(inputs []models.IngredientInput) []models.IngredientLine {
	lines := make([]models.IngredientLine, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name != "" {
			lines = append(lines, models.IngredientLine{
				Name:     name,
				Quantity: in.Quantity,
				Unit:     strings.TrimSpace(in.Unit),
			})
			continue
		}
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		lines = append(lines, parseIngredientLine(in.Text))
	}
	return lines
}

// normalizeTags trims, drops empties and de-duplicates, preserving order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func normalizeSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		if step = strings.TrimSpace(step); step != "" {
			out = append(out, step)
		}
	}
	return out
}

// Upsert atomically creates or updates a recipe together with its ingredient
// and tag sets. Child collections are fully replaced, not diffed; any
// failure rolls the whole call back.
func (s *RecipeService) Upsert(actor *models.Actor, recipeID uint, req models.RecipeUpsertRequest) (*models.RecipeDetail, error) {
	creating := recipeID == 0
	if creating {
		if err := s.gate.Require(actor, OpRecipeCreate); err != nil {
			return nil, err
		}
	} else {
		if err := s.gate.Require(actor, OpRecipeMutate); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	description := strings.TrimSpace(req.Description)
	if creating && description == "" {
		return nil, apperr.Validation("Description is required")
	}
	steps := normalizeSteps(req.Steps)
	if creating && len(steps) == 0 {
		return nil, apperr.Validation("Recipe steps are required")
	}
	ingredients := normalizeIngredients(req.Ingredients)
	tags := normalizeTags(req.Tags)

	imagePath := strings.TrimSpace(req.ImagePath)
	crop := ""
	if imagePath != "" {
		// Crop descriptor is meaningless without an image reference.
		crop = models.EncodeImageCrop(req.ImageCrop)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.CategoryID != nil {
			var category models.Category
			if err := tx.First(&category, *req.CategoryID).Error; err != nil {
				return apperr.FromStore(err, "Category not found")
			}
		}

		var recipe models.Recipe
		if creating {
			recipe = models.Recipe{
				UserID:      actor.ID,
				CategoryID:  req.CategoryID,
				Title:       title,
				Description: description,
				Steps:       strings.Join(steps, "\n"),
				StepsJSON:   models.EncodeSteps(steps),
				ImagePath:   imagePath,
				ImageCrop:   crop,
			}
			if err := tx.Create(&recipe).Error; err != nil {
				return apperr.Internal(err, "Internal server error")
			}
			recipeID = recipe.ID
		} else {
			if err := tx.First(&recipe, recipeID).Error; err != nil {
				return apperr.FromStore(err, "Recipe not found")
			}
			if err := s.gate.RequireOwnerOrElevated(actor, recipe.UserID); err != nil {
				return err
			}
			updates := map[string]interface{}{
				"title":       title,
				"description": description,
				"category_id": req.CategoryID,
				"steps":       strings.Join(steps, "\n"),
				"steps_json":  models.EncodeSteps(steps),
				"image_path":  imagePath,
				"image_crop":  crop,
			}
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return apperr.FromStore(err, "Recipe not found")
			}
		}

		if err := s.replaceTags(tx, recipeID, tags); err != nil {
			return err
		}
		return s.replaceIngredients(tx, recipeID, ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Detail(actor, recipeID)
}

// replaceTags swaps the recipe's tag set for the given names,
// delete-all-then-insert-all.
func (s *RecipeService) replaceTags(tx *gorm.DB, recipeID uint, tags []string) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	for _, name := range tags {
		tagID, err := s.taxonomy.ResolveTag(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Create(&models.RecipeTag{RecipeID: recipeID, TagID: tagID}).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				continue
			}
			return apperr.Internal(err, "Internal server error")
		}
	}
	return nil
}

// replaceIngredients swaps the recipe's ingredient set. Quantities are
// validated here, at the point the join rows are built.
func (s *RecipeService) replaceIngredients(tx *gorm.DB, recipeID uint, ingredients []models.IngredientLine) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	seen := make(map[uint]bool, len(ingredients))
	for _, ing := range ingredients {
		if ing.Quantity <= 0 {
			return apperr.Validation("Ingredient quantity must be greater than 0")
		}
		ingredientID, err := s.taxonomy.ResolveIngredient(tx, ing.Name)
		if err != nil {
			return err
		}
		if seen[ingredientID] {
			continue
		}
		seen[ingredientID] = true
		row := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ingredientID,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
		}
		if err := tx.Create(&row).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
	}
	return nil
}

// Detail returns the full aggregate: recipe, ordered ingredients and tags,
// counts, and the viewer's favorite flag and rating when authenticated.
func (s *RecipeService) Detail(actor *models.Actor, recipeID uint) (*models.RecipeDetail, error) {
	var row recipeRow
	err := s.db.Model(&models.Recipe{}).
		Select(recipeAggregateSelect).
		Where("recipes.id = ?", recipeID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Recipe not found")
		}
		return nil, apperr.Internal(err, "Internal server error")
	}

	detail := &models.RecipeDetail{
		RecipeSummary: summaryFromRow(row),
		Steps:         models.DecodeSteps(row.StepsJSON, row.Steps),
		Ingredients:   []models.IngredientLine{},
	}

	err = s.db.Table("recipe_ingredients").
		Select("ingredients.name, recipe_ingredients.quantity, recipe_ingredients.unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("ingredients.name ASC").
		Scan(&detail.Ingredients).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	var tags []string
	err = s.db.Table("recipe_tags").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id = ?", recipeID).
		Order("tags.name ASC").
		Pluck("tags.name", &tags).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	detail.Tags = tags
	if detail.Tags == nil {
		detail.Tags = []string{}
	}

	if actor != nil {
		var favCount int64
		if err := s.db.Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", actor.ID, recipeID).
			Count(&favCount).Error; err == nil {
			detail.IsFavorite = favCount > 0
		}
		var rating models.Rating
		if err := s.db.Where("user_id = ? AND recipe_id = ?", actor.ID, recipeID).
			First(&rating).Error; err == nil {
			detail.MyRating = rating.Value
		}
	}

	return detail, nil
}

// Delete removes a recipe; ratings, comments, favorites and join rows go
// with it via the schema's cascades.
func (s *RecipeService) Delete(actor *models.Actor, recipeID uint) error {
	if err := s.gate.Require(actor, OpRecipeMutate); err != nil {
		return err
	}
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return apperr.FromStore(err, "Recipe not found")
	}
	if err := s.gate.RequireOwnerOrElevated(actor, recipe.UserID); err != nil {
		return err
	}
	if err := s.db.Delete(&models.Recipe{}, recipeID).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	return nil
}
