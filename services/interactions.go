package services

import (
	"errors"
	"math"
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"gorm.io/gorm"
)

// InteractionService covers ratings, comments and favorites. Every rating
// mutation recomputes the owning recipe's cached average inside the same
// transaction.
type InteractionService struct {
	db   *gorm.DB
	gate *AccessGate
}

func NewInteractionService(db *gorm.DB, gate *AccessGate) *InteractionService {
	return &InteractionService{db: db, gate: gate}
}

// recomputeAverage persists round(mean(rating values), 2) on the recipe, or
// 0 when no ratings remain. Must run on the mutation's transaction handle.
func recomputeAverage(tx *gorm.DB, recipeID uint) error {
	var avg *float64
	err := tx.Model(&models.Rating{}).
		Where("recipe_id = ?", recipeID).
		Select("AVG(rating_value)").
		Scan(&avg).Error
	if err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	value := 0.0
	if avg != nil {
		value = math.Round(*avg*100) / 100
	}
	err = tx.Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Update("average_rating", value).Error
	if err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	return nil
}

// Rate inserts or replaces the actor's rating for a recipe.
func (s *InteractionService) Rate(actor *models.Actor, recipeID uint, value int) (*models.RatingSummary, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return nil, err
	}
	if value < 1 || value > 5 {
		return nil, apperr.Validation("Rating must be between 1 and 5")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return apperr.FromStore(err, "Recipe not found")
		}

		var rating models.Rating
		err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, actor.ID).First(&rating).Error
		switch {
		case err == nil:
			rating.Value = value
			if err := tx.Save(&rating).Error; err != nil {
				return apperr.Internal(err, "Internal server error")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = models.Rating{RecipeID: recipeID, UserID: actor.ID, Value: value}
			if err := tx.Create(&rating).Error; err != nil {
				if apperr.IsUniqueViolation(err) {
					return apperr.Conflict("You have already rated this recipe")
				}
				return apperr.Internal(err, "Internal server error")
			}
		default:
			return apperr.Internal(err, "Internal server error")
		}

		return recomputeAverage(tx, recipeID)
	})
	if err != nil {
		return nil, err
	}

	return s.RatingSummary(actor, recipeID)
}

// UpdateRating changes a rating by id; author or Manager/Administrator only.
func (s *InteractionService) UpdateRating(actor *models.Actor, ratingID uint, value int) error {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return err
	}
	if value < 1 || value > 5 {
		return apperr.Validation("Rating must be between 1 and 5")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.First(&rating, ratingID).Error; err != nil {
			return apperr.FromStore(err, "Rating not found")
		}
		if err := s.gate.RequireOwnerOrElevated(actor, rating.UserID); err != nil {
			return err
		}
		rating.Value = value
		if err := tx.Save(&rating).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		return recomputeAverage(tx, rating.RecipeID)
	})
}

// DeleteRating removes a rating by id and recomputes the recipe's average.
func (s *InteractionService) DeleteRating(actor *models.Actor, ratingID uint) error {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.First(&rating, ratingID).Error; err != nil {
			return apperr.FromStore(err, "Rating not found")
		}
		if err := s.gate.RequireOwnerOrElevated(actor, rating.UserID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Rating{}, ratingID).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		return recomputeAverage(tx, rating.RecipeID)
	})
}

// RatingSummary reports the cached average, the rating count and the
// viewer's own rating when present.
func (s *InteractionService) RatingSummary(actor *models.Actor, recipeID uint) (*models.RatingSummary, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return nil, apperr.FromStore(err, "Recipe not found")
	}

	var count int64
	if err := s.db.Model(&models.Rating{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	summary := &models.RatingSummary{
		RecipeID:  recipeID,
		AvgRating: recipe.AverageRating,
		Count:     count,
	}
	if actor != nil {
		var rating models.Rating
		if err := s.db.Where("recipe_id = ? AND user_id = ?", recipeID, actor.ID).First(&rating).Error; err == nil {
			summary.MyRating = &rating.Value
		}
	}
	return summary, nil
}

// ListComments returns a recipe's comments, newest first, with author names.
func (s *InteractionService) ListComments(recipeID uint) ([]models.CommentView, error) {
	views := []models.CommentView{}
	err := s.db.Table("comments").
		Select("comments.id, comments.recipe_id, comments.user_id, users.username, comments.content, comments.created_at, comments.updated_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.recipe_id = ?", recipeID).
		Order("comments.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return views, nil
}

func (s *InteractionService) AddComment(actor *models.Actor, recipeID uint, content string) (*models.Comment, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Comment content is required")
	}

	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return nil, apperr.FromStore(err, "Recipe not found")
	}

	comment := models.Comment{RecipeID: recipeID, UserID: actor.ID, Content: content}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return &comment, nil
}

// UpdateComment edits a comment body; author or Manager/Administrator only.
func (s *InteractionService) UpdateComment(actor *models.Actor, commentID uint, content string) (*models.Comment, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Comment content is required")
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		return nil, apperr.FromStore(err, "Comment not found")
	}
	if err := s.gate.RequireOwnerOrElevated(actor, comment.UserID); err != nil {
		return nil, err
	}
	comment.Content = content
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return &comment, nil
}

// DeleteComment removes a comment. The comment author, the owner of the
// commented recipe, and Manager/Administrator may delete.
func (s *InteractionService) DeleteComment(actor *models.Actor, commentID uint) error {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return err
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		return apperr.FromStore(err, "Comment not found")
	}

	if err := s.gate.RequireOwnerOrElevated(actor, comment.UserID); err != nil {
		var recipe models.Recipe
		if recipeErr := s.db.First(&recipe, comment.RecipeID).Error; recipeErr != nil || recipe.UserID != actor.ID {
			return err
		}
	}

	if err := s.db.Delete(&models.Comment{}, commentID).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	return nil
}

// ToggleFavorite flips the actor's favorite for a recipe and reports the
// resulting state.
func (s *InteractionService) ToggleFavorite(actor *models.Actor, recipeID uint) (bool, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return false, err
	}

	var favorite bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return apperr.FromStore(err, "Recipe not found")
		}

		var existing models.Favorite
		err := tx.Where("user_id = ? AND recipe_id = ?", actor.ID, recipeID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("user_id = ? AND recipe_id = ?", actor.ID, recipeID).
				Delete(&models.Favorite{}).Error; err != nil {
				return apperr.Internal(err, "Internal server error")
			}
			favorite = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Favorite{UserID: actor.ID, RecipeID: recipeID}).Error; err != nil {
				return apperr.Internal(err, "Internal server error")
			}
			favorite = true
		default:
			return apperr.Internal(err, "Internal server error")
		}
		return nil
	})
	return favorite, err
}

// IsFavorite reports whether the actor has favorited the recipe.
func (s *InteractionService) IsFavorite(actor *models.Actor, recipeID uint) (bool, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return false, err
	}
	var count int64
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", actor.ID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal(err, "Internal server error")
	}
	return count > 0, nil
}
