package services

import (
	"errors"
	"time"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"

	"gorm.io/gorm"
)

// ModerationService owns the report lifecycle. Transitions are one-way:
// open -> resolved or open -> removed, nothing after that.
type ModerationService struct {
	db   *gorm.DB
	gate *AccessGate
}

func NewModerationService(db *gorm.DB, gate *AccessGate) *ModerationService {
	return &ModerationService{db: db, gate: gate}
}

// CreateReport files a report against an existing recipe or comment.
func (s *ModerationService) CreateReport(actor *models.Actor, req models.ReportCreateRequest) (*models.Report, error) {
	if err := s.gate.Require(actor, OpInteract); err != nil {
		return nil, err
	}

	targetType := models.TargetType(req.TargetType)
	switch targetType {
	case models.TargetRecipe:
		var recipe models.Recipe
		if err := s.db.First(&recipe, req.TargetID).Error; err != nil {
			return nil, apperr.FromStore(err, "Recipe not found")
		}
	case models.TargetComment:
		var comment models.Comment
		if err := s.db.First(&comment, req.TargetID).Error; err != nil {
			return nil, apperr.FromStore(err, "Comment not found")
		}
	default:
		return nil, apperr.Validation("Invalid targetType")
	}

	report := models.Report{
		ReporterID: actor.ID,
		TargetType: targetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     models.ReportOpen,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return &report, nil
}

// ListReports returns one page of reports for moderators, newest first.
func (s *ModerationService) ListReports(actor *models.Actor, q models.ReportListQuery) (*models.ReportPage, error) {
	if err := s.gate.Require(actor, OpModerate); err != nil {
		return nil, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		q.PageSize = 10
	}

	query := s.db.Model(&models.Report{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Type != "" && q.Type != "report" {
		query = query.Where("target_type = ?", q.Type)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	items := []models.Report{}
	err := query.Order("created_at DESC, id DESC").
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}
	return &models.ReportPage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// Resolve closes a report without touching the reported entity. Resolving a
// report that is not open fails with NotFound; the transition is never
// repeated.
func (s *ModerationService) Resolve(actor *models.Actor, reportID uint) (*models.Report, error) {
	if err := s.gate.Require(actor, OpModerate); err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportOpen).
		Updates(map[string]interface{}{
			"status":         models.ReportResolved,
			"reviewed_by_id": actor.ID,
			"reviewed_at":    now,
		})
	if result.Error != nil {
		return nil, apperr.Internal(result.Error, "Internal server error")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("Report not found")
	}

	var report models.Report
	if err := s.db.First(&report, reportID).Error; err != nil {
		return nil, apperr.FromStore(err, "Report not found")
	}
	return &report, nil
}

// Remove deletes the reported entity and closes the report in one atomic
// unit. A target already deleted out-of-band is a no-op; the status
// transition still completes.
func (s *ModerationService) Remove(actor *models.Actor, reportID uint) (*models.Report, error) {
	if err := s.gate.Require(actor, OpModerate); err != nil {
		return nil, err
	}

	var report models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, reportID).Error; err != nil {
			return apperr.FromStore(err, "Report not found")
		}
		if report.Status != models.ReportOpen {
			return apperr.NotFound("Report not found")
		}

		switch report.TargetType {
		case models.TargetComment:
			var comment models.Comment
			err := tx.First(&comment, report.TargetID).Error
			switch {
			case err == nil:
				if err := tx.Delete(&models.Comment{}, report.TargetID).Error; err != nil {
					return apperr.Internal(err, "Internal server error")
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Already gone; still complete the transition.
			default:
				return apperr.Internal(err, "Internal server error")
			}
		case models.TargetRecipe:
			var recipe models.Recipe
			err := tx.First(&recipe, report.TargetID).Error
			switch {
			case err == nil:
				if err := tx.Delete(&models.Recipe{}, report.TargetID).Error; err != nil {
					return apperr.Internal(err, "Internal server error")
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
			default:
				return apperr.Internal(err, "Internal server error")
			}
		}

		now := time.Now()
		reviewerID := actor.ID
		report.Status = models.ReportRemoved
		report.ReviewedByID = &reviewerID
		report.ReviewedAt = &now
		if err := tx.Save(&report).Error; err != nil {
			return apperr.Internal(err, "Internal server error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}
