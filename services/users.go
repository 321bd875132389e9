package services

import (
	"fmt"
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/utils"

	"gorm.io/gorm"
)

// UserAdminService is the Administrator-only user management surface. Every
// mutation emits one audit entry.
type UserAdminService struct {
	db    *gorm.DB
	gate  *AccessGate
	audit *AuditService
}

func NewUserAdminService(db *gorm.DB, gate *AccessGate, audit *AuditService) *UserAdminService {
	return &UserAdminService{db: db, gate: gate, audit: audit}
}

func (s *UserAdminService) List(actor *models.Actor, q models.UserListQuery) (*models.UserPage, error) {
	if err := s.gate.Require(actor, OpUserAdmin); err != nil {
		return nil, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		q.PageSize = 10
	}

	query := s.db.Model(&models.User{})
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if q.Role != "" {
		role, ok := models.RoleFromName(q.Role)
		if !ok {
			return nil, apperr.Validation("Invalid role")
		}
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	var users []models.User
	err := query.Order("created_at DESC, id DESC").
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	items := make([]models.UserView, 0, len(users))
	for _, u := range users {
		items = append(items, models.NewUserView(u))
	}
	return &models.UserPage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *UserAdminService) Get(actor *models.Actor, userID uint) (*models.UserView, error) {
	if err := s.gate.Require(actor, OpUserAdmin); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperr.FromStore(err, "User not found")
	}
	view := models.NewUserView(user)
	return &view, nil
}

// Update edits account fields; an included role change is audited as
// ROLE_UPDATE, everything else as USER_UPDATE.
func (s *UserAdminService) Update(actor *models.Actor, userID uint, req models.UserUpdateRequest) (*models.UserView, error) {
	if err := s.gate.Require(actor, OpUserAdmin); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperr.FromStore(err, "User not found")
	}

	roleChanged := false
	if req.Role != "" {
		role, ok := models.RoleFromName(req.Role)
		if !ok {
			return nil, apperr.Validation("Invalid role")
		}
		roleChanged = role != user.Role
		user.Role = role
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		user.Username = username
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, apperr.FromStore(err, "User not found")
	}

	if roleChanged {
		s.audit.Record(actor, ActionRoleUpdate, "users", user.ID,
			fmt.Sprintf("Administrator updated user %s to role: %s", user.Username, user.Role))
	} else {
		s.audit.Record(actor, ActionUserUpdate, "users", user.ID,
			fmt.Sprintf("Administrator updated user %s", user.Username))
	}

	view := models.NewUserView(user)
	return &view, nil
}

// SetRole changes only the role; audited as ROLE_UPDATE.
func (s *UserAdminService) SetRole(actor *models.Actor, userID uint, roleName string) (*models.UserView, error) {
	return s.Update(actor, userID, models.UserUpdateRequest{Role: roleName})
}

// ResetPassword forces the configured reset password onto the account.
func (s *UserAdminService) ResetPassword(actor *models.Actor, userID uint, newPassword string) error {
	if err := s.gate.Require(actor, OpUserAdmin); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return apperr.FromStore(err, "User not found")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err, "Internal server error")
	}
	if err := s.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}

	s.audit.Record(actor, ActionPasswordReset, "users", user.ID,
		fmt.Sprintf("Administrator forced a password reset for user: %s", user.Username))
	return nil
}

// Delete removes a user; their recipes, comments, ratings, favorites and
// reports cascade with them.
func (s *UserAdminService) Delete(actor *models.Actor, userID uint) error {
	if err := s.gate.Require(actor, OpUserAdmin); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return apperr.FromStore(err, "User not found")
	}
	if err := s.db.Delete(&models.User{}, userID).Error; err != nil {
		return apperr.Internal(err, "Internal server error")
	}

	s.audit.Record(actor, ActionUserDelete, "users", userID,
		fmt.Sprintf("Administrator deleted user: %s", user.Username))
	return nil
}
