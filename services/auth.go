package services

import (
	"fmt"
	"strings"

	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/utils"

	"gorm.io/gorm"
)

// AuthService registers and authenticates accounts. New accounts always get
// the Creator role; role changes go through user administration.
type AuthService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewAuthService(db *gorm.DB, audit *AuditService) *AuthService {
	return &AuthService{db: db, audit: audit}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err, "Internal server error")
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCreator,
		IsActive:     true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict("Email or username already registered")
			}
			return apperr.Internal(err, "Internal server error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actor := &models.Actor{ID: user.ID, Roles: []models.Role{user.Role}}
	s.audit.Record(actor, ActionUserRegister, "users", user.ID,
		fmt.Sprintf("New user registered: %s (%s)", user.Username, user.Email))
	return &user, nil
}

// Login authenticates by username or email. Failed attempts are audited but
// the caller only sees an undifferentiated Forbidden.
func (s *AuthService) Login(login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	var user models.User
	err := s.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		s.recordLoginFailure(0, fmt.Sprintf("Failed login attempt for non-existent user: %s", login))
		return nil, apperr.Forbidden("Invalid credentials")
	}

	if !user.IsActive {
		s.recordLoginFailure(user.ID, fmt.Sprintf("Failed login attempt (inactive account) for user: %s", login))
		return nil, apperr.Forbidden("Invalid credentials")
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.recordLoginFailure(user.ID, fmt.Sprintf("Failed login attempt (invalid password) for user: %s", login))
		return nil, apperr.Forbidden("Invalid credentials")
	}
	return &user, nil
}

// recordLoginFailure logs without an authenticated actor; the entry carries
// the attempted account when it exists.
func (s *AuthService) recordLoginFailure(userID uint, description string) {
	var id *uint
	if userID != 0 {
		id = &userID
	}
	s.audit.RecordSystem(id, ActionLoginFailure, "users", userID, description)
}

func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperr.FromStore(err, "User not found")
	}
	return &user, nil
}
