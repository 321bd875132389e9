package services

import (
	"recipe-catalog-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Audit action codes.
const (
	ActionUserRegister   = "USER_REGISTER"
	ActionLoginFailure   = "LOGIN_FAILURE"
	ActionRoleUpdate     = "ROLE_UPDATE"
	ActionPasswordReset  = "PASSWORD_RESET"
	ActionUserUpdate     = "USER_UPDATE"
	ActionUserDelete     = "USER_DELETE"
	ActionCategoryCreate = "CATEGORY_CREATE"
	ActionCategoryUpdate = "CATEGORY_UPDATE"
	ActionCategoryDelete = "CATEGORY_DELETE"
	ActionTagCreate      = "TAG_CREATE"
	ActionTagUpdate      = "TAG_UPDATE"
	ActionTagDelete      = "TAG_DELETE"
	ActionIngredientCreate = "INGREDIENT_CREATE"
	ActionIngredientUpdate = "INGREDIENT_UPDATE"
	ActionIngredientDelete = "INGREDIENT_DELETE"
)

type auditMsg struct {
	entry models.AuditLogEntry
	ack   chan struct{}
}

// AuditService appends privileged-mutation records to the audit log.
// Record is fire-and-forget: entries go through a buffered channel to a
// single writer goroutine, and write failures are logged, never returned.
type AuditService struct {
	db   *gorm.DB
	log  *zap.Logger
	msgs chan auditMsg
	done chan struct{}
}

func NewAuditService(db *gorm.DB, log *zap.Logger) *AuditService {
	s := &AuditService{
		db:   db,
		log:  log,
		msgs: make(chan auditMsg, 64),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AuditService) run() {
	defer close(s.done)
	for msg := range s.msgs {
		if msg.ack != nil {
			close(msg.ack)
			continue
		}
		if err := s.db.Create(&msg.entry).Error; err != nil {
			s.log.Error("failed to write audit log entry",
				zap.String("action", msg.entry.Action),
				zap.Error(err))
		}
	}
}

// Record queues one audit entry. A nil actor is logged and dropped; a full
// queue drops the entry rather than blocking the business operation.
func (s *AuditService) Record(actor *models.Actor, action, entityType string, entityID uint, description string) {
	if actor == nil {
		s.log.Warn("audit entry without a resolvable actor dropped",
			zap.String("action", action))
		return
	}
	userID := actor.ID
	msg := auditMsg{entry: models.AuditLogEntry{
		UserID:      &userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
	}}
	select {
	case s.msgs <- msg:
	default:
		s.log.Warn("audit queue full, entry dropped", zap.String("action", action))
	}
}

// RecordSystem queues an entry that has no authenticated actor, such as a
// failed login. userID may be nil.
func (s *AuditService) RecordSystem(userID *uint, action, entityType string, entityID uint, description string) {
	msg := auditMsg{entry: models.AuditLogEntry{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
	}}
	select {
	case s.msgs <- msg:
	default:
		s.log.Warn("audit queue full, entry dropped", zap.String("action", action))
	}
}

// Flush blocks until every entry queued before the call has been written.
func (s *AuditService) Flush() {
	ack := make(chan struct{})
	s.msgs <- auditMsg{ack: ack}
	<-ack
}

// Close drains the queue and stops the writer.
func (s *AuditService) Close() {
	close(s.msgs)
	<-s.done
}
