package services

import (
	"testing"

	"recipe-catalog-backend/database"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires every service against one in-memory store with one account
// per role.
type testEnv struct {
	db *gorm.DB

	audit        *AuditService
	auth         *AuthService
	catalog      *CatalogService
	recipes      *RecipeService
	interactions *InteractionService
	moderation   *ModerationService
	users        *UserAdminService
	meta         *MetaService

	admin    *models.Actor
	manager  *models.Actor
	creator  *models.Actor
	creator2 *models.Actor
	explorer *models.Actor
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) (*models.User, *models.Actor) {
	t.Helper()

	hash, err := utils.HashPassword("Password123!")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user, &models.Actor{ID: user.ID, Roles: []models.Role{role}}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := openTestDB(t)
	gate := NewAccessGate()
	audit := NewAuditService(db, zap.NewNop())
	t.Cleanup(audit.Close)
	taxonomy := NewTaxonomyService()

	env := &testEnv{
		db:           db,
		audit:        audit,
		auth:         NewAuthService(db, audit),
		catalog:      NewCatalogService(db, gate),
		recipes:      NewRecipeService(db, gate, taxonomy),
		interactions: NewInteractionService(db, gate),
		moderation:   NewModerationService(db, gate),
		users:        NewUserAdminService(db, gate, audit),
		meta:         NewMetaService(db, gate, audit),
	}

	_, env.admin = createUser(t, db, "admin", models.RoleAdministrator)
	_, env.manager = createUser(t, db, "manager", models.RoleManager)
	_, env.creator = createUser(t, db, "creator", models.RoleCreator)
	_, env.creator2 = createUser(t, db, "creator2", models.RoleCreator)
	_, env.explorer = createUser(t, db, "explorer", models.RoleExplorer)
	return env
}

func (env *testEnv) createRecipe(t *testing.T, actor *models.Actor, title string) *models.RecipeDetail {
	t.Helper()

	detail, err := env.recipes.Upsert(actor, 0, models.RecipeUpsertRequest{
		Title:       title,
		Description: "Test recipe " + title,
		Steps:       []string{"Prep everything", "Cook it"},
		Ingredients: []models.IngredientInput{{Name: "Salt", Quantity: 1, Unit: "tsp"}},
	})
	require.NoError(t, err)
	return detail
}

// forceCreateError makes inserts into one table fail with forced until the
// returned restore runs.
func forceCreateError(t *testing.T, db *gorm.DB, table string, forced error) (restore func()) {
	t.Helper()

	name := "test:fail_create_" + table
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(forced)
		}
	}))
	return func() { require.NoError(t, db.Callback().Create().Remove(name)) }
}

// forceDeleteError is the delete-side counterpart of forceCreateError.
func forceDeleteError(t *testing.T, db *gorm.DB, table string, forced error) (restore func()) {
	t.Helper()

	name := "test:fail_delete_" + table
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(forced)
		}
	}))
	return func() { require.NoError(t, db.Callback().Delete().Remove(name)) }
}

// auditEntries flushes the audit queue and returns the stored entries for an
// action code.
func (env *testEnv) auditEntries(t *testing.T, action string) []models.AuditLogEntry {
	t.Helper()

	env.audit.Flush()
	var entries []models.AuditLogEntry
	require.NoError(t, env.db.Where("action_type = ?", action).Find(&entries).Error)
	return entries
}
