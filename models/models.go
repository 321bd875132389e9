package models

import (
	"time"
)

// Role is the named enumeration of user roles. Numeric values are stable and
// stored in the users table.
type Role int

const (
	RoleAdministrator Role = 1
	RoleManager       Role = 2
	RoleCreator       Role = 3
	RoleExplorer      Role = 4
)

func (r Role) Valid() bool {
	return r >= RoleAdministrator && r <= RoleExplorer
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleExplorer:
		return "explorer"
	default:
		return "creator"
	}
}

func RoleFromName(name string) (Role, bool) {
	switch name {
	case "admin":
		return RoleAdministrator, true
	case "manager":
		return RoleManager, true
	case "creator":
		return RoleCreator, true
	case "explorer":
		return RoleExplorer, true
	}
	return 0, false
}

// Actor is the acting identity resolved by the authentication layer. Roles is
// a set; regular accounts carry a single role.
type Actor struct {
	ID    uint
	Roles []Role
}

func (a *Actor) HasRole(roles ...Role) bool {
	if a == nil {
		return false
	}
	for _, have := range a.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role_id" gorm:"not null;default:3"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`

	Recipes   []Recipe   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Ratings   []Rating   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Favorites []Favorite `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reports   []Report   `json:"-" gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`
}

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`

	Recipes []Recipe `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

type Ingredient struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Recipe struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"not null"`
	CategoryID  *uint  `json:"category_id"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	// Steps holds the newline-joined legacy text form; StepsJSON is the
	// canonical versioned encoding. Both round-trip to the same sequence.
	Steps         string    `json:"-"`
	StepsJSON     string    `json:"-" gorm:"column:steps_json"`
	ImagePath     string    `json:"image_path"`
	ImageCrop     string    `json:"-" gorm:"column:image_crop"`
	AverageRating float64   `json:"average_rating" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []RecipeTag        `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Comments    []Comment          `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ratings     []Rating           `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Favorites   []Favorite         `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type RecipeIngredient struct {
	RecipeID     uint    `json:"recipe_id" gorm:"primaryKey"`
	IngredientID uint    `json:"ingredient_id" gorm:"primaryKey"`
	Quantity     float64 `json:"quantity" gorm:"not null"`
	Unit         string  `json:"unit"`

	Ingredient Ingredient `json:"-" gorm:"foreignKey:IngredientID"`
}

type RecipeTag struct {
	RecipeID uint `json:"recipe_id" gorm:"primaryKey"`
	TagID    uint `json:"tag_id" gorm:"primaryKey"`

	Tag Tag `json:"-" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_ratings_recipe_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_recipe_user"`
	Value     int       `json:"value" gorm:"column:rating_value;not null;check:rating_value >= 1 AND rating_value <= 5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Favorite struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

type TargetType string

const (
	TargetRecipe  TargetType = "recipe"
	TargetComment TargetType = "comment"
)

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
	ReportRemoved  ReportStatus = "removed"
)

type Report struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	ReporterID   uint         `json:"reporter_id" gorm:"not null"`
	TargetType   TargetType   `json:"target_type" gorm:"not null"`
	TargetID     uint         `json:"target_id" gorm:"not null"`
	Reason       string       `json:"reason" gorm:"not null"`
	Details      string       `json:"details,omitempty"`
	Status       ReportStatus `json:"status" gorm:"not null;default:open"`
	CreatedAt    time.Time    `json:"created_at"`
	ReviewedByID *uint        `json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
}

// AuditLogEntry rows are append-only; the application never updates or
// deletes them.
type AuditLogEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      *uint     `json:"user_id"`
	Action      string    `json:"action" gorm:"column:action_type;not null"`
	EntityType  string    `json:"entity_type" gorm:"not null"`
	EntityID    uint      `json:"entity_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}
