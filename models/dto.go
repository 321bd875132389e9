package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// ImageCrop is the crop descriptor for an uploaded recipe image. The core
// never interprets the image itself, only this descriptor.
type ImageCrop struct {
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
	Zoom    float64 `json:"zoom"`
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (c ImageCrop) Clamped() ImageCrop {
	return ImageCrop{
		OriginX: clamp(c.OriginX, 0, 100),
		OriginY: clamp(c.OriginY, 0, 100),
		Zoom:    clamp(c.Zoom, 1, 4),
	}
}

// EncodeImageCrop serializes a crop descriptor for the image_crop column.
func EncodeImageCrop(c *ImageCrop) string {
	if c == nil {
		return ""
	}
	clamped := c.Clamped()
	raw, err := json.Marshal(clamped)
	if err != nil {
		return ""
	}
	return string(raw)
}

// DecodeImageCrop parses an image_crop column value. Unparseable legacy
// values decode to nil rather than erroring.
func DecodeImageCrop(raw string) *ImageCrop {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var c ImageCrop
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil
	}
	clamped := c.Clamped()
	return &clamped
}

type stepEntry struct {
	Text string `json:"text"`
}

// EncodeSteps serializes an ordered step sequence for the steps_json column.
func EncodeSteps(steps []string) string {
	entries := make([]stepEntry, 0, len(steps))
	for _, s := range steps {
		entries = append(entries, stepEntry{Text: s})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return ""
	}
	return string(raw)
}

var numberedStepRe = regexp.MustCompile(`\s*\d+\.\s*`)

// DecodeSteps reconstructs the ordered step sequence. The structured
// steps_json column wins; legacy free text falls back to newline splitting,
// then to "1. 2. 3." numbering.
func DecodeSteps(stepsJSON, legacy string) []string {
	if s := strings.TrimSpace(stepsJSON); s != "" {
		var entries []stepEntry
		if err := json.Unmarshal([]byte(s), &entries); err == nil {
			steps := make([]string, 0, len(entries))
			for _, e := range entries {
				if text := strings.TrimSpace(e.Text); text != "" {
					steps = append(steps, text)
				}
			}
			return steps
		}
	}

	raw := strings.TrimSpace(legacy)
	if raw == "" {
		return []string{}
	}
	if strings.Contains(raw, "\n") {
		var steps []string
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				steps = append(steps, line)
			}
		}
		return steps
	}
	var numbered []string
	for _, part := range numberedStepRe.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			numbered = append(numbered, part)
		}
	}
	if len(numbered) > 1 {
		return numbered
	}
	return []string{raw}
}

// IngredientInput accepts either a free-text line ("2 cups Flour") or a
// structured object; both normalize to quantity/unit/name triples.
type IngredientInput struct {
	Text     string  `json:"text"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (in *IngredientInput) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*in = IngredientInput{Text: line}
		return nil
	}
	type plain IngredientInput
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*in = IngredientInput(obj)
	return nil
}

// TagList accepts either a JSON array or a comma-separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	var tags []string
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	*t = tags
	return nil
}

type RecipeUpsertRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	CategoryID  *uint             `json:"category_id"`
	ImagePath   string            `json:"image_path"`
	ImageCrop   *ImageCrop        `json:"image_crop"`
	Steps       []string          `json:"steps"`
	Ingredients []IngredientInput `json:"ingredients"`
	Tags        TagList           `json:"tags"`
}

type RecipeListQuery struct {
	Page             int      `form:"page"`
	PageSize         int      `form:"pageSize"`
	SortBy           string   `form:"sortBy"`
	SortDir          string   `form:"sortDir"`
	CategoryID       uint     `form:"categoryId"`
	Tags             []string `form:"tags"`
	IngredientSearch string   `form:"ingredientSearch"`
	MinRating        float64  `form:"minRating"`
	TextSearch       string   `form:"textSearch"`
}

const (
	SortNewest     = "newest"
	SortRating     = "rating"
	SortPopularity = "popularity"
)

// Normalize applies paging and sorting defaults. The engine is stateless:
// a page past the end returns an empty item list with the correct total.
func (q *RecipeListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		q.PageSize = 12
	}
	switch q.SortBy {
	case SortRating, SortPopularity:
	default:
		q.SortBy = SortNewest
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}
}

type IngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type RecipeSummary struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	CategoryID     *uint      `json:"category_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ImagePath      string     `json:"image_path"`
	ImageCrop      *ImageCrop `json:"image_crop,omitempty"`
	AverageRating  float64    `json:"average_rating"`
	RatingsCount   int64      `json:"ratings_count"`
	FavoritesCount int64      `json:"favorites_count"`
	Tags           []string   `json:"tags"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type RecipeDetail struct {
	RecipeSummary
	Steps       []string         `json:"steps"`
	Ingredients []IngredientLine `json:"ingredients"`
	IsFavorite  bool             `json:"is_favorite"`
	MyRating    int              `json:"my_rating"`
}

type RecipePage struct {
	Items    []RecipeSummary `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

type RatingRequest struct {
	Value int `json:"value" binding:"required,min=1,max=5"`
}

type RatingSummary struct {
	RecipeID  uint    `json:"recipe_id"`
	AvgRating float64 `json:"avgRating"`
	Count     int64   `json:"count"`
	MyRating  *int    `json:"myRating,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	RecipeID  uint      `json:"recipe_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReportCreateRequest struct {
	TargetType string `json:"targetType" binding:"required"`
	TargetID   uint   `json:"targetId" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Details    string `json:"details"`
}

type ReportListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Status   string `form:"status"`
	Type     string `form:"type"`
}

type ReportPage struct {
	Items    []Report `json:"items"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

type UserView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserView(u User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type UserListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
	Role     string `form:"role"`
}

type UserPage struct {
	Items    []UserView `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

type UserUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
	Roles []int    `json:"roles"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}
