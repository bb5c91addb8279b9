package models

import "time"

// Author is the populated owner of a recipe or comment.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Recipe struct {
	ID          string    `json:"id" db:"id"`
	User        *Author   `json:"user" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Ingredients []string  `json:"ingredients" db:"ingredients"`
	Steps       []string  `json:"steps" db:"steps"`
	Calories    *int      `json:"calories" db:"calories"`
	CookTime    string    `json:"cook_time" db:"cook_time"`
	Servings    *int      `json:"servings" db:"servings"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	IsGenerated bool      `json:"is_generated" db:"is_generated"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
	Date        time.Time `json:"date" db:"created_at"`
}

// OwnedBy reports whether userID created the recipe.
func (r *Recipe) OwnedBy(userID string) bool {
	return r.User != nil && r.User.ID == userID
}

type Comment struct {
	ID   string    `json:"id" db:"id"`
	User *Author   `json:"user" db:"user_id"`
	Text string    `json:"text" db:"text"`
	Date time.Time `json:"date" db:"created_at"`
}

type CreateRecipeRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Steps       []string `json:"steps" validate:"required,min=1,dive,required"`
	Calories    *int     `json:"calories" validate:"omitempty,min=0"`
	CookTime    string   `json:"cook_time"`
	Servings    *int     `json:"servings" validate:"omitempty,min=0"`
	ImageURL    string   `json:"image_url"`
	IsGenerated bool     `json:"is_generated"`
	IsPublic    *bool    `json:"is_public"`
}

type UpdateRecipeRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Ingredients []string `json:"ingredients,omitempty" validate:"omitempty,min=1,dive,required"`
	Steps       []string `json:"steps,omitempty" validate:"omitempty,min=1,dive,required"`
	Calories    *int     `json:"calories,omitempty" validate:"omitempty,min=0"`
	CookTime    *string  `json:"cook_time,omitempty"`
	Servings    *int     `json:"servings,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string  `json:"image_url,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients"`
	ImageURL    string   `json:"image_url"`
}

type GeneratedIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// GeneratedRecipe is returned by the generator without being persisted.
type GeneratedRecipe struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Ingredients []GeneratedIngredient `json:"ingredients"`
	Steps       []string              `json:"steps"`
	Calories    int                   `json:"calories"`
	CookTime    string                `json:"cook_time"`
	Servings    int                   `json:"servings"`
	ImageURL    string                `json:"image_url"`
	IsGenerated bool                  `json:"is_generated"`
}
