package models

import "time"

// Memory is a flavor memory: a free-text personal note about a dish.
type Memory struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user" db:"user_id"`
	DishName    string    `json:"dish_name" db:"dish_name"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"created_at"`
}

type CreateMemoryRequest struct {
	DishName    string `json:"dish_name" validate:"max=255"`
	Description string `json:"description" validate:"required"`
}

type UpdateMemoryRequest struct {
	DishName    string `json:"dish_name" validate:"max=255"`
	Description string `json:"description"`
}
