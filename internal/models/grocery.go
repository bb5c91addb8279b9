package models

import "time"

const DefaultGroceryListName = "My Grocery List"

type GroceryList struct {
	ID     string        `json:"id" db:"id"`
	UserID string        `json:"user" db:"user_id"`
	Name   string        `json:"name" db:"name"`
	Items  []GroceryItem `json:"items"`
	Date   time.Time     `json:"date" db:"created_at"`
}

type GroceryItem struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" db:"quantity" validate:"max=100"`
	Checked  bool   `json:"checked" db:"checked"`
}

type CreateGroceryListRequest struct {
	Name  string        `json:"name" validate:"max=255"`
	Items []GroceryItem `json:"items" validate:"dive"`
}

type UpdateGroceryListRequest struct {
	Name  *string       `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Items []GroceryItem `json:"items,omitempty" validate:"omitempty,dive"`
}

type AddGroceryItemRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" validate:"max=100"`
}

// GrocerySuggestion is an item name the user has put on their lists before.
type GrocerySuggestion struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}
