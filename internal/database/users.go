package database

import (
	"context"
	"fmt"

	"smartrecipe/internal/models"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a user; a taken email yields models.ErrConflict.
func (r *UserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	user := models.User{SavedRecipes: []string{}, GroceryLists: []string{}}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, email, password_hash, created_at`,
		name, email, passwordHash).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Date)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", translate(err))
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM users WHERE LOWER(email) = LOWER($1)`,
		email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Date)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err))
	}
	return &user, nil
}

// GetUserByID loads the user together with saved recipe and grocery list ids.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT u.id, u.name, u.email, u.password_hash, u.created_at,
		        COALESCE((SELECT array_agg(s.recipe_id::text ORDER BY s.seq)
		                  FROM saved_recipes s WHERE s.user_id = u.id), '{}'),
		        COALESCE((SELECT array_agg(g.id::text ORDER BY g.created_at)
		                  FROM grocery_lists g WHERE g.user_id = u.id), '{}')
		 FROM users u WHERE u.id = $1`,
		id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Date,
		&user.SavedRecipes, &user.GroceryLists)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", translate(err))
	}
	return &user, nil
}
