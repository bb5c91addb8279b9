package database

import (
	"context"
	"fmt"

	"smartrecipe/internal/models"
)

type MemoryRepository struct {
	db *DB
}

func NewMemoryRepository(db *DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

func (r *MemoryRepository) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, dish_name, description, created_at
		 FROM memories WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	memories := []models.Memory{}
	for rows.Next() {
		var memory models.Memory
		if err := rows.Scan(&memory.ID, &memory.UserID, &memory.DishName, &memory.Description, &memory.Date); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, memory)
	}
	return memories, rows.Err()
}

func (r *MemoryRepository) GetMemory(ctx context.Context, id string) (*models.Memory, error) {
	var memory models.Memory
	err := r.db.QueryRow(ctx,
		"SELECT id, user_id, dish_name, description, created_at FROM memories WHERE id = $1", id).Scan(
		&memory.ID, &memory.UserID, &memory.DishName, &memory.Description, &memory.Date)
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", translate(err))
	}
	return &memory, nil
}

func (r *MemoryRepository) CreateMemory(ctx context.Context, memory *models.Memory) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO memories (user_id, dish_name, description)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		memory.UserID, memory.DishName, memory.Description).Scan(&memory.ID, &memory.Date)
	if err != nil {
		return fmt.Errorf("create memory: %w", translate(err))
	}
	return nil
}

func (r *MemoryRepository) UpdateMemory(ctx context.Context, memory *models.Memory) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE memories SET dish_name = $2, description = $3 WHERE id = $1",
		memory.ID, memory.DishName, memory.Description)
	if err != nil {
		return fmt.Errorf("update memory: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update memory: %w", models.ErrNotFound)
	}
	return nil
}

func (r *MemoryRepository) DeleteMemory(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM memories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete memory: %w", models.ErrNotFound)
	}
	return nil
}
