package database

import (
	"context"
	"fmt"

	"smartrecipe/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type GroceryRepository struct {
	db *DB
}

func NewGroceryRepository(db *DB) *GroceryRepository {
	return &GroceryRepository{db: db}
}

func (r *GroceryRepository) ListGroceryLists(ctx context.Context, userID string) ([]models.GroceryList, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, created_at FROM grocery_lists
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list grocery lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.GroceryList
	for rows.Next() {
		var list models.GroceryList
		if err := rows.Scan(&list.ID, &list.UserID, &list.Name, &list.Date); err != nil {
			return nil, fmt.Errorf("scan grocery list: %w", err)
		}
		list.Items = []models.GroceryItem{}
		lists = append(lists, &list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list grocery lists: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, lists); err != nil {
		return nil, err
	}

	result := make([]models.GroceryList, 0, len(lists))
	for _, list := range lists {
		result = append(result, *list)
	}
	return result, nil
}

func (r *GroceryRepository) attachItems(ctx context.Context, lists []*models.GroceryList) error {
	if len(lists) == 0 {
		return nil
	}
	byID := make(map[string]*models.GroceryList, len(lists))
	ids := make([]string, 0, len(lists))
	for _, list := range lists {
		byID[list.ID] = list
		ids = append(ids, list.ID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT list_id, id, name, quantity, checked FROM grocery_items
		 WHERE list_id = ANY($1::text[]::uuid[])
		 ORDER BY seq`, ids)
	if err != nil {
		return fmt.Errorf("load grocery items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID string
		var item models.GroceryItem
		if err := rows.Scan(&listID, &item.ID, &item.Name, &item.Quantity, &item.Checked); err != nil {
			return fmt.Errorf("scan grocery item: %w", err)
		}
		byID[listID].Items = append(byID[listID].Items, item)
	}
	return rows.Err()
}

func (r *GroceryRepository) GetGroceryList(ctx context.Context, id string) (*models.GroceryList, error) {
	var list models.GroceryList
	err := r.db.QueryRow(ctx,
		"SELECT id, user_id, name, created_at FROM grocery_lists WHERE id = $1", id).Scan(
		&list.ID, &list.UserID, &list.Name, &list.Date)
	if err != nil {
		return nil, fmt.Errorf("get grocery list: %w", translate(err))
	}
	list.Items = []models.GroceryItem{}
	if err := r.attachItems(ctx, []*models.GroceryList{&list}); err != nil {
		return nil, fmt.Errorf("get grocery list: %w", err)
	}
	return &list, nil
}

// CreateGroceryList inserts the list and its items in one transaction.
func (r *GroceryRepository) CreateGroceryList(ctx context.Context, list *models.GroceryList) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			"INSERT INTO grocery_lists (user_id, name) VALUES ($1, $2) RETURNING id, created_at",
			list.UserID, list.Name).Scan(&list.ID, &list.Date)
		if err != nil {
			return err
		}
		return insertItems(ctx, tx, list)
	})
	if err != nil {
		return fmt.Errorf("create grocery list: %w", translate(err))
	}
	return nil
}

// UpdateGroceryList stores the name and replaces the items with list.Items,
// keeping existing item ids where they are valid and unique.
func (r *GroceryRepository) UpdateGroceryList(ctx context.Context, list *models.GroceryList) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE grocery_lists SET name = $2 WHERE id = $1", list.ID, list.Name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		if _, err := tx.Exec(ctx, "DELETE FROM grocery_items WHERE list_id = $1", list.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, list)
	})
	if err != nil {
		return fmt.Errorf("update grocery list: %w", translate(err))
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, list *models.GroceryList) error {
	seen := make(map[string]bool, len(list.Items))
	for i := range list.Items {
		item := &list.Items[i]
		if _, err := uuid.Parse(item.ID); err != nil || seen[item.ID] {
			item.ID = uuid.NewString()
		}
		seen[item.ID] = true
		_, err := tx.Exec(ctx,
			"INSERT INTO grocery_items (id, list_id, name, quantity, checked) VALUES ($1, $2, $3, $4, $5)",
			item.ID, list.ID, item.Name, item.Quantity, item.Checked)
		if err != nil {
			return err
		}
	}
	if list.Items == nil {
		list.Items = []models.GroceryItem{}
	}
	return nil
}

func (r *GroceryRepository) DeleteGroceryList(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM grocery_lists WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete grocery list: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete grocery list: %w", models.ErrNotFound)
	}
	return nil
}

// AddGroceryItem appends an unchecked item and returns the updated list.
func (r *GroceryRepository) AddGroceryItem(ctx context.Context, listID string, item models.GroceryItem) (*models.GroceryList, error) {
	_, err := r.db.Exec(ctx,
		"INSERT INTO grocery_items (list_id, name, quantity, checked) VALUES ($1, $2, $3, false)",
		listID, item.Name, item.Quantity)
	if err != nil {
		return nil, fmt.Errorf("add grocery item: %w", translate(err))
	}
	return r.GetGroceryList(ctx, listID)
}

// ToggleGroceryItem flips checked in a single statement so concurrent toggles
// never collapse into one.
func (r *GroceryRepository) ToggleGroceryItem(ctx context.Context, listID, itemID string) (*models.GroceryList, error) {
	tag, err := r.db.Exec(ctx,
		"UPDATE grocery_items SET checked = NOT checked WHERE id = $1 AND list_id = $2",
		itemID, listID)
	if err != nil {
		return nil, fmt.Errorf("toggle grocery item: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("toggle grocery item: %w", models.ErrNotFound)
	}
	return r.GetGroceryList(ctx, listID)
}

func (r *GroceryRepository) RemoveGroceryItem(ctx context.Context, listID, itemID string) (*models.GroceryList, error) {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM grocery_items WHERE id = $1 AND list_id = $2", itemID, listID)
	if err != nil {
		return nil, fmt.Errorf("remove grocery item: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("remove grocery item: %w", models.ErrNotFound)
	}
	return r.GetGroceryList(ctx, listID)
}

// SuggestGroceryItems returns item names from the user's lists, most used
// first. query filters by case-insensitive substring; empty matches all.
func (r *GroceryRepository) SuggestGroceryItems(ctx context.Context, userID, query string, limit int) ([]models.GrocerySuggestion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT LOWER(i.name) AS item, COUNT(*) AS frequency
		 FROM grocery_items i
		 JOIN grocery_lists l ON l.id = i.list_id
		 WHERE l.user_id = $1 AND strpos(LOWER(i.name), LOWER($2::text)) > 0
		 GROUP BY item
		 ORDER BY frequency DESC, item
		 LIMIT $3`, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest grocery items: %w", err)
	}
	defer rows.Close()

	suggestions := []models.GrocerySuggestion{}
	for rows.Next() {
		var s models.GrocerySuggestion
		if err := rows.Scan(&s.Name, &s.Frequency); err != nil {
			return nil, fmt.Errorf("scan grocery suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}
