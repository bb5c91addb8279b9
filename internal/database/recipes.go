package database

import (
	"context"
	"fmt"

	"smartrecipe/internal/models"

	"github.com/jackc/pgx/v5"
)

type RecipeRepository struct {
	db *DB
}

func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

const recipeSelect = `
	SELECT r.id, r.user_id, COALESCE(u.name, ''), r.title, r.description,
	       r.ingredients, r.steps, r.calories, r.cook_time, r.servings,
	       r.image_url, r.is_generated, r.is_public, r.created_at
	FROM recipes r
	LEFT JOIN users u ON u.id = r.user_id`

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	var recipe models.Recipe
	var ownerID *string
	var ownerName string
	err := row.Scan(
		&recipe.ID, &ownerID, &ownerName, &recipe.Title, &recipe.Description,
		&recipe.Ingredients, &recipe.Steps, &recipe.Calories, &recipe.CookTime, &recipe.Servings,
		&recipe.ImageURL, &recipe.IsGenerated, &recipe.IsPublic, &recipe.Date)
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		recipe.User = &models.Author{ID: *ownerID, Name: ownerName}
	}
	recipe.Ingredients = emptyIfNil(recipe.Ingredients)
	recipe.Steps = emptyIfNil(recipe.Steps)
	recipe.Likes = []string{}
	recipe.Comments = []models.Comment{}
	return &recipe, nil
}

func (r *RecipeRepository) queryRecipes(ctx context.Context, query string, args ...interface{}) ([]models.Recipe, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachSocial(ctx, recipes); err != nil {
		return nil, err
	}

	result := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, *recipe)
	}
	return result, nil
}

// attachSocial fills likes (newest first) and comments (newest first) for a batch.
func (r *RecipeRepository) attachSocial(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	byID := make(map[string]*models.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT recipe_id, user_id FROM recipe_likes
		 WHERE recipe_id = ANY($1::text[]::uuid[])
		 ORDER BY seq DESC`, ids)
	if err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	for rows.Next() {
		var recipeID, userID string
		if err := rows.Scan(&recipeID, &userID); err != nil {
			rows.Close()
			return fmt.Errorf("scan like: %w", err)
		}
		byID[recipeID].Likes = append(byID[recipeID].Likes, userID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load likes: %w", err)
	}

	rows, err = r.db.Query(ctx,
		`SELECT c.recipe_id, c.id, c.user_id, COALESCE(u.name, ''), c.text, c.created_at
		 FROM recipe_comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 WHERE c.recipe_id = ANY($1::text[]::uuid[])
		 ORDER BY c.seq DESC`, ids)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID string
		comment, err := scanComment(rows, &recipeID)
		if err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		byID[recipeID].Comments = append(byID[recipeID].Comments, *comment)
	}
	return rows.Err()
}

func scanComment(row pgx.Row, recipeID *string) (*models.Comment, error) {
	var comment models.Comment
	var authorID *string
	var authorName string
	if err := row.Scan(recipeID, &comment.ID, &authorID, &authorName, &comment.Text, &comment.Date); err != nil {
		return nil, err
	}
	if authorID != nil {
		comment.User = &models.Author{ID: *authorID, Name: authorName}
	}
	return &comment, nil
}

func (r *RecipeRepository) ListPublicRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := r.queryRecipes(ctx, recipeSelect+` WHERE r.is_public ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list public recipes: %w", err)
	}
	return recipes, nil
}

func (r *RecipeRepository) ListRecipesByUser(ctx context.Context, userID string) ([]models.Recipe, error) {
	recipes, err := r.queryRecipes(ctx, recipeSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user recipes: %w", err)
	}
	return recipes, nil
}

// ListSavedRecipes returns the user's saved recipes in save order. Recipes
// their owner has since made private are left out but stay saved.
func (r *RecipeRepository) ListSavedRecipes(ctx context.Context, userID string) ([]models.Recipe, error) {
	recipes, err := r.queryRecipes(ctx, recipeSelect+`
		JOIN saved_recipes s ON s.recipe_id = r.id
		WHERE s.user_id = $1 AND (r.is_public OR r.user_id = $1)
		ORDER BY s.seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved recipes: %w", err)
	}
	return recipes, nil
}

func (r *RecipeRepository) ListLikedRecipeIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT recipe_id FROM recipe_likes WHERE user_id = $1 ORDER BY seq DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked recipes: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked recipe: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RecipeRepository) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := scanRecipe(r.db.QueryRow(ctx, recipeSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", translate(err))
	}
	if err := r.attachSocial(ctx, []*models.Recipe{recipe}); err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// CreateRecipe inserts recipe and fills in its id, date and author name.
func (r *RecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	var ownerID *string
	if recipe.User != nil {
		ownerID = &recipe.User.ID
	}
	var ownerName string
	err := r.db.QueryRow(ctx,
		`INSERT INTO recipes (user_id, title, description, ingredients, steps, calories,
		                      cook_time, servings, image_url, is_generated, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, COALESCE((SELECT name FROM users WHERE id = $1), '')`,
		ownerID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.Steps, recipe.Calories,
		recipe.CookTime, recipe.Servings, recipe.ImageURL, recipe.IsGenerated, recipe.IsPublic).Scan(
		&recipe.ID, &recipe.Date, &ownerName)
	if err != nil {
		return fmt.Errorf("create recipe: %w", translate(err))
	}
	if recipe.User != nil {
		recipe.User.Name = ownerName
	}
	recipe.Likes = []string{}
	recipe.Comments = []models.Comment{}
	return nil
}

func (r *RecipeRepository) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE recipes
		 SET title = $2, description = $3, ingredients = $4, steps = $5, calories = $6,
		     cook_time = $7, servings = $8, image_url = $9, is_public = $10
		 WHERE id = $1`,
		recipe.ID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.Steps, recipe.Calories,
		recipe.CookTime, recipe.Servings, recipe.ImageURL, recipe.IsPublic)
	if err != nil {
		return fmt.Errorf("update recipe: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update recipe: %w", models.ErrNotFound)
	}
	return nil
}

func (r *RecipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete recipe: %w", models.ErrNotFound)
	}
	return nil
}

// SaveRecipe adds a recipe to the user's collection. Saving twice yields
// models.ErrConflict. Returns the saved ids in save order.
func (r *RecipeRepository) SaveRecipe(ctx context.Context, userID, recipeID string) ([]string, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO saved_recipes (user_id, recipe_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, recipe_id) DO NOTHING`, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("save recipe: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("save recipe: %w", models.ErrConflict)
	}
	return r.savedRecipeIDs(ctx, userID)
}

// UnsaveRecipe removes a saved recipe; models.ErrConflict if it was not saved.
func (r *RecipeRepository) UnsaveRecipe(ctx context.Context, userID, recipeID string) ([]string, error) {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM saved_recipes WHERE user_id = $1 AND recipe_id = $2", userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("unsave recipe: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("unsave recipe: %w", models.ErrConflict)
	}
	return r.savedRecipeIDs(ctx, userID)
}

func (r *RecipeRepository) savedRecipeIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(array_agg(recipe_id::text ORDER BY seq), '{}')
		 FROM saved_recipes WHERE user_id = $1`, userID).Scan(&ids)
	if err != nil {
		return nil, fmt.Errorf("load saved recipes: %w", err)
	}
	return emptyIfNil(ids), nil
}

// LikeRecipe records a like; a second like by the same user is models.ErrConflict.
func (r *RecipeRepository) LikeRecipe(ctx context.Context, recipeID, userID string) ([]string, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO recipe_likes (recipe_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (recipe_id, user_id) DO NOTHING`, recipeID, userID)
	if err != nil {
		return nil, fmt.Errorf("like recipe: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("like recipe: %w", models.ErrConflict)
	}
	return r.likes(ctx, recipeID)
}

// UnlikeRecipe removes a like; models.ErrConflict if the user had not liked it.
func (r *RecipeRepository) UnlikeRecipe(ctx context.Context, recipeID, userID string) ([]string, error) {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2", recipeID, userID)
	if err != nil {
		return nil, fmt.Errorf("unlike recipe: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("unlike recipe: %w", models.ErrConflict)
	}
	return r.likes(ctx, recipeID)
}

func (r *RecipeRepository) likes(ctx context.Context, recipeID string) ([]string, error) {
	var ids []string
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(array_agg(user_id::text ORDER BY seq DESC), '{}')
		 FROM recipe_likes WHERE recipe_id = $1`, recipeID).Scan(&ids)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	return emptyIfNil(ids), nil
}

// AddComment stores a comment and returns every comment on the recipe, newest first.
func (r *RecipeRepository) AddComment(ctx context.Context, recipeID, userID, text string) ([]models.Comment, error) {
	_, err := r.db.Exec(ctx,
		"INSERT INTO recipe_comments (recipe_id, user_id, text) VALUES ($1, $2, $3)",
		recipeID, userID, text)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", translate(err))
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.recipe_id, c.id, c.user_id, COALESCE(u.name, ''), c.text, c.created_at
		 FROM recipe_comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 WHERE c.recipe_id = $1
		 ORDER BY c.seq DESC`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var id string
		comment, err := scanComment(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}
