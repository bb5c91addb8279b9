package handlers

import (
	"context"
	"errors"
	"net/http"

	"smartrecipe/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type RecipeStore interface {
	ListPublicRecipes(ctx context.Context) ([]models.Recipe, error)
	ListRecipesByUser(ctx context.Context, userID string) ([]models.Recipe, error)
	ListSavedRecipes(ctx context.Context, userID string) ([]models.Recipe, error)
	ListLikedRecipeIDs(ctx context.Context, userID string) ([]string, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	SaveRecipe(ctx context.Context, userID, recipeID string) ([]string, error)
	UnsaveRecipe(ctx context.Context, userID, recipeID string) ([]string, error)
	LikeRecipe(ctx context.Context, recipeID, userID string) ([]string, error)
	UnlikeRecipe(ctx context.Context, recipeID, userID string) ([]string, error)
	AddComment(ctx context.Context, recipeID, userID, text string) ([]models.Comment, error)
}

type GroceryStore interface {
	ListGroceryLists(ctx context.Context, userID string) ([]models.GroceryList, error)
	GetGroceryList(ctx context.Context, id string) (*models.GroceryList, error)
	CreateGroceryList(ctx context.Context, list *models.GroceryList) error
	UpdateGroceryList(ctx context.Context, list *models.GroceryList) error
	DeleteGroceryList(ctx context.Context, id string) error
	AddGroceryItem(ctx context.Context, listID string, item models.GroceryItem) (*models.GroceryList, error)
	ToggleGroceryItem(ctx context.Context, listID, itemID string) (*models.GroceryList, error)
	RemoveGroceryItem(ctx context.Context, listID, itemID string) (*models.GroceryList, error)
	SuggestGroceryItems(ctx context.Context, userID, query string, limit int) ([]models.GrocerySuggestion, error)
}

type MemoryStore interface {
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
	GetMemory(ctx context.Context, id string) (*models.Memory, error)
	CreateMemory(ctx context.Context, memory *models.Memory) error
	UpdateMemory(ctx context.Context, memory *models.Memory) error
	DeleteMemory(ctx context.Context, id string) error
}

// Broadcaster pushes realtime updates to connected clients. A nil
// Broadcaster is allowed and sends nothing.
type Broadcaster interface {
	BroadcastRecipeUpdate(recipeID string, data interface{})
	BroadcastGroceryUpdate(userID string, data interface{})
}

// pathID reads a UUID path parameter. Anything that is not a UUID cannot name
// an existing record, so it is answered with 404 and notFound.
func pathID(c *gin.Context, name, notFound string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return "", false
	}
	return id, true
}

// storeError answers a repository error: ErrNotFound becomes 404 with
// notFound, everything else is logged and hidden behind a 500.
func storeError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	serverError(c, err)
}

func serverError(c *gin.Context, err error) {
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("route", c.FullPath()).
		Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

func unauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
}

func notAuthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
}
