package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	recipeNotFound      = "Recipe not found"
	placeholderImageURL = "https://via.placeholder.com/350"
)

type RecipeHandler struct {
	recipes     RecipeStore
	broadcaster Broadcaster
	validator   *validator.Validate
}

func NewRecipeHandler(recipes RecipeStore, broadcaster Broadcaster) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		broadcaster: broadcaster,
		validator:   validator.New(),
	}
}

// GetCommunityRecipes lists every public recipe, newest first. No login needed.
func (h *RecipeHandler) GetCommunityRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListPublicRecipes(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetUserRecipes(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipes, err := h.recipes.ListRecipesByUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetSavedRecipes(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipes, err := h.recipes.ListSavedRecipes(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipe, ok := h.visibleRecipe(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	var req models.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &models.Recipe{
		User:        &models.Author{ID: userID},
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Calories:    req.Calories,
		CookTime:    req.CookTime,
		Servings:    req.Servings,
		ImageURL:    req.ImageURL,
		IsGenerated: req.IsGenerated,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}

	if err := h.recipes.CreateRecipe(c.Request.Context(), recipe); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipe, ok := h.ownedRecipe(c, userID)
	if !ok {
		return
	}

	var req models.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Ingredients != nil {
		recipe.Ingredients = req.Ingredients
	}
	if req.Steps != nil {
		recipe.Steps = req.Steps
	}
	if req.Calories != nil {
		recipe.Calories = req.Calories
	}
	if req.CookTime != nil {
		recipe.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		recipe.Servings = req.Servings
	}
	if req.ImageURL != nil {
		recipe.ImageURL = *req.ImageURL
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}
	if recipe.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	if err := h.recipes.UpdateRecipe(c.Request.Context(), recipe); err != nil {
		storeError(c, err, recipeNotFound)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipe, ok := h.ownedRecipe(c, userID)
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), recipe.ID); err != nil {
		storeError(c, err, recipeNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe removed"})
}

// GenerateRecipe returns a placeholder recipe built from the given
// ingredient names. Nothing is stored.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	if _, exists := auth.GetUserID(c); !exists {
		unauthenticated(c)
		return
	}

	var req models.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	c.JSON(http.StatusOK, generateRecipe(req))
}

func generateRecipe(req models.GenerateRecipeRequest) models.GeneratedRecipe {
	ingredients := make([]models.GeneratedIngredient, 0, len(req.Ingredients))
	for _, name := range req.Ingredients {
		ingredients = append(ingredients, models.GeneratedIngredient{Name: name, Quantity: "1", Unit: "unit"})
	}
	if req.Ingredients == nil {
		ingredients = append(ingredients, models.GeneratedIngredient{Name: "Sample Ingredient", Quantity: "1", Unit: "unit"})
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = placeholderImageURL
	}

	return models.GeneratedRecipe{
		Title:       "AI Generated Recipe",
		Description: "A delicious recipe generated based on your inputs",
		Ingredients: ingredients,
		Steps: []string{
			"Step 1: Prepare ingredients",
			"Step 2: Cook according to preferences",
			"Step 3: Enjoy!",
		},
		Calories:    350,
		CookTime:    "30 mins",
		Servings:    2,
		ImageURL:    imageURL,
		IsGenerated: true,
	}
}

func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipe, ok := h.visibleRecipe(c, userID)
	if !ok {
		return
	}

	saved, err := h.recipes.SaveRecipe(c.Request.Context(), userID, recipe.ID)
	savedResponse(c, saved, err, "Recipe already saved")
}

// UnsaveRecipe only needs the recipe to be in the caller's collection; a
// saved recipe that has since gone private can still be removed.
func (h *RecipeHandler) UnsaveRecipe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	id, ok := pathID(c, "id", recipeNotFound)
	if !ok {
		return
	}

	saved, err := h.recipes.UnsaveRecipe(c.Request.Context(), userID, id)
	savedResponse(c, saved, err, "Recipe has not been saved")
}

// savedResponse answers a save or unsave with the caller's saved ids.
func savedResponse(c *gin.Context, saved []string, err error, conflict string) {
	if errors.Is(err, models.ErrConflict) {
		c.JSON(http.StatusBadRequest, gin.H{"error": conflict})
		return
	}
	if err != nil {
		storeError(c, err, recipeNotFound)
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	h.like(c, "Recipe already liked", h.recipes.LikeRecipe)
}

func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	h.like(c, "Recipe has not yet been liked", h.recipes.UnlikeRecipe)
}

// like runs a like or unlike, answers with the recipe's likes and tells the
// recipe's subscribers.
func (h *RecipeHandler) like(c *gin.Context, conflict string, op func(ctx context.Context, recipeID, userID string) ([]string, error)) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipe, ok := h.visibleRecipe(c, userID)
	if !ok {
		return
	}

	likes, err := op(c.Request.Context(), recipe.ID, userID)
	if errors.Is(err, models.ErrConflict) {
		c.JSON(http.StatusBadRequest, gin.H{"error": conflict})
		return
	}
	if err != nil {
		storeError(c, err, recipeNotFound)
		return
	}

	h.broadcastRecipe(recipe.ID, gin.H{"likes": likes})
	c.JSON(http.StatusOK, likes)
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	recipe, ok := h.visibleRecipe(c, userID)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	comments, err := h.recipes.AddComment(c.Request.Context(), recipe.ID, userID, req.Text)
	if err != nil {
		storeError(c, err, recipeNotFound)
		return
	}

	h.broadcastRecipe(recipe.ID, gin.H{"comments": comments})
	c.JSON(http.StatusOK, comments)
}

// visibleRecipe loads the :id recipe. Private recipes are hidden from
// everyone but their owner.
func (h *RecipeHandler) visibleRecipe(c *gin.Context, userID string) (*models.Recipe, bool) {
	id, ok := pathID(c, "id", recipeNotFound)
	if !ok {
		return nil, false
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, recipeNotFound)
		return nil, false
	}
	if !recipe.IsPublic && !recipe.OwnedBy(userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": recipeNotFound})
		return nil, false
	}
	return recipe, true
}

func (h *RecipeHandler) ownedRecipe(c *gin.Context, userID string) (*models.Recipe, bool) {
	recipe, ok := h.visibleRecipe(c, userID)
	if !ok {
		return nil, false
	}
	if !recipe.OwnedBy(userID) {
		notAuthorized(c)
		return nil, false
	}
	return recipe, true
}

func (h *RecipeHandler) broadcastRecipe(recipeID string, data interface{}) {
	if h.broadcaster != nil {
		h.broadcaster.BroadcastRecipeUpdate(recipeID, data)
	}
}
