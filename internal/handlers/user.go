package handlers

import (
	"net/http"

	"smartrecipe/internal/auth"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	recipes RecipeStore
}

func NewUserHandler(recipes RecipeStore) *UserHandler {
	return &UserHandler{recipes: recipes}
}

// GetLikes lists the ids of every recipe the caller has liked.
func (h *UserHandler) GetLikes(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	ids, err := h.recipes.ListLikedRecipeIDs(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, ids)
}
