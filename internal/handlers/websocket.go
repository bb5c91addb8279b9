package handlers

import (
	"context"
	"net/http"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		upgrader: websocket.NewUpgrader(allowedOrigins),
	}
}

// HandleWebSocket upgrades HTTP connection to WebSocket
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	h.hub.ServeWS(c, h.upgrader, userID)
}

// GetOnlineUsers returns list of currently online users
func (h *WebSocketHandler) GetOnlineUsers(c *gin.Context) {
	if _, exists := auth.GetUserID(c); !exists {
		unauthenticated(c)
		return
	}

	onlineUsers := h.hub.OnlineUsers()

	c.JSON(http.StatusOK, gin.H{
		"online_users": onlineUsers,
		"count":        len(onlineUsers),
	})
}

// RecipeSubscriptions lets a user follow a recipe's live updates only when
// they could read the recipe itself.
func RecipeSubscriptions(recipes RecipeStore) websocket.SubscribeCheck {
	return func(ctx context.Context, userID, recipeID string) bool {
		if _, err := uuid.Parse(recipeID); err != nil {
			return false
		}
		recipe, err := recipes.GetRecipe(ctx, recipeID)
		if err != nil {
			return false
		}
		return recipe.IsPublic || recipe.OwnedBy(userID)
	}
}
