package handlers

import (
	"net/http"
	"strings"
	"time"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/chatbot"
	"smartrecipe/internal/metrics"
	"smartrecipe/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ChatbotHandler struct {
	limiter   *chatbot.RateLimiter
	delay     time.Duration
	validator *validator.Validate
}

// NewChatbotHandler builds the handler. delay is how long each reply is held
// back before it is sent.
func NewChatbotHandler(limiter *chatbot.RateLimiter, delay time.Duration) *ChatbotHandler {
	return &ChatbotHandler{
		limiter:   limiter,
		delay:     delay,
		validator: validator.New(),
	}
}

func (h *ChatbotHandler) Chat(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if !h.limiter.Allow(userID) {
		metrics.ChatbotRateLimited()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":    "Rate limit exceeded. Please try again in a minute.",
			"fallback": true,
		})
		return
	}

	reply := chatbot.Reply(req.Message)

	if h.delay > 0 {
		timer := time.NewTimer(h.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			return
		}
	}

	c.JSON(http.StatusOK, models.ChatResponse{Response: reply})
}
