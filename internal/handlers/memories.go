package handlers

import (
	"net/http"
	"strings"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const memoryNotFound = "Memory not found"

type MemoryHandler struct {
	memories  MemoryStore
	validator *validator.Validate
}

func NewMemoryHandler(memories MemoryStore) *MemoryHandler {
	return &MemoryHandler{
		memories:  memories,
		validator: validator.New(),
	}
}

func (h *MemoryHandler) GetMemories(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	memories, err := h.memories.ListMemories(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, memories)
}

func (h *MemoryHandler) CreateMemory(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	var req models.CreateMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required"})
		return
	}

	memory := &models.Memory{
		UserID:      userID,
		DishName:    strings.TrimSpace(req.DishName),
		Description: req.Description,
	}
	if err := h.memories.CreateMemory(c.Request.Context(), memory); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, memory)
}

// UpdateMemory replaces the fields that are present and non-empty.
func (h *MemoryHandler) UpdateMemory(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	memory, ok := h.ownedMemory(c, userID)
	if !ok {
		return
	}

	var req models.UpdateMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if name := strings.TrimSpace(req.DishName); name != "" {
		memory.DishName = name
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		memory.Description = desc
	}

	if err := h.memories.UpdateMemory(c.Request.Context(), memory); err != nil {
		storeError(c, err, memoryNotFound)
		return
	}

	c.JSON(http.StatusOK, memory)
}

func (h *MemoryHandler) DeleteMemory(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	memory, ok := h.ownedMemory(c, userID)
	if !ok {
		return
	}

	if err := h.memories.DeleteMemory(c.Request.Context(), memory.ID); err != nil {
		storeError(c, err, memoryNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Memory removed"})
}

func (h *MemoryHandler) ownedMemory(c *gin.Context, userID string) (*models.Memory, bool) {
	id, ok := pathID(c, "id", memoryNotFound)
	if !ok {
		return nil, false
	}

	memory, err := h.memories.GetMemory(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, memoryNotFound)
		return nil, false
	}
	if memory.UserID != userID {
		notAuthorized(c)
		return nil, false
	}
	return memory, true
}
