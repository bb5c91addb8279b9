package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	groceryListNotFound = "Grocery list not found"
	groceryItemNotFound = "Item not found"

	defaultSuggestionLimit = 20
	maxSuggestionLimit     = 100
)

type GroceryHandler struct {
	lists       GroceryStore
	broadcaster Broadcaster
	validator   *validator.Validate
}

func NewGroceryHandler(lists GroceryStore, broadcaster Broadcaster) *GroceryHandler {
	return &GroceryHandler{
		lists:       lists,
		broadcaster: broadcaster,
		validator:   validator.New(),
	}
}

func (h *GroceryHandler) GetLists(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	lists, err := h.lists.ListGroceryLists(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

func (h *GroceryHandler) CreateList(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	var req models.CreateGroceryListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := &models.GroceryList{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Items:  req.Items,
	}
	if list.Name == "" {
		list.Name = models.DefaultGroceryListName
	}

	if err := h.lists.CreateGroceryList(c.Request.Context(), list); err != nil {
		serverError(c, err)
		return
	}

	h.broadcast(list)
	c.JSON(http.StatusCreated, list)
}

func (h *GroceryHandler) UpdateList(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}

	var req models.UpdateGroceryListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		list.Name = strings.TrimSpace(*req.Name)
	}
	if req.Items != nil {
		list.Items = req.Items
	}

	if err := h.lists.UpdateGroceryList(c.Request.Context(), list); err != nil {
		storeError(c, err, groceryListNotFound)
		return
	}

	h.broadcast(list)
	c.JSON(http.StatusOK, list)
}

func (h *GroceryHandler) DeleteList(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}

	if err := h.lists.DeleteGroceryList(c.Request.Context(), list.ID); err != nil {
		storeError(c, err, groceryListNotFound)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastGroceryUpdate(userID, gin.H{"deleted": list.ID})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Grocery list removed"})
}

func (h *GroceryHandler) AddItem(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}

	var req models.AddGroceryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.lists.AddGroceryItem(c.Request.Context(), list.ID, models.GroceryItem{
		Name:     req.Name,
		Quantity: req.Quantity,
	})
	if err != nil {
		storeError(c, err, groceryListNotFound)
		return
	}

	h.broadcast(updated)
	c.JSON(http.StatusOK, updated)
}

// ToggleItem flips one item's checked flag. The store does it in a single
// statement, so every call is one flip even under concurrency.
func (h *GroceryHandler) ToggleItem(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id", groceryItemNotFound)
	if !ok {
		return
	}

	updated, err := h.lists.ToggleGroceryItem(c.Request.Context(), list.ID, itemID)
	if err != nil {
		storeError(c, err, groceryItemNotFound)
		return
	}

	h.broadcast(updated)
	c.JSON(http.StatusOK, updated)
}

func (h *GroceryHandler) RemoveItem(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id", groceryItemNotFound)
	if !ok {
		return
	}

	updated, err := h.lists.RemoveGroceryItem(c.Request.Context(), list.ID, itemID)
	if err != nil {
		storeError(c, err, groceryItemNotFound)
		return
	}

	h.broadcast(updated)
	c.JSON(http.StatusOK, updated)
}

// GetSuggestions autocompletes item names from the caller's past lists.
func (h *GroceryHandler) GetSuggestions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthenticated(c)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	limitStr := c.DefaultQuery("limit", strconv.Itoa(defaultSuggestionLimit))

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > maxSuggestionLimit {
		limit = defaultSuggestionLimit
	}

	suggestions, err := h.lists.SuggestGroceryItems(c.Request.Context(), userID, query, limit)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": suggestions})
}

func (h *GroceryHandler) ownedList(c *gin.Context, userID string) (*models.GroceryList, bool) {
	id, ok := pathID(c, "id", groceryListNotFound)
	if !ok {
		return nil, false
	}

	list, err := h.lists.GetGroceryList(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, groceryListNotFound)
		return nil, false
	}
	if list.UserID != userID {
		notAuthorized(c)
		return nil, false
	}
	return list, true
}

func (h *GroceryHandler) broadcast(list *models.GroceryList) {
	if h.broadcaster != nil {
		h.broadcaster.BroadcastGroceryUpdate(list.UserID, list)
	}
}
