package websocket

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Message types for real-time updates
const (
	MessageTypeRecipeUpdate  = "recipe_update"
	MessageTypeGroceryUpdate = "grocery_update"
)

// Message is the envelope pushed to clients.
type Message struct {
	Type     string      `json:"type"`
	UserID   string      `json:"user_id,omitempty"`
	RecipeID string      `json:"recipe_id,omitempty"`
	Data     interface{} `json:"data"`
	Time     int64       `json:"time"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID      string
	UserID  string
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan Message
	Recipes map[string]bool // recipes this client is subscribed to
	mutex   sync.RWMutex
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Message

	// done is closed once Run returns.
	done chan struct{}

	canSubscribe SubscribeCheck

	mutex sync.RWMutex
}

const (
	broadcastBuffer = 256

	subscribeCheckTimeout = 5 * time.Second
)

// SubscribeCheck reports whether userID may follow updates of recipeID.
type SubscribeCheck func(ctx context.Context, userID, recipeID string) bool

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Message, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// SetSubscribeCheck installs the check applied to every recipe subscription.
// Without one all subscriptions are accepted. Call it before serving clients.
func (h *Hub) SetSubscribeCheck(check SubscribeCheck) {
	h.canSubscribe = check
}

func (h *Hub) allowSubscription(userID, recipeID string) bool {
	if h.canSubscribe == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), subscribeCheckTimeout)
	defer cancel()
	return h.canSubscribe(ctx, userID, recipeID)
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	log.Debug().Str("client", client.ID).Str("user_id", client.UserID).
		Int("sessions", len(h.clients[client.UserID])).Msg("WebSocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client; the caller holds the write lock.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.UserID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.UserID)
	}
	log.Debug().Str("client", client.ID).Str("user_id", client.UserID).Msg("WebSocket client unregistered")
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// broadcastMessage sends a message to relevant clients. Clients whose send
// buffer is full are dropped.
func (h *Hub) broadcastMessage(message Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var targets []*Client
	switch message.Type {
	case MessageTypeRecipeUpdate:
		for _, clients := range h.clients {
			for client := range clients {
				if client.subscribed(message.RecipeID) {
					targets = append(targets, client)
				}
			}
		}
	case MessageTypeGroceryUpdate:
		for client := range h.clients[message.UserID] {
			targets = append(targets, client)
		}
	}

	for _, client := range targets {
		select {
		case client.Send <- message:
		default:
			h.removeLocked(client)
		}
	}
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.Broadcast <- message:
	default:
		log.Warn().Str("type", message.Type).Msg("WebSocket broadcast queue full, dropping message")
	}
}

// BroadcastRecipeUpdate notifies subscribers of a recipe about new likes or comments.
func (h *Hub) BroadcastRecipeUpdate(recipeID string, data interface{}) {
	h.enqueue(Message{Type: MessageTypeRecipeUpdate, RecipeID: recipeID, Data: data})
}

// BroadcastGroceryUpdate pushes a changed grocery list to every session of its owner.
func (h *Hub) BroadcastGroceryUpdate(userID string, data interface{}) {
	h.enqueue(Message{Type: MessageTypeGroceryUpdate, UserID: userID, Data: data})
}

// OnlineUsers returns the ids of users with at least one open session.
func (h *Hub) OnlineUsers() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	onlineUsers := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		onlineUsers = append(onlineUsers, userID)
	}
	return onlineUsers
}

func (c *Client) SubscribeToRecipe(recipeID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.Recipes == nil {
		c.Recipes = make(map[string]bool)
	}
	c.Recipes[recipeID] = true
}

func (c *Client) UnsubscribeFromRecipe(recipeID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.Recipes, recipeID)
}

func (c *Client) subscribed(recipeID string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.Recipes[recipeID]
}

// NewUpgrader accepts handshakes from the allowed origins only. Requests
// without an Origin header (non-browser clients) are accepted.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
	}
}

// ServeWS upgrades the request and starts the client's pumps.
func (h *Hub) ServeWS(c *gin.Context, upgrader websocket.Upgrader, userID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		ID:      generateClientID(),
		UserID:  userID,
		Hub:     h,
		Conn:    conn,
		Send:    make(chan Message, 256),
		Recipes: make(map[string]bool),
	}

	select {
	case h.Register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func generateClientID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return "client_" + hex.EncodeToString(bytes)
}
