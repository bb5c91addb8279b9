package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{
		ID:      generateClientID(),
		UserID:  userID,
		Hub:     hub,
		Send:    make(chan Message, 4),
		Recipes: make(map[string]bool),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case m := <-c.Send:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case m := <-c.Send:
		t.Fatalf("unexpected message %+v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecipeUpdateReachesSubscribersOnly(t *testing.T) {
	hub := startHub(t)
	watcher := newTestClient(hub, "u1")
	watcher.SubscribeToRecipe("r1")
	bystander := newTestClient(hub, "u2")
	hub.Register <- watcher
	hub.Register <- bystander

	hub.BroadcastRecipeUpdate("r1", map[string]int{"likes": 3})

	m := receive(t, watcher)
	assert.Equal(t, MessageTypeRecipeUpdate, m.Type)
	assert.Equal(t, "r1", m.RecipeID)
	assertNothing(t, bystander)
}

func TestGroceryUpdateReachesEverySessionOfOwner(t *testing.T) {
	hub := startHub(t)
	phone := newTestClient(hub, "owner")
	laptop := newTestClient(hub, "owner")
	stranger := newTestClient(hub, "someone-else")
	hub.Register <- phone
	hub.Register <- laptop
	hub.Register <- stranger

	hub.BroadcastGroceryUpdate("owner", "list")

	assert.Equal(t, MessageTypeGroceryUpdate, receive(t, phone).Type)
	assert.Equal(t, MessageTypeGroceryUpdate, receive(t, laptop).Type)
	assertNothing(t, stranger)
	assert.ElementsMatch(t, []string{"owner", "someone-else"}, hub.OnlineUsers())
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := newTestClient(hub, "u1")
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHandleClientMessage(t *testing.T) {
	c := newTestClient(NewHub(), "u1")

	resp, ok := c.handleClientMessage(ClientMessage{Type: ClientMessageSubscribe, RecipeID: "r9"})
	require.True(t, ok)
	assert.Equal(t, "subscribed", resp.Type)
	assert.True(t, c.subscribed("r9"))

	resp, ok = c.handleClientMessage(ClientMessage{Type: ClientMessageUnsubscribe, RecipeID: "r9"})
	require.True(t, ok)
	assert.Equal(t, "unsubscribed", resp.Type)
	assert.False(t, c.subscribed("r9"))

	_, ok = c.handleClientMessage(ClientMessage{Type: ClientMessageSubscribe})
	assert.False(t, ok)

	resp, ok = c.handleClientMessage(ClientMessage{Type: ClientMessagePing})
	require.True(t, ok)
	assert.Equal(t, "pong", resp.Type)

	_, ok = c.handleClientMessage(ClientMessage{Type: "dance"})
	assert.False(t, ok)
}

func TestSubscribeCheck(t *testing.T) {
	hub := NewHub()
	hub.SetSubscribeCheck(func(_ context.Context, userID, recipeID string) bool {
		return recipeID == "public" || userID == "owner"
	})

	visitor := newTestClient(hub, "visitor")
	resp, ok := visitor.handleClientMessage(ClientMessage{Type: ClientMessageSubscribe, RecipeID: "private"})
	require.True(t, ok)
	assert.Equal(t, "error", resp.Type)
	assert.False(t, visitor.subscribed("private"))

	resp, ok = visitor.handleClientMessage(ClientMessage{Type: ClientMessageSubscribe, RecipeID: "public"})
	require.True(t, ok)
	assert.Equal(t, "subscribed", resp.Type)

	owner := newTestClient(hub, "owner")
	resp, ok = owner.handleClientMessage(ClientMessage{Type: ClientMessageSubscribe, RecipeID: "private"})
	require.True(t, ok)
	assert.Equal(t, "subscribed", resp.Type)
	assert.True(t, owner.subscribed("private"))
}

func TestNewUpgraderChecksOrigin(t *testing.T) {
	upgrader := NewUpgrader([]string{"http://localhost:3000"})

	req := httptest.NewRequest("GET", "/ws", nil)
	assert.True(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example.com")
	assert.False(t, upgrader.CheckOrigin(req))
}

func TestServeWSEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	upgrader := NewUpgrader(nil)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c, upgrader, "u1")
	})
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: ClientMessageSubscribe, RecipeID: "r1"}))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var ack Message
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "subscribed", ack.Type)

	hub.BroadcastRecipeUpdate("r1", map[string]string{"event": "comment"})

	var update Message
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, MessageTypeRecipeUpdate, update.Type)
	assert.Equal(t, "r1", update.RecipeID)
	assert.NotZero(t, update.Time)
}
