package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// ClientMessage represents incoming messages from clients
type ClientMessage struct {
	Type     string `json:"type"`
	RecipeID string `json:"recipe_id,omitempty"`
}

// Client message types
const (
	ClientMessageSubscribe   = "subscribe"
	ClientMessageUnsubscribe = "unsubscribe"
	ClientMessagePing        = "ping"
)

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client", c.ID).Msg("WebSocket read error")
			}
			break
		}

		var clientMessage ClientMessage
		if err := json.Unmarshal(messageBytes, &clientMessage); err != nil {
			log.Debug().Err(err).Str("client", c.ID).Msg("Failed to unmarshal client message")
			continue
		}

		if response, ok := c.handleClientMessage(clientMessage); ok {
			c.reply(response)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			message.Time = time.Now().Unix()
			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply queues a direct response. It goes through the hub's lock so it never
// races with the hub closing Send.
func (c *Client) reply(message Message) {
	c.Hub.mutex.RLock()
	defer c.Hub.mutex.RUnlock()

	if !c.Hub.clients[c.UserID][c] {
		return
	}
	select {
	case c.Send <- message:
	default:
		log.Debug().Str("client", c.ID).Msg("Send buffer full, dropping reply")
	}
}

// handleClientMessage applies a client command and returns the response to send.
func (c *Client) handleClientMessage(message ClientMessage) (Message, bool) {
	switch message.Type {
	case ClientMessageSubscribe:
		if message.RecipeID == "" {
			return Message{}, false
		}
		if !c.Hub.allowSubscription(c.UserID, message.RecipeID) {
			return Message{
				Type:     "error",
				RecipeID: message.RecipeID,
				Data:     map[string]interface{}{"recipe_id": message.RecipeID, "error": "Recipe not found"},
			}, true
		}
		c.SubscribeToRecipe(message.RecipeID)
		return Message{
			Type:     "subscribed",
			RecipeID: message.RecipeID,
			Data:     map[string]interface{}{"recipe_id": message.RecipeID, "status": "subscribed"},
		}, true

	case ClientMessageUnsubscribe:
		if message.RecipeID == "" {
			return Message{}, false
		}
		c.UnsubscribeFromRecipe(message.RecipeID)
		return Message{
			Type:     "unsubscribed",
			RecipeID: message.RecipeID,
			Data:     map[string]interface{}{"recipe_id": message.RecipeID, "status": "unsubscribed"},
		}, true

	case ClientMessagePing:
		return Message{
			Type: "pong",
			Data: map[string]interface{}{"timestamp": time.Now().Unix()},
		}, true
	}

	log.Debug().Str("client", c.ID).Str("type", message.Type).Msg("Unknown client message type")
	return Message{}, false
}
