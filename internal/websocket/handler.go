package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"chatrelay/internal/domain/chat"
	"chatrelay/internal/events"
	"chatrelay/internal/services"
	"chatrelay/internal/transport/httpdto"
	"chatrelay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	auth *services.AuthService
	bus  *events.Bus
	log  *logger.Logger
}

func NewHandler(auth *services.AuthService, bus *events.Bus, log *logger.Logger) *Handler {
	return &Handler{auth: auth, bus: bus, log: log}
}

// chatCreatedMessage is the wire shape of one subscription event.
type chatCreatedMessage struct {
	Topic     string          `json:"topic"`
	Payload   httpdto.ChatDTO `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// ChatCreated upgrades the connection and streams chat-creation events
// whose creator matches the subscriber. Events for other users are dropped
// for this subscriber, not queued; nothing published before the
// subscription is ever delivered.
func (h *Handler) ChatCreated(c *gin.Context) {
	token := c.Query("token")
	userID, _, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID)
	sub := h.bus.Subscribe(events.TopicChatCreated)
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.WriteLoop(ctx)
	go h.forward(sub, client)

	// Read loop exists only to notice the peer going away.
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
	}
}

// forward applies the delivery filter once per event per subscriber.
func (h *Handler) forward(sub *events.Subscription, client *Client) {
	for event := range sub.C {
		created, ok := event.Payload.(chat.Chat)
		if !ok || created.CreatorID != client.UserID {
			continue
		}

		data, err := json.Marshal(chatCreatedMessage{
			Topic:     event.Topic,
			Payload:   httpdto.FromChat(created),
			Timestamp: event.Timestamp,
		})
		if err != nil {
			if h.log != nil {
				h.log.Errorf("failed to marshal chat created event: %s", err)
			}
			continue
		}
		client.SendMessage(data)
	}
}
