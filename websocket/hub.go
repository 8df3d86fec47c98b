package websocket

import (
	"sync"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Event is the frame pushed to a connected user.
type Event struct {
	Type     string          `json:"type"`
	Activity models.Activity `json:"activity"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan models.Activity, 256)

func RunHub() {
	for {
		select {
		case client := <-Register:
			logger.Log.Debug("websocket client registered", zap.String("user_id", client.UserID.String()))
			clientsMu.Lock()
			if old, ok := clients[client.UserID]; ok && old != client.Conn {
				_ = old.Close()
			}
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			logger.Log.Debug("websocket client unregistered", zap.String("user_id", client.UserID.String()))
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case activity := <-Broadcast:
			deliver(activity)
		}
	}
}

func deliver(activity models.Activity) {
	if activity.UserID == nil {
		return
	}
	userID := *activity.UserID

	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(Event{Type: "activity", Activity: activity}); err != nil {
		logger.Log.Warn("websocket write failed", zap.String("user_id", userID.String()), zap.Error(err))
		_ = conn.Close()
		clientsMu.Lock()
		if current, ok := clients[userID]; ok && current == conn {
			delete(clients, userID)
		}
		clientsMu.Unlock()
	}
}

// NotifyActivity queues an activity for its owner. It never blocks; events for
// offline users, or arriving while the hub is saturated, are dropped.
func NotifyActivity(activity models.Activity) {
	if activity.UserID == nil || !Connected(*activity.UserID) {
		return
	}
	select {
	case Broadcast <- activity:
	default:
		logger.Log.Warn("websocket hub saturated, dropping activity", zap.String("activity_id", activity.ID.String()))
	}
}

// Connected reports whether the user currently has a live socket.
func Connected(userID uuid.UUID) bool {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	_, ok := clients[userID]
	return ok
}
