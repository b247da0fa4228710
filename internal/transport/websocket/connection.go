package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/mwerner/shiftago/backend/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Connection holds a WebSocket connection bound to one game. All writes,
// including error replies from the read loop, must go through Send.
type Connection struct {
	GameID  string
	Conn    *websocket.Conn
	writeMu sync.Mutex
}

// Send marshals and writes the message, serialized by the connection's
// write mutex. Safe for concurrent use.
func (c *Connection) Send(message models.ServerMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) Close() error {
	return c.Conn.Close()
}

// ConnectionManager tracks the client connection of each game.
type ConnectionManager struct {
	connections map[string]*Connection // gameID → Connection
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*Connection),
	}
}

// AddConnection registers the connection for a game, replacing any previous
// one. The replaced connection is returned so the caller can close it.
func (cm *ConnectionManager) AddConnection(gameID string, connection *Connection) *Connection {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	var replaced *Connection
	if existing, exists := cm.connections[gameID]; exists {
		replaced = existing
	}
	connection.GameID = gameID
	cm.connections[gameID] = connection
	return replaced
}

func (cm *ConnectionManager) RemoveConnection(gameID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, gameID)
}

func (cm *ConnectionManager) SendMessage(gameID string, message models.ServerMessage) error {
	cm.mu.RLock()
	connection, exists := cm.connections[gameID]
	cm.mu.RUnlock()

	if !exists {
		return errors.Errorf("no connection for game %s", gameID)
	}
	return connection.Send(message)
}
