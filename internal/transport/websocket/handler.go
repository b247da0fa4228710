package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mwerner/shiftago/backend/internal/models"
	"github.com/mwerner/shiftago/backend/internal/service/game"
	"github.com/mwerner/shiftago/backend/pkg/auth"
)

// Handler serves the game websocket endpoint.
type Handler struct {
	sessions       *game.SessionManager
	connections    *ConnectionManager
	jwtSecret      string
	allowedOrigins []string
	logger         *zap.SugaredLogger
}

func NewHandler(sessions *game.SessionManager, connections *ConnectionManager,
	jwtSecret string, allowedOrigins []string, logger *zap.SugaredLogger) *Handler {

	return &Handler{
		sessions:       sessions,
		connections:    connections,
		jwtSecret:      jwtSecret,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// CreateUpgrader builds an upgrader restricted to the allowed origins. An
// empty list allows every origin.
func CreateUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == origin {
					return true
				}
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// ServeHTTP upgrades the request and processes messages until the client
// disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := CreateUpgrader(h.allowedOrigins)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("[WS] Connection upgrade failed", "error", err)
		return
	}
	h.HandleConnection(conn)
}

// HandleConnection manages a single WebSocket connection. Every message must
// carry a valid game token; the first valid one binds the connection to its
// game.
func (h *Handler) HandleConnection(conn *websocket.Conn) {
	defer conn.Close()

	// the wrapper's write mutex serializes error replies from this read
	// loop with the session's asynchronous engine broadcasts
	connection := &Connection{Conn: conn}
	boundGameID := ""

	for {
		var message models.ClientMessage
		if err := conn.ReadJSON(&message); err != nil {
			if boundGameID != "" {
				h.logger.Infow("[WS] Connection closed", "gameId", boundGameID, "error", err)
				h.connections.RemoveConnection(boundGameID)
			} else {
				h.logger.Debugw("[WS] Unbound connection closed", "error", err)
			}
			return
		}

		if message.Token == "" {
			h.sendError(connection, "game token required")
			continue
		}
		claims, err := auth.ValidateGameToken(h.jwtSecret, message.Token)
		if err != nil {
			h.sendError(connection, "invalid or expired game token")
			h.logger.Debugw("[WS] Token validation failed", "error", err)
			continue
		}

		session, exists := h.sessions.Get(claims.GameID)
		if !exists {
			h.sendError(connection, "unknown game")
			continue
		}

		if boundGameID == "" {
			boundGameID = claims.GameID
			if replaced := h.connections.AddConnection(boundGameID, connection); replaced != nil {
				h.logger.Infow("[WS] Replacing existing connection", "gameId", boundGameID)
				replaced.Close()
			}
			h.logger.Infow("[WS] Connection bound", "gameId", boundGameID)
		}
		if claims.GameID != boundGameID {
			h.sendError(connection, "token does not match this connection's game")
			continue
		}

		h.route(connection, message, session)
	}
}

func (h *Handler) route(connection *Connection, message models.ClientMessage, session *game.Session) {
	switch message.Type {
	case models.TypeMove:
		if err := session.HandleMove(message.Side, message.Position); err != nil {
			h.sendError(connection, err.Error())
		}
	case models.TypeReconnect:
		if err := h.connections.SendMessage(session.GameID, session.StateMessage()); err != nil {
			h.logger.Warnw("[WS] Failed to send game state", "gameId", session.GameID, "error", err)
		}
	default:
		h.sendError(connection, "unknown message type")
	}
}

func (h *Handler) sendError(connection *Connection, message string) {
	if err := connection.Send(models.ServerMessage{
		Type:    models.TypeError,
		Message: message,
	}); err != nil {
		h.logger.Debugw("[WS] Failed to send error reply", "error", err)
	}
}
