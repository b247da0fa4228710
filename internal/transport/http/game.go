package http

import (
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mwerner/shiftago/backend/internal/config"
	"github.com/mwerner/shiftago/backend/internal/domain"
	"github.com/mwerner/shiftago/backend/internal/service/bot"
	"github.com/mwerner/shiftago/backend/internal/service/game"
	"github.com/mwerner/shiftago/backend/pkg/auth"
	"github.com/mwerner/shiftago/backend/pkg/uid"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GameHandler creates games and serves position snapshots.
type GameHandler struct {
	sessions    *game.SessionManager
	sender      game.ConnectionSender
	store       game.SnapshotStore
	jwtSecret   string
	tokenTTL    time.Duration
	preferences config.Preferences
	logger      *zap.SugaredLogger
}

func NewGameHandler(sessions *game.SessionManager, sender game.ConnectionSender, store game.SnapshotStore,
	jwtSecret string, tokenTTL time.Duration, preferences config.Preferences, logger *zap.SugaredLogger) *GameHandler {

	return &GameHandler{
		sessions:    sessions,
		sender:      sender,
		store:       store,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		preferences: preferences,
		logger:      logger,
	}
}

type createGameRequest struct {
	Colour     string `json:"colour"`
	SkillLevel string `json:"skillLevel"`
}

type createGameResponse struct {
	GameID       string `json:"gameId"`
	Token        string `json:"token"`
	YourColour   string `json:"yourColour"`
	EngineColour string `json:"engineColour"`
	SkillLevel   string `json:"skillLevel"`
}

// HandleCreateGame starts a new game against the engine and returns the
// token authorizing moves in it.
func (h *GameHandler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	request := createGameRequest{
		Colour:     h.preferences.PreferredColour,
		SkillLevel: h.preferences.SkillLevel,
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeJSONError(w, "Malformed request body", http.StatusBadRequest)
			return
		}
	}
	if request.Colour == "" {
		request.Colour = h.preferences.PreferredColour
	}
	if request.SkillLevel == "" {
		request.SkillLevel = h.preferences.SkillLevel
	}

	humanColour, err := domain.ParseColour(request.Colour)
	if err != nil {
		writeJSONError(w, "Unknown colour", http.StatusBadRequest)
		return
	}
	engineColour := domain.Orange
	if humanColour == domain.Orange {
		engineColour = domain.Blue
	}
	skillLevel := bot.ParseSkillLevel(request.SkillLevel)

	gameID := uid.GenerateGameID()
	engine := bot.NewAlphaBetaPruning(skillLevel, h.logger)
	session, err := game.NewSession(gameID, humanColour, engineColour, engine, h.sender, h.store, h.logger)
	if err != nil {
		h.logger.Errorw("[HTTP] Failed to create game", "error", err)
		writeJSONError(w, "Failed to create game", http.StatusInternalServerError)
		return
	}
	h.sessions.Add(session)

	token, err := auth.GenerateGameToken(h.jwtSecret, gameID, humanColour.String(), h.tokenTTL)
	if err != nil {
		h.logger.Errorw("[HTTP] Failed to sign game token", "gameId", gameID, "error", err)
		writeJSONError(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, createGameResponse{
		GameID:       gameID,
		Token:        token,
		YourColour:   humanColour.String(),
		EngineColour: engineColour.String(),
		SkillLevel:   skillLevel.String(),
	})
}

type resumeGameResponse struct {
	GameID       string `json:"gameId"`
	YourColour   string `json:"yourColour"`
	EngineColour string `json:"engineColour"`
	SkillLevel   string `json:"skillLevel"`
	CurrentTurn  string `json:"currentTurn"`
}

// HandleResumeGame rebuilds a session from its persisted snapshot, e.g.
// after a server restart. The caller keeps using the original game token.
func (h *GameHandler) HandleResumeGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, err := h.authorize(r)
	if err != nil {
		writeJSONError(w, "Invalid or expired game token", http.StatusUnauthorized)
		return
	}
	humanColour, err := domain.ParseColour(claims.Colour)
	if err != nil {
		writeJSONError(w, "Invalid game token", http.StatusUnauthorized)
		return
	}
	engineColour := domain.Orange
	if humanColour == domain.Orange {
		engineColour = domain.Blue
	}

	session, exists := h.sessions.Get(claims.GameID)
	if !exists {
		if h.store == nil {
			writeJSONError(w, "Game not found", http.StatusNotFound)
			return
		}
		snapshot, err := h.store.Load(r.Context(), claims.GameID)
		if err != nil {
			writeJSONError(w, "Game not found", http.StatusNotFound)
			return
		}
		engine := bot.NewAlphaBetaPruning(bot.ParseSkillLevel(h.preferences.SkillLevel), h.logger)
		session, err = game.RestoreSession(claims.GameID, humanColour, engineColour, snapshot,
			engine, h.sender, h.store, h.logger)
		if err != nil {
			h.logger.Errorw("[HTTP] Failed to restore game", "gameId", claims.GameID, "error", err)
			writeJSONError(w, "Failed to restore game", http.StatusInternalServerError)
			return
		}
		h.sessions.Add(session)
	}

	state := session.StateMessage()
	writeJSON(w, http.StatusOK, resumeGameResponse{
		GameID:       session.GameID,
		YourColour:   session.HumanColour.String(),
		EngineColour: session.EngineColour.String(),
		SkillLevel:   state.SkillLevel,
		CurrentTurn:  state.CurrentTurn,
	})
}

// HandleSnapshot returns the serialized position of the caller's game.
func (h *GameHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := h.authorize(r)
	if err != nil {
		writeJSONError(w, "Invalid or expired game token", http.StatusUnauthorized)
		return
	}
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		gameID = claims.GameID
	}
	if gameID != claims.GameID {
		writeJSONError(w, "Token does not match game", http.StatusForbidden)
		return
	}

	if session, exists := h.sessions.Get(gameID); exists {
		snapshot, err := session.Snapshot()
		if err != nil {
			h.logger.Errorw("[HTTP] Failed to encode snapshot", "gameId", gameID, "error", err)
			writeJSONError(w, "Failed to encode snapshot", http.StatusInternalServerError)
			return
		}
		writeRawJSON(w, http.StatusOK, snapshot)
		return
	}

	if h.store == nil {
		writeJSONError(w, "Game not found", http.StatusNotFound)
		return
	}
	snapshot, err := h.store.Load(r.Context(), gameID)
	if err != nil {
		writeJSONError(w, "Game not found", http.StatusNotFound)
		return
	}
	writeRawJSON(w, http.StatusOK, snapshot)
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *GameHandler) authorize(r *http.Request) (*auth.GameClaims, error) {
	token := r.URL.Query().Get("token")
	if header := r.Header.Get("Authorization"); header != "" {
		token = strings.TrimPrefix(header, "Bearer ")
	}
	return auth.ValidateGameToken(h.jwtSecret, token)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
