package game

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mwerner/shiftago/backend/internal/domain"
	"github.com/mwerner/shiftago/backend/internal/models"
	"github.com/mwerner/shiftago/backend/internal/service/bot"
)

var (
	ErrNotYourTurn  = errors.New("not your turn")
	ErrGameFinished = errors.New("game is already finished")
)

const snapshotSaveTimeout = 5 * time.Second

// ConnectionSender delivers server messages to the client attached to a game.
type ConnectionSender interface {
	SendMessage(gameID string, message models.ServerMessage) error
	RemoveConnection(gameID string)
}

// SnapshotStore persists position snapshots so finished or interrupted games
// can be restored. A nil store disables persistence.
type SnapshotStore interface {
	Save(ctx context.Context, gameID string, snapshot []byte) error
	Load(ctx context.Context, gameID string) ([]byte, error)
	Delete(ctx context.Context, gameID string) error
}

// Session is one human-versus-engine game. The canonical state is guarded by
// the mutex; the engine searches on a clone so the client stays responsive.
type Session struct {
	GameID       string
	HumanColour  domain.Colour
	EngineColour domain.Colour
	CreatedAt    time.Time

	finishedAt time.Time
	game       *domain.Game
	engine     bot.Engine
	sender     ConnectionSender
	store      SnapshotStore
	logger     *zap.SugaredLogger
	mu         sync.Mutex
}

func NewSession(gameID string, humanColour, engineColour domain.Colour, engine bot.Engine,
	sender ConnectionSender, store SnapshotStore, logger *zap.SugaredLogger) (*Session, error) {

	g, err := domain.NewGame(humanColour, engineColour)
	if err != nil {
		return nil, err
	}
	return &Session{
		GameID:       gameID,
		HumanColour:  humanColour,
		EngineColour: engineColour,
		CreatedAt:    time.Now(),
		game:         g,
		engine:       engine,
		sender:       sender,
		store:        store,
		logger:       logger,
	}, nil
}

// RestoreSession rebuilds a session from a persisted snapshot. The colour
// sequence in the snapshot determines whose turn it is.
func RestoreSession(gameID string, humanColour, engineColour domain.Colour, snapshot []byte,
	engine bot.Engine, sender ConnectionSender, store SnapshotStore, logger *zap.SugaredLogger) (*Session, error) {

	g, err := domain.DecodeSnapshot(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "restoring game snapshot")
	}
	return &Session{
		GameID:       gameID,
		HumanColour:  humanColour,
		EngineColour: engineColour,
		CreatedAt:    time.Now(),
		game:         g,
		engine:       engine,
		sender:       sender,
		store:        store,
		logger:       logger,
	}, nil
}

func (s *Session) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.GameOverCondition() != nil
}

// expired reports whether the session is due for cleanup.
func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finishedAt.IsZero() {
		return now.Sub(s.finishedAt) > finishedSessionMaxAge
	}
	return now.Sub(s.CreatedAt) > activeSessionMaxAge
}

// discardSnapshot drops the persisted snapshot of a finished game. Active
// games keep theirs so they stay resumable after a restart.
func (s *Session) discardSnapshot() {
	s.mu.Lock()
	finished := !s.finishedAt.IsZero()
	s.mu.Unlock()
	if !finished || s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotSaveTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, s.GameID); err != nil {
		s.logger.Warnw("[SESSION] Failed to delete snapshot", "gameId", s.GameID, "error", err)
	}
}

// StateMessage reports the full position, e.g. after a reconnect.
func (s *Session) StateMessage() models.ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ServerMessage{
		Type:        models.TypeGameState,
		GameID:      s.GameID,
		YourColour:  s.HumanColour.String(),
		CurrentTurn: s.game.ColourToMove().String(),
		Board:       boardPayload(s.game),
		SkillLevel:  s.engine.SkillLevel().String(),
	}
}

// Snapshot serializes the current position.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.EncodeSnapshot(s.game)
}

// HandleMove applies the human move, then lets the engine answer
// asynchronously if the game continues.
func (s *Session) HandleMove(side string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.GameOverCondition() != nil {
		return ErrGameFinished
	}
	if s.game.ColourToMove() != s.HumanColour {
		return ErrNotYourTurn
	}
	parsedSide, err := domain.ParseSide(side)
	if err != nil {
		return err
	}
	move, err := domain.NewMove(parsedSide, position)
	if err != nil {
		return err
	}
	return s.applyAndBroadcast(move)
}

// applyAndBroadcast mutates the canonical game. Caller must hold the mutex.
func (s *Session) applyAndBroadcast(move domain.Move) error {
	mover := s.game.ColourToMove()
	collector := &eventCollector{gameID: s.GameID, colour: mover}
	condition, err := s.game.ApplyMove(move, collector)
	if err != nil {
		return err
	}

	for _, event := range collector.events {
		s.send(event)
	}
	s.send(models.ServerMessage{
		Type:        models.TypeMovePlayed,
		GameID:      s.GameID,
		Colour:      mover.String(),
		Move:        &models.MovePayload{Side: move.Side.String(), Position: move.Position},
		CurrentTurn: s.game.ColourToMove().String(),
		Board:       boardPayload(s.game),
	})

	s.persistSnapshot()

	if condition != nil {
		s.finishedAt = time.Now()
		over := models.ServerMessage{
			Type:   models.TypeGameOver,
			GameID: s.GameID,
			Board:  boardPayload(s.game),
		}
		if condition.Winner != domain.Empty {
			over.Winner = condition.Winner.String()
		} else {
			over.Draw = true
		}
		s.send(over)
		return nil
	}

	if s.game.ColourToMove() == s.EngineColour {
		s.scheduleEngineMove()
	}
	return nil
}

// scheduleEngineMove searches on a clone off the lock, then re-validates the
// position before applying. Caller must hold the mutex.
func (s *Session) scheduleEngineMove() {
	clone := s.game.Clone()
	go func() {
		move, err := s.engine.SelectMove(clone)
		if err != nil {
			s.logger.Errorw("[SESSION] Engine failed to select a move", "gameId", s.GameID, "error", err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.game.GameOverCondition() != nil || s.game.ColourToMove() != s.EngineColour {
			return
		}
		if err := s.applyAndBroadcast(move); err != nil {
			s.logger.Errorw("[SESSION] Engine move rejected", "gameId", s.GameID, "move", move.String(), "error", err)
		}
	}()
}

func (s *Session) persistSnapshot() {
	if s.store == nil {
		return
	}
	data, err := domain.EncodeSnapshot(s.game)
	if err != nil {
		s.logger.Errorw("[SESSION] Failed to encode snapshot", "gameId", s.GameID, "error", err)
		return
	}
	gameID := s.GameID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotSaveTimeout)
		defer cancel()
		if err := s.store.Save(ctx, gameID, data); err != nil {
			s.logger.Warnw("[SESSION] Failed to persist snapshot", "gameId", gameID, "error", err)
		}
	}()
}

func (s *Session) send(message models.ServerMessage) {
	if err := s.sender.SendMessage(s.GameID, message); err != nil {
		s.logger.Debugw("[SESSION] Dropped message", "gameId", s.GameID, "type", message.Type, "error", err)
	}
}

func boardPayload(g *domain.Game) [][]string {
	board := make([][]string, domain.NumSlotsPerSide)
	for verPos := 0; verPos < domain.NumSlotsPerSide; verPos++ {
		row := make([]string, domain.NumSlotsPerSide)
		for horPos := 0; horPos < domain.NumSlotsPerSide; horPos++ {
			if c := g.ColourAt(domain.Slot{HorPos: horPos, VerPos: verPos}); c != domain.Empty {
				row[horPos] = c.String()
			}
		}
		board[verPos] = row
	}
	return board
}

// eventCollector buffers marble animations of one move so they are sent
// only after the move has fully succeeded.
type eventCollector struct {
	gameID string
	colour domain.Colour
	events []models.ServerMessage
}

func (c *eventCollector) MarbleShifted(slot domain.Slot, direction domain.Side) {
	c.events = append(c.events, models.ServerMessage{
		Type:      models.TypeMarbleShifted,
		GameID:    c.gameID,
		Slot:      &models.SlotPayload{HorPos: slot.HorPos, VerPos: slot.VerPos},
		Direction: direction.String(),
	})
}

func (c *eventCollector) MarbleInserted(slot domain.Slot) {
	c.events = append(c.events, models.ServerMessage{
		Type:   models.TypeMarbleInserted,
		GameID: c.gameID,
		Slot:   &models.SlotPayload{HorPos: slot.HorPos, VerPos: slot.VerPos},
		Colour: c.colour.String(),
	})
}
