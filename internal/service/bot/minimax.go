package bot

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/mwerner/shiftago/backend/internal/domain"
)

var (
	ErrNotTwoPlayers = errors.New("alpha-beta search requires exactly two colours in play")
	ErrNoLegalMoves  = errors.New("no legal moves: game must already be over")
)

// search starts with no more than one marble on the board: the heuristic
// signal is too weak there, so the engine opens randomly instead
const minOccupiedForSearch = 2

// deep search on a near-empty, highly symmetric board wastes time
const minOccupiedForFullDepth = 6

// strategy is one half of the two-ply alternation. Ratings are always
// expressed in the maximizer's frame via winRating.
type strategy struct {
	winRating    float64
	reverseOrder bool
}

var (
	maximizer = strategy{winRating: 1, reverseOrder: true}
	minimizer = strategy{winRating: -1, reverseOrder: false}
)

// node is one explored game state in the search tree.
type node struct {
	state  *domain.Game
	isLeaf bool
	level  int
	rating float64
}

// AlphaBetaPruning is a depth-bounded minimax search over game clones with
// alpha-beta cut-offs and one-ply move pre-ordering. Specialized to
// two-player zero-sum play.
type AlphaBetaPruning struct {
	skillLevel   SkillLevel
	logger       *zap.SugaredLogger
	visitedNodes atomic.Int64
}

func NewAlphaBetaPruning(skillLevel SkillLevel, logger *zap.SugaredLogger) *AlphaBetaPruning {
	return &AlphaBetaPruning{
		skillLevel: skillLevel,
		logger:     logger,
	}
}

func (e *AlphaBetaPruning) SkillLevel() SkillLevel {
	return e.skillLevel
}

// TotalVisitedNodes reports the number of nodes explored since creation,
// accumulated across all selections. Safe for engines shared by games.
func (e *AlphaBetaPruning) TotalVisitedNodes() int64 {
	return e.visitedNodes.Load()
}

// SelectMove picks a move for the colour currently to move. Deterministic
// given state and skill level, except on a near-empty board where it
// plays a uniformly random legal move.
func (e *AlphaBetaPruning) SelectMove(game *domain.Game) (domain.Move, error) {
	if len(game.Colours()) != 2 {
		return domain.Move{}, ErrNotTwoPlayers
	}
	strategies := map[domain.Colour]strategy{
		game.ColourToMove():   maximizer,
		currentOpponent(game): minimizer,
	}
	move, chosen, visited, err := e.applyMiniMax(game, strategies, 1, math.Inf(-1), math.Inf(1))
	if err != nil {
		return domain.Move{}, err
	}
	e.visitedNodes.Add(int64(visited))
	if e.logger != nil {
		e.logger.Debugf("[AI] Selected %s (level = %d, rating = %f, visited = %d)",
			move, chosen.level, chosen.rating, visited)
	}
	return move, nil
}

func currentOpponent(game *domain.Game) domain.Colour {
	colours := game.Colours()
	if colours[0] == game.ColourToMove() {
		return colours[1]
	}
	return colours[0]
}

func (e *AlphaBetaPruning) applyMiniMax(game *domain.Game, strategies map[domain.Colour]strategy,
	level int, alpha, beta float64) (domain.Move, *node, int, error) {

	occupied := game.CountOccupiedSlots()
	current := strategies[game.ColourToMove()]
	moves := game.DetectAllPossibleMoves()
	if len(moves) == 0 {
		return domain.Move{}, nil, 0, ErrNoLegalMoves
	}

	nodes := make(map[domain.Move]*node, len(moves))
	for _, move := range moves {
		evaluated, err := evalMove(current, level, game, move)
		if err != nil {
			return domain.Move{}, nil, 0, err
		}
		nodes[move] = evaluated
	}

	if occupied < minOccupiedForSearch {
		move := moves[rand.Intn(len(moves))]
		return move, nodes[move], 1, nil
	}

	// pre-sorting by the one-ply rating is what makes the cut-offs bite
	sort.SliceStable(moves, func(i, j int) bool {
		if current.reverseOrder {
			return nodes[moves[i]].rating > nodes[moves[j]].rating
		}
		return nodes[moves[i]].rating < nodes[moves[j]].rating
	})

	maxDepth := e.determineMaxDepth(occupied)
	visited := 0
	haveOptimal := false
	var optimal domain.Move

	for _, move := range moves {
		currentNode := nodes[move]
		if !currentNode.isLeaf && level < maxDepth {
			_, child, childVisited, err := e.applyMiniMax(currentNode.state, strategies, level+1, alpha, beta)
			if err != nil {
				return domain.Move{}, nil, 0, err
			}
			visited += childVisited
			currentNode.level = child.level
			currentNode.rating = child.rating
		} else {
			visited++
		}
		if current.reverseOrder { // maximizer
			if !haveOptimal || currentNode.rating > alpha {
				haveOptimal = true
				optimal = move
				alpha = currentNode.rating
				if alpha >= beta || alpha == current.winRating {
					break // cut-off
				}
			}
		} else {
			if !haveOptimal || currentNode.rating < beta {
				haveOptimal = true
				optimal = move
				beta = currentNode.rating
				if beta <= alpha || beta == current.winRating {
					break // cut-off
				}
			}
		}
	}
	return optimal, nodes[optimal], visited, nil
}

func (e *AlphaBetaPruning) determineMaxDepth(occupied int) int {
	if occupied < minOccupiedForFullDepth {
		return 1
	}
	return e.skillLevel.MaxSearchDepth()
}

// evalMove applies the move on a clone and rates the outcome in the
// maximizer's frame: a decisive result rates the mover's winRating, a
// running game rates by the placement heuristic.
func evalMove(current strategy, level int, game *domain.Game, move domain.Move) (*node, error) {
	clone := game.Clone()
	mover := game.ColourToMove()
	opponent := currentOpponent(game)
	condition, err := clone.ApplyMove(move, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating candidate %s", move)
	}
	if condition != nil {
		rating := 0.0
		if condition.Winner != domain.Empty {
			rating = current.winRating
		}
		return &node{state: clone, isLeaf: true, level: level, rating: rating}, nil
	}
	return &node{
		state:  clone,
		level:  level,
		rating: rateState(clone, mover, opponent, current.winRating),
	}, nil
}
