package bot

import (
	"github.com/mwerner/shiftago/backend/internal/domain"
)

// SkillLevel is the ordinal strength setting of the computer opponent.
type SkillLevel int

const (
	Rookie SkillLevel = iota
	Advanced
	Expert
	Grandmaster
)

func (l SkillLevel) String() string {
	switch l {
	case Rookie:
		return "rookie"
	case Advanced:
		return "advanced"
	case Expert:
		return "expert"
	default:
		return "grandmaster"
	}
}

// ParseSkillLevel validates and returns the skill level.
// Defaults to Advanced if invalid or empty.
func ParseSkillLevel(level string) SkillLevel {
	switch level {
	case "rookie":
		return Rookie
	case "advanced":
		return Advanced
	case "expert":
		return Expert
	case "grandmaster":
		return Grandmaster
	default:
		return Advanced
	}
}

// MaxSearchDepth maps the ordinal level to the maximum ply depth.
func (l SkillLevel) MaxSearchDepth() int {
	return 2 + int(l)
}

// Engine selects the computer opponent's next move. Implementations must
// operate on a state snapshot exclusively owned by the call.
type Engine interface {
	SkillLevel() SkillLevel
	SelectMove(game *domain.Game) (domain.Move, error)
}
