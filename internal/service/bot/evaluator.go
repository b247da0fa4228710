package bot

import (
	"math"

	"github.com/mwerner/shiftago/backend/internal/domain"
)

// rateState rates a running position in the maximizer's frame. Placement
// groups are weighted by powers of ten so that a single group of k marbles
// always outweighs any number of groups of k-1: with at most 60 winning
// lines per colour the lower-order contributions can never carry over.
func rateState(g *domain.Game, mover, opponent domain.Colour, winRating float64) float64 {
	groups := g.AnalyzeColourPlacements()
	length := g.WinningLineLength()
	rating := 0.0
	for count := length; count >= 2; count-- {
		weight := math.Pow(10, -float64(length-count+1))
		rating += float64(groups[mover][count]-groups[opponent][count]) * weight * winRating
	}
	return rating
}
