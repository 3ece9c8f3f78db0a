package game

import (
	"sort"

	"github.com/The-Coder-x/TypeWar/internal/players"
)

// Standing is one row of a race's final result.
type Standing struct {
	Rank   int
	Player players.Player
}

// Rank orders the final roster of a race: finishers first by earliest
// finish time, then everyone else by progress and, on ties, wpm. The
// sort is stable, so equal records keep roster order.
func Rank(final []players.Player) []Standing {
	ranked := make([]players.Player, len(final))
	copy(ranked, final)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.IsFinished != b.IsFinished {
			return a.IsFinished
		}
		if a.IsFinished {
			return a.FinishTime.Before(b.FinishTime)
		}
		if a.Progress != b.Progress {
			return a.Progress > b.Progress
		}
		return a.WPM > b.WPM
	})

	standings := make([]Standing, len(ranked))
	for i, p := range ranked {
		standings[i] = Standing{Rank: i + 1, Player: p}
	}
	return standings
}
