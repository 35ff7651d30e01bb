// Package aggregate computes the derived statistics stored on teams and players.
// Functions are pure: callers pass a fresh snapshot of the join rows read in the
// same transaction that persists the result.
package aggregate

import (
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for stored averages.
const Places = 2

// Mean returns the arithmetic mean of scores rounded half-to-even to Places,
// or zero for an empty input.
func Mean(scores []int) decimal.Decimal {
	if len(scores) == 0 {
		return decimal.Zero
	}
	var sum int64
	for _, s := range scores {
		sum += int64(s)
	}
	return decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(scores)))).
		RoundBank(Places)
}

// TeamAverage is the mean score over a team's MatchTeam rows.
func TeamAverage(rows []model.MatchTeam) decimal.Decimal {
	scores := make([]int, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	return Mean(scores)
}

// PlayerAverage is the mean score over a player's MatchPlayer rows.
func PlayerAverage(rows []model.MatchPlayer) decimal.Decimal {
	scores := make([]int, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	return Mean(scores)
}

// PlayerMatchCount is the number of matches a player has a recorded score in.
func PlayerMatchCount(rows []model.MatchPlayer) int {
	return len(rows)
}
