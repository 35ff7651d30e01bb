package aggregate_test

import (
	"testing"

	"github.com/maxviazov/tournament-stats-service/internal/aggregate"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   string
	}{
		{"empty is zero", nil, "0"},
		{"single", []int{4}, "4"},
		{"exact", []int{3, 7}, "5"},
		{"two places", []int{1, 2, 2}, "1.67"},
		{"thirds round down", []int{0, 0, 1}, "0.33"},
		{"half to even down", []int{0, 0, 0, 0, 0, 0, 0, 1}, "0.12"},
		{"half to even up", []int{0, 0, 0, 0, 0, 0, 0, 3}, "0.38"},
		{"all zero", []int{0, 0}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := aggregate.Mean(tc.scores)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s want %s", got, tc.want)
		})
	}
}

func TestTeamAverage(t *testing.T) {
	rows := []model.MatchTeam{{TeamID: 1, Score: 3}, {TeamID: 1, Score: 7}}
	assert.Equal(t, "5.00", aggregate.TeamAverage(rows).StringFixed(2))
	assert.True(t, aggregate.TeamAverage(nil).IsZero())
}

func TestPlayerAggregates(t *testing.T) {
	rows := []model.MatchPlayer{{PlayerID: 9, Score: 0}, {PlayerID: 9, Score: 8}}
	assert.Equal(t, "4.00", aggregate.PlayerAverage(rows).StringFixed(2))
	assert.Equal(t, 2, aggregate.PlayerMatchCount(rows))
	assert.Equal(t, 0, aggregate.PlayerMatchCount(nil))
}

func TestMean_RepeatedRecomputeIsStable(t *testing.T) {
	scores := []int{10, 11, 12}
	first := aggregate.Mean(scores)
	for i := 0; i < 100; i++ {
		assert.True(t, first.Equal(aggregate.Mean(scores)))
	}
	assert.Equal(t, "11.00", first.StringFixed(2))
}
