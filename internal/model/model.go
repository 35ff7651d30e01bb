// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round is the tournament stage a match belongs to.
type Round string

const (
	RoundQualifying   Round = "Qualifying Round"
	RoundQuarterFinal Round = "Quarter Final"
	RoundSemiFinal    Round = "Semi Final"
	RoundFinal        Round = "Final"
)

// Rounds lists every accepted round in tournament order.
var Rounds = []Round{RoundQualifying, RoundQuarterFinal, RoundSemiFinal, RoundFinal}

// Team represents a basketball team.
// AverageScore is derived from MatchTeam rows and never written by clients.
type Team struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	AverageScore decimal.Decimal `json:"average_score"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Coach is attached to exactly one team.
type Coach struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TeamID    int64     `json:"team"`
	TeamName  string    `json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player represents an athlete belonging to a team.
// AverageScore and Matches are maintained from MatchPlayer rows.
type Player struct {
	ID           int64           `json:"id"`
	TeamID       int64           `json:"team"`
	TeamName     string          `json:"team_name"`
	Name         string          `json:"name"`
	Height       decimal.Decimal `json:"height"`
	AverageScore decimal.Decimal `json:"average_score"`
	Matches      int             `json:"matches"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Match is a scheduled or played fixture between two teams.
// Team1Score and Team2Score are read back from the MatchTeam rows.
type Match struct {
	ID            int64     `json:"id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Stadium       string    `json:"stadium"`
	Round         Round     `json:"round"`
	Team1ID       int64     `json:"team1"`
	Team1Name     string    `json:"team1_name"`
	Team2ID       int64     `json:"team2"`
	Team2Name     string    `json:"team2_name"`
	Team1Score    int       `json:"team1_score"`
	Team2Score    int       `json:"team2_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// MatchTeam records a team's score in a match. Two rows exist per match.
type MatchTeam struct {
	ID      int64 `json:"id"`
	TeamID  int64 `json:"team"`
	MatchID int64 `json:"match"`
	Score   int   `json:"score"`
}

// MatchPlayer records a player's score in a match.
type MatchPlayer struct {
	ID         int64     `json:"-"`
	PlayerID   int64     `json:"player"`
	MatchID    int64     `json:"match"`
	Score      int       `json:"score"`
	PlayerName string    `json:"name"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// MatchInput carries client-supplied match fields.
// Scores are pointers so a missing value is distinguishable from zero.
type MatchInput struct {
	ScheduledDate time.Time
	Stadium       string
	Round         string
	Team1ID       int64
	Team2ID       int64
	Team1Score    *int
	Team2Score    *int
}

// MatchPlayerInput carries a player's performance payload.
// MatchID may be zero, in which case the match addressed by the request is used.
type MatchPlayerInput struct {
	PlayerID int64
	MatchID  int64
	Score    *int
}

// PlayerInput carries the writable player fields.
type PlayerInput struct {
	TeamID int64
	Name   string
	Height decimal.Decimal
}
