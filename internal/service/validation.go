package service

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	maxTeamName   = 100
	maxLongName   = 200
	minTeamName   = 2
	heightMaxText = "999.99"
	// keeps every average inside NUMERIC(6,2)
	maxScore = 9999
)

var maxHeight = decimal.RequireFromString(heightMaxText)

func normalizePage(p repository.Page) repository.Page { return p.Normalize() }

// normalizeRound accepts rounds case-insensitively and returns the canonical value.
func normalizeRound(r string) (model.Round, bool) {
	r = strings.TrimSpace(r)
	i := slices.IndexFunc(model.Rounds, func(x model.Round) bool { return strings.EqualFold(string(x), r) })
	if i < 0 {
		return "", false
	}
	return model.Rounds[i], true
}

// checkName appends a field error when name is empty or outside [lo, hi] runes.
func checkName(ferrs []FieldError, field, name string, lo, hi int) []FieldError {
	if name == "" {
		return append(ferrs, FieldError{Field: field, Message: "must not be empty"})
	}
	if n := utf8.RuneCountInString(name); n < lo || n > hi {
		if lo <= 1 {
			return append(ferrs, FieldError{Field: field, Message: "length must be <= " + strconv.Itoa(hi)})
		}
		return append(ferrs, FieldError{Field: field, Message: "length must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)})
	}
	return ferrs
}

func checkID(ferrs []FieldError, field string, id int64) []FieldError {
	if id <= 0 {
		return append(ferrs, FieldError{Field: field, Message: "must be > 0"})
	}
	return ferrs
}

func checkScore(ferrs []FieldError, field string, score *int) []FieldError {
	switch {
	case score == nil:
		return append(ferrs, FieldError{Field: field, Message: "is required"})
	case *score < 0:
		return append(ferrs, FieldError{Field: field, Message: "must be >= 0"})
	case *score > maxScore:
		return append(ferrs, FieldError{Field: field, Message: "must be <= " + strconv.Itoa(maxScore)})
	}
	return ferrs
}

func checkHeight(ferrs []FieldError, h decimal.Decimal) []FieldError {
	if h.IsNegative() || h.GreaterThan(maxHeight) {
		return append(ferrs, FieldError{Field: "height", Message: "must be between 0 and " + heightMaxText})
	}
	return ferrs
}

// uniqueSorted returns ids deduplicated in ascending order, the order rows are locked in.
func uniqueSorted(ids ...int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
