package repository

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Page is a limit/offset window over a listing with a stable order
// (by id for matches, players and coaches; by name for teams).
type Page struct {
	Limit  int
	Offset int
}

// Normalize falls back to DefaultPageLimit for a non-positive limit, caps it at
// MaxPageLimit and clamps a negative offset to zero.
func (p Page) Normalize() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResult carries one window of items. Total counts every matching row,
// not only the ones in Items.
type PageResult[T any] struct {
	Items []T
	Total int
}
