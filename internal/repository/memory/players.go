package memory

import (
	"context"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/shopspring/decimal"
)

type playerRepository struct{ s *Store }

func (s *Store) Players() repository.PlayerRepository { return &playerRepository{s: s} }

func (t *tables) playerView(p model.Player) model.Player {
	p.TeamName = t.teams[p.TeamID].Name
	return p
}

func (r *playerRepository) Create(ctx context.Context, in model.Player) (model.Player, error) {
	var out model.Player
	err := r.s.do(ctx, func(t *tables) error {
		if _, ok := t.teams[in.TeamID]; !ok {
			return repository.ErrConflict
		}
		if in.Height.IsNegative() {
			return repository.ErrInvalidValue
		}
		now := r.s.now()
		p := model.Player{
			ID:           t.next("players"),
			TeamID:       in.TeamID,
			Name:         in.Name,
			Height:       in.Height,
			AverageScore: decimal.Zero,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		t.players[p.ID] = p
		out = t.playerView(p)
		return nil
	})
	return out, err
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	var out model.Player
	err := r.s.do(ctx, func(t *tables) error {
		p, ok := t.players[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = t.playerView(p)
		return nil
	})
	return out, err
}

func (r *playerRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	return r.list(ctx, p, func(model.Player) bool { return true })
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID int64, p repository.Page) (repository.PageResult[model.Player], error) {
	return r.list(ctx, p, func(pl model.Player) bool { return pl.TeamID == teamID })
}

func (r *playerRepository) list(ctx context.Context, p repository.Page, keep func(model.Player) bool) (repository.PageResult[model.Player], error) {
	var res repository.PageResult[model.Player]
	err := r.s.do(ctx, func(t *tables) error {
		all := sortedValues(t.players, byID(func(p model.Player) int64 { return p.ID }))
		items := make([]model.Player, 0, len(all))
		for _, pl := range all {
			if keep(pl) {
				items = append(items, t.playerView(pl))
			}
		}
		res = paginate(items, p)
		return nil
	})
	return res, err
}

func (r *playerRepository) Update(ctx context.Context, in model.Player) (model.Player, error) {
	var out model.Player
	err := r.s.do(ctx, func(t *tables) error {
		p, ok := t.players[in.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if _, ok := t.teams[in.TeamID]; !ok {
			return repository.ErrConflict
		}
		if in.Height.IsNegative() {
			return repository.ErrInvalidValue
		}
		p.TeamID = in.TeamID
		p.Name = in.Name
		p.Height = in.Height
		p.UpdatedAt = r.s.now()
		t.players[p.ID] = p
		out = t.playerView(p)
		return nil
	})
	return out, err
}

func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(t *tables) error {
		if _, ok := t.players[id]; !ok {
			return repository.ErrNotFound
		}
		t.deletePlayer(id)
		return nil
	})
}

func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.s.do(ctx, func(t *tables) error {
		_, ok = t.players[id]
		return nil
	})
	return ok, err
}

func (r *playerRepository) LockByID(ctx context.Context, id int64) (model.Player, error) {
	return r.GetByID(ctx, id)
}

func (r *playerRepository) UpdateAggregates(ctx context.Context, id int64, avg decimal.Decimal, matches int) error {
	return r.s.do(ctx, func(t *tables) error {
		p, ok := t.players[id]
		if !ok {
			return repository.ErrNotFound
		}
		p.AverageScore = avg
		p.Matches = matches
		p.UpdatedAt = r.s.now()
		t.players[id] = p
		return nil
	})
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
