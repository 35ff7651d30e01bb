package memory

import (
	"context"
	"strings"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/shopspring/decimal"
)

type teamRepository struct{ s *Store }

func (s *Store) Teams() repository.TeamRepository { return &teamRepository{s: s} }

func (t *tables) teamNameTaken(name string, except int64) bool {
	for id, team := range t.teams {
		if id != except && team.Name == name {
			return true
		}
	}
	return false
}

func (r *teamRepository) Create(ctx context.Context, in model.Team) (model.Team, error) {
	var out model.Team
	err := r.s.do(ctx, func(t *tables) error {
		if t.teamNameTaken(in.Name, 0) {
			return repository.ErrAlreadyExists
		}
		now := r.s.now()
		out = model.Team{ID: t.next("teams"), Name: in.Name, AverageScore: decimal.Zero, CreatedAt: now, UpdatedAt: now}
		t.teams[out.ID] = out
		return nil
	})
	return out, err
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (model.Team, error) {
	var out model.Team
	err := r.s.do(ctx, func(t *tables) error {
		team, ok := t.teams[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = team
		return nil
	})
	return out, err
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	var res repository.PageResult[model.Team]
	err := r.s.do(ctx, func(t *tables) error {
		items := sortedValues(t.teams, func(a, b model.Team) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return byID(func(x model.Team) int64 { return x.ID })(a, b)
		})
		res = paginate(items, p)
		return nil
	})
	return res, err
}

func (r *teamRepository) Rename(ctx context.Context, id int64, name string) (model.Team, error) {
	var out model.Team
	err := r.s.do(ctx, func(t *tables) error {
		team, ok := t.teams[id]
		if !ok {
			return repository.ErrNotFound
		}
		if t.teamNameTaken(name, id) {
			return repository.ErrAlreadyExists
		}
		team.Name = name
		team.UpdatedAt = r.s.now()
		t.teams[id] = team
		out = team
		return nil
	})
	return out, err
}

func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(t *tables) error {
		if _, ok := t.teams[id]; !ok {
			return repository.ErrNotFound
		}
		t.deleteTeam(id)
		return nil
	})
}

func (r *teamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.s.do(ctx, func(t *tables) error {
		_, ok = t.teams[id]
		return nil
	})
	return ok, err
}

// LockByID is a lookup: the store lock already serializes writers.
func (r *teamRepository) LockByID(ctx context.Context, id int64) (model.Team, error) {
	return r.GetByID(ctx, id)
}

func (r *teamRepository) UpdateAverageScore(ctx context.Context, id int64, avg decimal.Decimal) error {
	return r.s.do(ctx, func(t *tables) error {
		team, ok := t.teams[id]
		if !ok {
			return repository.ErrNotFound
		}
		team.AverageScore = avg
		team.UpdatedAt = r.s.now()
		t.teams[id] = team
		return nil
	})
}

var _ repository.TeamRepository = (*teamRepository)(nil)
