package memory

import (
	"context"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type coachRepository struct{ s *Store }

func (s *Store) Coaches() repository.CoachRepository { return &coachRepository{s: s} }

func (t *tables) withTeamName(c model.Coach) model.Coach {
	c.TeamName = t.teams[c.TeamID].Name
	return c
}

// checkCoach enforces the FK to teams and the one-coach-per-team constraint.
func (t *tables) checkCoach(c model.Coach) error {
	if _, ok := t.teams[c.TeamID]; !ok {
		return repository.ErrConflict
	}
	for id, other := range t.coaches {
		if id != c.ID && other.TeamID == c.TeamID {
			return repository.ErrAlreadyExists
		}
	}
	return nil
}

func (r *coachRepository) Create(ctx context.Context, in model.Coach) (model.Coach, error) {
	var out model.Coach
	err := r.s.do(ctx, func(t *tables) error {
		in.ID = 0
		if err := t.checkCoach(in); err != nil {
			return err
		}
		now := r.s.now()
		c := model.Coach{ID: t.next("coaches"), Name: in.Name, TeamID: in.TeamID, CreatedAt: now, UpdatedAt: now}
		t.coaches[c.ID] = c
		out = t.withTeamName(c)
		return nil
	})
	return out, err
}

func (r *coachRepository) GetByID(ctx context.Context, id int64) (model.Coach, error) {
	var out model.Coach
	err := r.s.do(ctx, func(t *tables) error {
		c, ok := t.coaches[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = t.withTeamName(c)
		return nil
	})
	return out, err
}

func (r *coachRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Coach], error) {
	var res repository.PageResult[model.Coach]
	err := r.s.do(ctx, func(t *tables) error {
		items := sortedValues(t.coaches, byID(func(c model.Coach) int64 { return c.ID }))
		for i := range items {
			items[i] = t.withTeamName(items[i])
		}
		res = paginate(items, p)
		return nil
	})
	return res, err
}

func (r *coachRepository) Update(ctx context.Context, in model.Coach) (model.Coach, error) {
	var out model.Coach
	err := r.s.do(ctx, func(t *tables) error {
		c, ok := t.coaches[in.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if err := t.checkCoach(in); err != nil {
			return err
		}
		c.Name = in.Name
		c.TeamID = in.TeamID
		c.UpdatedAt = r.s.now()
		t.coaches[c.ID] = c
		out = t.withTeamName(c)
		return nil
	})
	return out, err
}

func (r *coachRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(t *tables) error {
		if _, ok := t.coaches[id]; !ok {
			return repository.ErrNotFound
		}
		delete(t.coaches, id)
		return nil
	})
}

var _ repository.CoachRepository = (*coachRepository)(nil)
