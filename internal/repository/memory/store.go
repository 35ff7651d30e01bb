// Package memory is an in-process implementation of the repository contracts.
// It backs the "memory" storage driver for local runs and the service tests.
//
// All operations are serialized by one mutex, and WithinTx holds it for the whole
// unit of work and restores a snapshot on error, so readers never observe a
// partially applied transaction.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
)

type tables struct {
	teams        map[int64]model.Team
	coaches      map[int64]model.Coach
	players      map[int64]model.Player
	matches      map[int64]model.Match
	matchTeams   map[int64]model.MatchTeam
	matchPlayers map[int64]model.MatchPlayer
	seq          map[string]int64
}

func newTables() tables {
	return tables{
		teams:        map[int64]model.Team{},
		coaches:      map[int64]model.Coach{},
		players:      map[int64]model.Player{},
		matches:      map[int64]model.Match{},
		matchTeams:   map[int64]model.MatchTeam{},
		matchPlayers: map[int64]model.MatchPlayer{},
		seq:          map[string]int64{},
	}
}

func (t *tables) clone() tables {
	return tables{
		teams:        cloneMap(t.teams),
		coaches:      cloneMap(t.coaches),
		players:      cloneMap(t.players),
		matches:      cloneMap(t.matches),
		matchTeams:   cloneMap(t.matchTeams),
		matchPlayers: cloneMap(t.matchPlayers),
		seq:          cloneMap(t.seq),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *tables) next(table string) int64 {
	t.seq[table]++
	return t.seq[table]
}

// Store owns every table. Repositories returned by its accessors share it.
type Store struct {
	mu   sync.Mutex
	data tables
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: newTables(), now: func() time.Time { return time.Now().UTC() }}
}

type txKey struct{ s *Store }

func (s *Store) inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{s}).(bool)
	return v
}

// do runs fn against the tables, taking the store lock unless ctx already
// belongs to a transaction on this store (which holds the lock).
func (s *Store) do(ctx context.Context, fn func(t *tables) error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.data)
}

type txManager struct{ s *Store }

func (s *Store) TxManager() repository.TxManager { return &txManager{s: s} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if m.s.inTx(ctx) {
		return fn(ctx)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snapshot := m.s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{m.s}, true)); err != nil {
		m.s.data = snapshot
		return err
	}
	return nil
}

type pinger struct{}

func (s *Store) Pinger() repository.Pinger { return pinger{} }

func (pinger) Ping(ctx context.Context) error { return ctx.Err() }

// paginate applies limit/offset to an already ordered slice.
func paginate[T any](items []T, p repository.Page) repository.PageResult[T] {
	p = p.Normalize()
	limit, offset := p.Limit, p.Offset
	res := repository.PageResult[T]{Items: []T{}, Total: len(items)}
	if offset >= len(items) {
		return res
	}
	end := min(offset+limit, len(items))
	res.Items = append(res.Items, items[offset:end]...)
	return res
}

func sortedValues[V any](m map[int64]V, less func(a, b V) int) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, less)
	return out
}

func byID[V any](id func(V) int64) func(a, b V) int {
	return func(a, b V) int { return cmp.Compare(id(a), id(b)) }
}

// cascade helpers mirror the ON DELETE CASCADE clauses of the SQL schema.

func (t *tables) deleteMatch(id int64) {
	delete(t.matches, id)
	for k, mt := range t.matchTeams {
		if mt.MatchID == id {
			delete(t.matchTeams, k)
		}
	}
	for k, mp := range t.matchPlayers {
		if mp.MatchID == id {
			delete(t.matchPlayers, k)
		}
	}
}

func (t *tables) deletePlayer(id int64) {
	delete(t.players, id)
	for k, mp := range t.matchPlayers {
		if mp.PlayerID == id {
			delete(t.matchPlayers, k)
		}
	}
}

func (t *tables) deleteTeam(id int64) {
	delete(t.teams, id)
	for k, c := range t.coaches {
		if c.TeamID == id {
			delete(t.coaches, k)
		}
	}
	for k, p := range t.players {
		if p.TeamID == id {
			t.deletePlayer(k)
		}
	}
	for k, m := range t.matches {
		if m.Team1ID == id || m.Team2ID == id {
			t.deleteMatch(k)
		}
	}
	for k, mt := range t.matchTeams {
		if mt.TeamID == id {
			delete(t.matchTeams, k)
		}
	}
}
