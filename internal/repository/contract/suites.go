// Package contract holds behaviour suites shared by every repository backend.
// Each backend supplies a factory returning fresh, empty storage.
package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/shopspring/decimal"
)

// Deps is the full set of repositories over one storage instance.
type Deps struct {
	Tx           repository.TxManager
	Pinger       repository.Pinger
	Teams        repository.TeamRepository
	Coaches      repository.CoachRepository
	Players      repository.PlayerRepository
	Matches      repository.MatchRepository
	MatchTeams   repository.MatchTeamRepository
	MatchPlayers repository.MatchPlayerRepository
}

// Factory returns empty storage and its cleanup.
type Factory func(t *testing.T) (Deps, func())

func fresh(t *testing.T, makeDeps Factory) Deps {
	t.Helper()
	d, cleanup := makeDeps(t)
	t.Cleanup(cleanup)
	return d
}

func mkTeam(t *testing.T, d Deps, name string) int64 {
	t.Helper()
	team, err := d.Teams.Create(context.Background(), model.Team{Name: name})
	if err != nil {
		t.Fatalf("seed team %q: %v", name, err)
	}
	return team.ID
}

func mkPlayer(t *testing.T, d Deps, teamID int64, name string) int64 {
	t.Helper()
	p, err := d.Players.Create(context.Background(), model.Player{TeamID: teamID, Name: name, Height: decimal.RequireFromString("1.95")})
	if err != nil {
		t.Fatalf("seed player %q: %v", name, err)
	}
	return p.ID
}

func mkMatch(t *testing.T, d Deps, team1, team2 int64) int64 {
	t.Helper()
	m, err := d.Matches.Create(context.Background(), model.Match{
		ScheduledDate: time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC),
		Stadium:       "Bercy Arena",
		Round:         model.RoundFinal,
		Team1ID:       team1,
		Team2ID:       team2,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m.ID
}

func RunTeamRepositoryContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		created, err := d.Teams.Create(ctx, model.Team{Name: "Brazil"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := d.Teams.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != "Brazil" || !got.AverageScore.IsZero() {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		d := fresh(t, makeDeps)
		_, err := d.Teams.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			mkTeam(t, d, "T-"+string(rune('A'+i)))
		}
		res, err := d.Teams.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if res.Items[0].Name != "T-A" {
			t.Fatalf("expected name order, got %q first", res.Items[0].Name)
		}
		res2, err := d.Teams.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 {
			t.Fatalf("unexpected page2: len=%d total=%d", len(res2.Items), res2.Total)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		d := fresh(t, makeDeps)
		mkTeam(t, d, "Dup")
		_, err := d.Teams.Create(context.Background(), model.Team{Name: "Dup"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("rename_and_update_average", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		id := mkTeam(t, d, "Old")
		if _, err := d.Teams.Rename(ctx, id, "New"); err != nil {
			t.Fatalf("rename: %v", err)
		}
		if err := d.Teams.UpdateAverageScore(ctx, id, decimal.RequireFromString("85.50")); err != nil {
			t.Fatalf("update average: %v", err)
		}
		got, err := d.Teams.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "New" || !got.AverageScore.Equal(decimal.RequireFromString("85.5")) {
			t.Fatalf("unexpected team: %+v", got)
		}
		if _, err := d.Teams.Rename(ctx, 999999, "Ghost"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on rename, got %v", err)
		}
	})

	t.Run("lock_and_exists", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		id := mkTeam(t, d, "Locked")
		err := d.Tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := d.Teams.LockByID(ctx, id)
			return err
		})
		if err != nil {
			t.Fatalf("lock: %v", err)
		}
		err = d.Tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := d.Teams.LockByID(ctx, 999999)
			return err
		})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on lock, got %v", err)
		}
		ok, err := d.Teams.Exists(ctx, id)
		if err != nil || !ok {
			t.Fatalf("expected team to exist: ok=%v err=%v", ok, err)
		}
	})

	t.Run("delete_cascades", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		pid := mkPlayer(t, d, a, "Player")
		mid := mkMatch(t, d, a, b)
		if err := d.Teams.Delete(ctx, a); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := d.Players.GetByID(ctx, pid); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected player removed, got %v", err)
		}
		if _, err := d.Matches.GetByID(ctx, mid); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected match removed, got %v", err)
		}
		if err := d.Teams.Delete(ctx, a); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func RunCoachRepositoryContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("crud", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		teamID := mkTeam(t, d, "Serbia")
		c, err := d.Coaches.Create(ctx, model.Coach{Name: "Svetislav Pesic", TeamID: teamID})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if c.TeamName != "Serbia" {
			t.Fatalf("expected team name, got %+v", c)
		}
		c.Name = "S. Pesic"
		if _, err := d.Coaches.Update(ctx, c); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := d.Coaches.GetByID(ctx, c.ID)
		if err != nil || got.Name != "S. Pesic" {
			t.Fatalf("get after update: %+v err=%v", got, err)
		}
		if err := d.Coaches.Delete(ctx, c.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := d.Coaches.GetByID(ctx, c.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("one_coach_per_team", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		teamID := mkTeam(t, d, "Spain")
		if _, err := d.Coaches.Create(ctx, model.Coach{Name: "First", TeamID: teamID}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := d.Coaches.Create(ctx, model.Coach{Name: "Second", TeamID: teamID})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("unknown_team_conflict", func(t *testing.T) {
		d := fresh(t, makeDeps)
		_, err := d.Coaches.Create(context.Background(), model.Coach{Name: "X", TeamID: 999999})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func RunPlayerRepositoryContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		teamID := mkTeam(t, d, "Bulls")
		created, err := d.Players.Create(ctx, model.Player{TeamID: teamID, Name: "Michael Jordan", Height: decimal.RequireFromString("1.98")})
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		got, err := d.Players.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID || got.TeamID != teamID || got.TeamName != "Bulls" || got.Matches != 0 {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		d := fresh(t, makeDeps)
		_, err := d.Players.GetByID(context.Background(), 42424242)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_by_team_pagination", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		teamID := mkTeam(t, d, "Lakers")
		other := mkTeam(t, d, "Celtics")
		for i := 0; i < 5; i++ {
			mkPlayer(t, d, teamID, "P"+string(rune('A'+i)))
		}
		mkPlayer(t, d, other, "Outsider")
		res, err := d.Players.ListByTeam(ctx, teamID, repository.Page{Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		all, err := d.Players.List(ctx, repository.Page{Limit: 10})
		if err != nil || all.Total != 6 {
			t.Fatalf("unexpected list all: total=%d err=%v", all.Total, err)
		}
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		d := fresh(t, makeDeps)
		_, err := d.Players.Create(context.Background(), model.Player{TeamID: 9999999, Name: "X Y"})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict on FK violation, got %v", err)
		}
	})

	t.Run("update_keeps_aggregates", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		teamID := mkTeam(t, d, "Heat")
		id := mkPlayer(t, d, teamID, "Before")
		if err := d.Players.UpdateAggregates(ctx, id, decimal.RequireFromString("6.00"), 2); err != nil {
			t.Fatalf("update aggregates: %v", err)
		}
		if _, err := d.Players.Update(ctx, model.Player{ID: id, TeamID: teamID, Name: "After", Height: decimal.RequireFromString("2.01"), Matches: 99}); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := d.Players.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "After" || got.Matches != 2 || !got.AverageScore.Equal(decimal.NewFromInt(6)) {
			t.Fatalf("unexpected player: %+v", got)
		}
	})
}

func RunMatchRepositoryContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("create_get_list", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		homeID, awayID := mkTeam(t, d, "Home"), mkTeam(t, d, "Away")
		id := mkMatch(t, d, homeID, awayID)
		if _, err := d.MatchTeams.Create(ctx, model.MatchTeam{MatchID: id, TeamID: homeID, Score: 98}); err != nil {
			t.Fatalf("match team 1: %v", err)
		}
		if _, err := d.MatchTeams.Create(ctx, model.MatchTeam{MatchID: id, TeamID: awayID, Score: 87}); err != nil {
			t.Fatalf("match team 2: %v", err)
		}
		got, err := d.Matches.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Team1Name != "Home" || got.Team2Name != "Away" || got.Team1Score != 98 || got.Team2Score != 87 {
			t.Fatalf("mismatch: %+v", got)
		}
		if got.Round != model.RoundFinal || got.ScheduledDate.Format("2006-01-02") != "2024-08-10" {
			t.Fatalf("fields not stored: %+v", got)
		}
		page, err := d.Matches.List(ctx, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Items) != 1 || page.Total != 1 {
			t.Fatalf("unexpected list: %#v", page)
		}
		ids, err := d.Matches.ListIDsByTeam(ctx, awayID)
		if err != nil || len(ids) != 1 || ids[0] != id {
			t.Fatalf("unexpected ids by team: %v err=%v", ids, err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		d := fresh(t, makeDeps)
		_, err := d.Matches.GetByID(context.Background(), 7777777)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("lock_and_share_in_tx", func(t *testing.T) {
		d := fresh(t, makeDeps)
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		id := mkMatch(t, d, a, b)
		err := d.Tx.WithinTx(context.Background(), func(ctx context.Context) error {
			if m, err := d.Matches.LockByID(ctx, id); err != nil || m.ID != id {
				t.Fatalf("lock: %+v err=%v", m, err)
			}
			if m, err := d.Matches.ShareByID(ctx, id); err != nil || m.Team1ID != a {
				t.Fatalf("share: %+v err=%v", m, err)
			}
			if _, err := d.Matches.LockByID(ctx, 7777777); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("lock unknown: expected ErrNotFound, got %v", err)
			}
			if _, err := d.Matches.ShareByID(ctx, 7777777); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("share unknown: expected ErrNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
	})

	t.Run("same_team_rejected", func(t *testing.T) {
		d := fresh(t, makeDeps)
		id := mkTeam(t, d, "Solo")
		_, err := d.Matches.Create(context.Background(), model.Match{
			ScheduledDate: time.Now().UTC(), Stadium: "X", Round: model.RoundFinal, Team1ID: id, Team2ID: id,
		})
		if !errors.Is(err, repository.ErrInvalidValue) {
			t.Fatalf("expected ErrInvalidValue, got %v", err)
		}
	})

	t.Run("delete_cascades_rows", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		pid := mkPlayer(t, d, a, "Scorer")
		id := mkMatch(t, d, a, b)
		if _, err := d.MatchTeams.Create(ctx, model.MatchTeam{MatchID: id, TeamID: a, Score: 1}); err != nil {
			t.Fatalf("seed match team: %v", err)
		}
		if _, err := d.MatchPlayers.Create(ctx, model.MatchPlayer{MatchID: id, PlayerID: pid, Score: 1}); err != nil {
			t.Fatalf("seed match player: %v", err)
		}
		if err := d.Matches.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		mts, _ := d.MatchTeams.ListByTeam(ctx, a)
		mps, _ := d.MatchPlayers.ListByPlayer(ctx, pid)
		if len(mts) != 0 || len(mps) != 0 {
			t.Fatalf("expected cascaded rows gone: teams=%d players=%d", len(mts), len(mps))
		}
		if err := d.Matches.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunMatchTeamRepositoryContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("create_list_delete", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		id := mkMatch(t, d, a, b)
		for _, mt := range []model.MatchTeam{{MatchID: id, TeamID: a, Score: 10}, {MatchID: id, TeamID: b, Score: 0}} {
			if _, err := d.MatchTeams.Create(ctx, mt); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
		rows, err := d.MatchTeams.ListByMatch(ctx, id)
		if err != nil || len(rows) != 2 {
			t.Fatalf("list by match: %v err=%v", rows, err)
		}
		n, err := d.MatchTeams.DeleteByMatch(ctx, id)
		if err != nil || n != 2 {
			t.Fatalf("delete by match: n=%d err=%v", n, err)
		}
		n, err = d.MatchTeams.DeleteByMatch(ctx, id)
		if err != nil || n != 0 {
			t.Fatalf("second delete: n=%d err=%v", n, err)
		}
	})

	t.Run("duplicate_and_negative", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		id := mkMatch(t, d, a, b)
		if _, err := d.MatchTeams.Create(ctx, model.MatchTeam{MatchID: id, TeamID: a, Score: 1}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := d.MatchTeams.Create(ctx, model.MatchTeam{MatchID: id, TeamID: a, Score: 2}); !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		if _, err := d.MatchTeams.Create(ctx, model.MatchTeam{MatchID: id, TeamID: b, Score: -1}); !errors.Is(err, repository.ErrInvalidValue) {
			t.Fatalf("expected ErrInvalidValue, got %v", err)
		}
	})
}

func RunMatchPlayerRepositoryContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("create_get_update", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		pid := mkPlayer(t, d, a, "Shooter")
		mid := mkMatch(t, d, a, b)
		created, err := d.MatchPlayers.Create(ctx, model.MatchPlayer{MatchID: mid, PlayerID: pid, Score: 4})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.PlayerName != "Shooter" || created.Score != 4 {
			t.Fatalf("unexpected row: %+v", created)
		}
		updated, err := d.MatchPlayers.UpdateScore(ctx, mid, pid, 0)
		if err != nil || updated.Score != 0 {
			t.Fatalf("update: %+v err=%v", updated, err)
		}
		got, err := d.MatchPlayers.Get(ctx, mid, pid)
		if err != nil || got.Score != 0 {
			t.Fatalf("get: %+v err=%v", got, err)
		}
	})

	t.Run("missing_row_not_found", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		if _, err := d.MatchPlayers.Get(ctx, 1, 1); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on get, got %v", err)
		}
		if _, err := d.MatchPlayers.UpdateScore(ctx, 1, 1, 3); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update, got %v", err)
		}
	})

	t.Run("unique_player_per_match", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		a, b := mkTeam(t, d, "A"), mkTeam(t, d, "B")
		pid := mkPlayer(t, d, a, "Twice")
		mid := mkMatch(t, d, a, b)
		if _, err := d.MatchPlayers.Create(ctx, model.MatchPlayer{MatchID: mid, PlayerID: pid, Score: 1}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := d.MatchPlayers.Create(ctx, model.MatchPlayer{MatchID: mid, PlayerID: pid, Score: 2})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_empty_ok", func(t *testing.T) {
		d := fresh(t, makeDeps)
		list, err := d.MatchPlayers.ListByMatch(context.Background(), 123456)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("expected empty list, got %d", len(list))
		}
	})
}

func RunTxManagerContract(t *testing.T, makeDeps Factory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		var createdID int64
		err := d.Tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := d.Teams.Create(ctx, model.Team{Name: "TxCommit"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := d.Teams.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		var createdID int64
		errMarker := errors.New("boom")
		err := d.Tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := d.Teams.Create(ctx, model.Team{Name: "TxRollback"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := d.Teams.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		d := fresh(t, makeDeps)
		ctx := context.Background()
		err := d.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := d.Tx.WithinTx(ctx, func(ctx context.Context) error {
				_, err := d.Teams.Create(ctx, model.Team{Name: "Inner"})
				return err
			}); err != nil {
				return err
			}
			return errors.New("outer failed")
		})
		if err == nil {
			t.Fatalf("expected outer error")
		}
		res, err := d.Teams.List(ctx, repository.Page{Limit: 10})
		if err != nil || res.Total != 0 {
			t.Fatalf("expected inner work rolled back: total=%d err=%v", res.Total, err)
		}
	})
}

func RunPingerContract(t *testing.T, makeDeps Factory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		d := fresh(t, makeDeps)
		if err := d.Pinger.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// RunAll runs every suite against one backend.
func RunAll(t *testing.T, makeDeps Factory) {
	t.Run("teams", func(t *testing.T) { RunTeamRepositoryContract(t, makeDeps) })
	t.Run("coaches", func(t *testing.T) { RunCoachRepositoryContract(t, makeDeps) })
	t.Run("players", func(t *testing.T) { RunPlayerRepositoryContract(t, makeDeps) })
	t.Run("matches", func(t *testing.T) { RunMatchRepositoryContract(t, makeDeps) })
	t.Run("match_teams", func(t *testing.T) { RunMatchTeamRepositoryContract(t, makeDeps) })
	t.Run("match_players", func(t *testing.T) { RunMatchPlayerRepositoryContract(t, makeDeps) })
	t.Run("tx", func(t *testing.T) { RunTxManagerContract(t, makeDeps) })
	t.Run("pinger", func(t *testing.T) { RunPingerContract(t, makeDeps) })
}
