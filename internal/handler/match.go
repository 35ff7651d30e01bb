package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/maxviazov/tournament-stats-service/pkg/response"
)

const dateLayout = "2006-01-02"

// MatchHandler serves matches and the performances recorded under them.
// The players sub-resource maps each HTTP method to one named operation.
type MatchHandler struct {
	matches service.MatchService
	players service.MatchPlayerService
}

func NewMatchHandler(matches service.MatchService, players service.MatchPlayerService) *MatchHandler {
	return &MatchHandler{matches: matches, players: players}
}

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.PATCH("/:id", h.partialUpdate)
		g.DELETE("/:id", h.delete)

		g.GET("/:id/players", h.listPlayers)
		g.POST("/:id/players", h.createPlayer)
		g.PUT("/:id/players", h.updatePlayer)
		g.PATCH("/:id/players", h.partialUpdatePlayer)
		g.DELETE("/:id/players", h.deletePlayer)
	}
}

type matchRequest struct {
	ScheduledDate string `json:"scheduled_date"`
	Stadium       string `json:"stadium"`
	Round         string `json:"round"`
	Team1         int64  `json:"team1"`
	Team2         int64  `json:"team2"`
	Team1Score    *int   `json:"team1_score"`
	Team2Score    *int   `json:"team2_score"`
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp; an empty
// value yields the zero time, which the service reports as missing.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d, true
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func (h *MatchHandler) create(c *gin.Context) {
	var req matchRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(req.ScheduledDate)
	if !ok {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "scheduled_date", Message: "must be a date in YYYY-MM-DD format"}}))
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	m, err := h.matches.CreateMatch(ctx, model.MatchInput{
		ScheduledDate: date,
		Stadium:       req.Stadium,
		Round:         req.Round,
		Team1ID:       req.Team1,
		Team2ID:       req.Team2,
		Team1Score:    req.Team1Score,
		Team2Score:    req.Team2Score,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, matchView(m))
}

func (h *MatchHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	m, err := h.matches.GetMatch(ctx, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, matchView(m))
}

func (h *MatchHandler) list(c *gin.Context) {
	page := pageFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()
	res, err := h.matches.ListMatches(ctx, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	views := make([]matchResponse, 0, len(res.Items))
	for _, m := range res.Items {
		views = append(views, matchView(m))
	}
	p := pageEcho(page)
	response.WriteData(c, http.StatusOK, response.ListPayload[matchResponse]{Items: views, Total: res.Total, Limit: p.Limit, Offset: p.Offset})
}

func (h *MatchHandler) update(c *gin.Context) {
	response.WriteError(c, h.matches.UpdateMatch(c.Request.Context(), rawID(c)))
}

func (h *MatchHandler) partialUpdate(c *gin.Context) {
	response.WriteError(c, h.matches.PartialUpdateMatch(c.Request.Context(), rawID(c)))
}

func (h *MatchHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.matches.DeleteMatch(ctx, id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// rawID is used by the refused operations, which answer 501 whatever the id.
func rawID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}

type matchPlayerRequest struct {
	Player int64 `json:"player"`
	Match  int64 `json:"match"`
	Score  *int  `json:"score"`
}

func (r matchPlayerRequest) input() model.MatchPlayerInput {
	return model.MatchPlayerInput{PlayerID: r.Player, MatchID: r.Match, Score: r.Score}
}

func (h *MatchHandler) listPlayers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	rows, err := h.players.ListMatchPlayers(ctx, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if rows == nil {
		rows = []model.MatchPlayer{}
	}
	response.WriteData(c, http.StatusOK, rows)
}

func (h *MatchHandler) createPlayer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req matchPlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	mp, err := h.players.CreateMatchPlayer(ctx, id, req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, mp)
}

func (h *MatchHandler) updatePlayer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req matchPlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	mp, err := h.players.UpdateMatchPlayer(ctx, id, req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, mp)
}

func (h *MatchHandler) partialUpdatePlayer(c *gin.Context) {
	response.WriteError(c, h.players.PartialUpdateMatchPlayer(c.Request.Context(), rawID(c)))
}

func (h *MatchHandler) deletePlayer(c *gin.Context) {
	response.WriteError(c, h.players.DeleteMatchPlayer(c.Request.Context(), rawID(c)))
}

// matchResponse renders the scheduled date as a calendar date.
type matchResponse struct {
	ID            int64       `json:"id"`
	ScheduledDate string      `json:"scheduled_date"`
	Stadium       string      `json:"stadium"`
	Round         model.Round `json:"round"`
	Team1         int64       `json:"team1"`
	Team1Name     string      `json:"team1_name"`
	Team2         int64       `json:"team2"`
	Team2Name     string      `json:"team2_name"`
	Team1Score    int         `json:"team1_score"`
	Team2Score    int         `json:"team2_score"`
}

func matchView(m model.Match) matchResponse {
	return matchResponse{
		ID:            m.ID,
		ScheduledDate: m.ScheduledDate.Format(dateLayout),
		Stadium:       m.Stadium,
		Round:         m.Round,
		Team1:         m.Team1ID,
		Team1Name:     m.Team1Name,
		Team2:         m.Team2ID,
		Team2Name:     m.Team2Name,
		Team1Score:    m.Team1Score,
		Team2Score:    m.Team2Score,
	}
}
