package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/maxviazov/tournament-stats-service/pkg/response"
)

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		// Use a stable wildcard name (team_id) so nested routes (e.g. players) can reuse it without Gin conflicts.
		g.GET("/:team_id", h.getByID)
		g.PUT("/:team_id", h.rename)
		g.DELETE("/:team_id", h.delete)
		g.GET("/:team_id/players", h.listPlayers)
	}
}

type teamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandler) create(c *gin.Context) {
	var req teamRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	team, err := h.svc.CreateTeam(ctx, req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *TeamHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	team, err := h.svc.GetTeam(ctx, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) list(c *gin.Context) {
	page := pageFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()
	res, err := h.svc.ListTeams(ctx, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.NewList(res, pageEcho(page)))
}

func (h *TeamHandler) rename(c *gin.Context) {
	id, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	var req teamRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	team, err := h.svc.RenameTeam(ctx, id, req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.svc.DeleteTeam(ctx, id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) listPlayers(c *gin.Context) {
	id, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	page := pageFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()
	res, err := h.svc.ListTeamPlayers(ctx, id, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.NewList(res, pageEcho(page)))
}
