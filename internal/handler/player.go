package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/maxviazov/tournament-stats-service/pkg/response"
	"github.com/shopspring/decimal"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
}

// playerRequest carries only writable fields; average_score and matches are
// silently ignored if a client sends them.
type playerRequest struct {
	Team   int64           `json:"team"`
	Name   string          `json:"name"`
	Height decimal.Decimal `json:"height"`
}

func (r playerRequest) input() model.PlayerInput {
	return model.PlayerInput{TeamID: r.Team, Name: r.Name, Height: r.Height}
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req playerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	player, err := h.svc.CreatePlayer(ctx, req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	player, err := h.svc.GetPlayer(ctx, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	page := pageFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()
	res, err := h.svc.ListPlayers(ctx, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.NewList(res, pageEcho(page)))
}

func (h *PlayerHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req playerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	player, err := h.svc.UpdatePlayer(ctx, id, req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.svc.DeletePlayer(ctx, id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
