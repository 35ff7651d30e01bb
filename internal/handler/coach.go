package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/maxviazov/tournament-stats-service/pkg/response"
)

type CoachHandler struct {
	svc service.CoachService
}

func NewCoachHandler(svc service.CoachService) *CoachHandler { return &CoachHandler{svc: svc} }

func (h *CoachHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/coaches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
}

type coachRequest struct {
	Name string `json:"name"`
	Team int64  `json:"team"`
}

func (h *CoachHandler) create(c *gin.Context) {
	var req coachRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	coach, err := h.svc.CreateCoach(ctx, req.Name, req.Team)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, coach)
}

func (h *CoachHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	coach, err := h.svc.GetCoach(ctx, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, coach)
}

func (h *CoachHandler) list(c *gin.Context) {
	page := pageFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()
	res, err := h.svc.ListCoaches(ctx, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, response.NewList(res, pageEcho(page)))
}

func (h *CoachHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req coachRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	coach, err := h.svc.UpdateCoach(ctx, id, req.Name, req.Team)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, coach)
}

func (h *CoachHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.svc.DeleteCoach(ctx, id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
