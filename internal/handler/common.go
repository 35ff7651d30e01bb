package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/maxviazov/tournament-stats-service/pkg/response"
)

const serviceTimeout = 5 * time.Second

// requestCtx bounds a service call so a stuck storage backend cannot pin the request forever.
func requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), serviceTimeout)
}

// pathID parses a positive integer path parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: name, Message: "must be a positive integer"}}))
		return 0, false
	}
	return id, true
}

func pageFrom(c *gin.Context) repository.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return repository.Page{Limit: limit, Offset: offset}
}

// pageEcho mirrors the normalization done by the services so the envelope reports
// the window that was actually applied.
func pageEcho(p repository.Page) repository.Page {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// bindJSON decodes the body into dst; malformed JSON is reported as a body field error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "malformed JSON payload"}}))
		return false
	}
	return true
}
