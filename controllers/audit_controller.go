package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_custody_tracker/app"

	"github.com/gin-gonic/gin"
)

type AuditController struct{ *Srv }

func NewAuditController(s *Srv) *AuditController { return &AuditController{Srv: s} }

// List 管理操作的审计日志，新的在前
func (ac *AuditController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := ac.Repo.ListAuditLog(c.Request.Context(), limit)
	if err != nil {
		ac.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"entries": entries})
}
