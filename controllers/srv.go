// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_custody_tracker/app"
	"Gin_postgres_redis_custody_tracker/db"
	"Gin_postgres_redis_custody_tracker/models"
	"Gin_postgres_redis_custody_tracker/notify"
	"Gin_postgres_redis_custody_tracker/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Srv struct {
	Repo   *db.Repo
	Cache  *session.IdentityCache
	Notify *notify.Notifier
	Log    *zap.SugaredLogger
	Cfg    app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:   db.NewRepo(a.DB),
		Cache:  a.IdentityCache(),
		Notify: notify.New(a.RDB, a.Log),
		Log:    a.Log.Sugar(),
		Cfg:    a.Config,
	}
}

// --- helpers ---

func accountID(c *gin.Context) string {
	v, _ := c.Get("accountID")
	id, _ := v.(string)
	return id
}

// currentAccount 读取鉴权中间件解析出的账号（管理操作要带操作人）
func (s *Srv) currentAccount(c *gin.Context) (*models.Account, bool) {
	id := accountID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return nil, false
	}
	acc, err := s.Repo.FindAccountByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return nil, false
	}
	return acc, true
}

// httpError 业务错误 → 稳定的状态码分类，前端据此解释失败原因
func (s *Srv) httpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrItemNotFound),
		errors.Is(err, db.ErrCategoryNotFound),
		errors.Is(err, db.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotHolder):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrInvalidTransition),
		errors.Is(err, db.ErrDuplicateCode),
		errors.Is(err, db.ErrDuplicateName),
		errors.Is(err, db.ErrLastAdmin),
		errors.Is(err, db.ErrCategoryNotEmptyTaken):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		s.Log.Errorw("store failure", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}
