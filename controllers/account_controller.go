// controllers/account_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_custody_tracker/app"

	"github.com/gin-gonic/gin"
)

type AccountController struct{ *Srv }

func NewAccountController(s *Srv) *AccountController { return &AccountController{Srv: s} }

// Whoami 返回当前解析出的账号
func (ac *AccountController) Whoami(c *gin.Context) {
	acc, ok := ac.currentAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, acc)
}

// List 管理端账号列表 ?q=&page=&size=
func (ac *AccountController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListAccounts(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		ac.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ToggleAdmin 翻转目标账号的管理员标志
func (ac *AccountController) ToggleAdmin(c *gin.Context) {
	admin, ok := ac.currentAccount(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	// 缓存里有旧的 isAdmin，变更前先拿到 Telegram ID 用于失效
	target, err := ac.Repo.FindAccountByID(c.Request.Context(), targetID)
	if err != nil {
		ac.httpError(c, err)
		return
	}

	newValue, err := ac.Repo.ToggleAdmin(c.Request.Context(), admin, targetID)
	if err != nil {
		ac.httpError(c, err)
		return
	}
	if newValue == nil {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	if ac.Cache != nil {
		_ = ac.Cache.Invalidate(c.Request.Context(), target.TelegramID)
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "isAdmin": *newValue})
}
