// controllers/custody_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_custody_tracker/app"
	"Gin_postgres_redis_custody_tracker/db"
	"Gin_postgres_redis_custody_tracker/metrics"

	"github.com/gin-gonic/gin"
)

type CustodyController struct{ *Srv }

func NewCustodyController(s *Srv) *CustodyController { return &CustodyController{Srv: s} }

type custodyRequest struct {
	// 照片证据：不透明引用（file id / URL），必填，原样入库
	PhotoRef string `json:"photoRef" binding:"required"`
	Comment  string `json:"comment"`
}

// CheckOut 借出
func (cc *CustodyController) CheckOut(c *gin.Context) {
	itemID := c.Param("id")
	acc, ok := cc.currentAccount(c)
	if !ok {
		return
	}

	var in custodyRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	ev, item, err := cc.Repo.CheckOut(c.Request.Context(), itemID, acc.ID, in.PhotoRef, in.Comment)
	if err != nil {
		if err == db.ErrInvalidTransition {
			metrics.TransitionConflicts.Inc()
		}
		cc.httpError(c, err)
		return
	}
	metrics.CheckOuts.Inc()
	if cc.Notify != nil {
		cc.Notify.CustodyChanged(c.Request.Context(), ev, item, acc)
	}
	c.JSON(http.StatusCreated, app.H{"event": ev, "item": item})
}

// CheckIn 归还（只能还自己手上的）
func (cc *CustodyController) CheckIn(c *gin.Context) {
	itemID := c.Param("id")
	acc, ok := cc.currentAccount(c)
	if !ok {
		return
	}

	var in custodyRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	ev, item, err := cc.Repo.CheckIn(c.Request.Context(), itemID, acc.ID, in.PhotoRef, in.Comment)
	if err != nil {
		if err == db.ErrInvalidTransition {
			metrics.TransitionConflicts.Inc()
		}
		cc.httpError(c, err)
		return
	}
	metrics.CheckIns.Inc()
	if cc.Notify != nil {
		cc.Notify.CustodyChanged(c.Request.Context(), ev, item, acc)
	}
	c.JSON(http.StatusOK, app.H{"event": ev, "item": item})
}

// History 谁在什么时候拿过/还过，新的在前
func (cc *CustodyController) History(c *gin.Context) {
	itemID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := cc.Repo.History(c.Request.Context(), itemID, limit)
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"events": rows})
}

// MyItems 当前账号手上的物品
func (cc *CustodyController) MyItems(c *gin.Context) {
	items, err := cc.Repo.ListHeldBy(c.Request.Context(), accountID(c))
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// MyHistory 当前账号的交接记录
func (cc *CustodyController) MyHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := cc.Repo.ListEventsForAccount(c.Request.Context(), accountID(c), limit)
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"events": events})
}

// OnHands 管理员报表：在外物品及持有人
func (cc *CustodyController) OnHands(c *gin.Context) {
	rows, err := cc.Repo.ListOnHands(c.Request.Context())
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}
