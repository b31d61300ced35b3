// controllers/item_admin_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_custody_tracker/app"
	"Gin_postgres_redis_custody_tracker/metrics"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// ListAvailable 自助浏览：可借物品
func (ic *ItemController) ListAvailable(c *gin.Context) {
	items, err := ic.Repo.ListAvailableItems(c.Request.Context())
	if err != nil {
		ic.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// Search 按名称/编号搜索
func (ic *ItemController) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing query"})
		return
	}
	items, err := ic.Repo.SearchItems(c.Request.Context(), q, 50)
	if err != nil {
		ic.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// Create 管理员在分类下登记一件唯一物品
func (ic *ItemController) Create(c *gin.Context) {
	var in struct {
		CategoryID    string `json:"categoryId" binding:"required"`
		Name          string `json:"name" binding:"required"`
		InventoryCode string `json:"inventoryCode"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	admin, ok := ic.currentAccount(c)
	if !ok {
		return
	}
	item, err := ic.Repo.CreateItem(c.Request.Context(), admin, in.CategoryID, in.Name, in.InventoryCode)
	if err != nil {
		ic.httpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update 改名或改编号；目标不存在时只返回 ok=false
func (ic *ItemController) Update(c *gin.Context) {
	var in struct {
		Name          *string `json:"name"`
		InventoryCode *string `json:"inventoryCode"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	admin, ok := ic.currentAccount(c)
	if !ok {
		return
	}

	id := c.Param("id")
	found := false
	if in.Name != nil {
		ok, err := ic.Repo.RenameItem(c.Request.Context(), admin, id, *in.Name)
		if err != nil {
			ic.httpError(c, err)
			return
		}
		found = found || ok
	}
	if in.InventoryCode != nil {
		ok, err := ic.Repo.SetItemCode(c.Request.Context(), admin, id, *in.InventoryCode)
		if err != nil {
			ic.httpError(c, err)
			return
		}
		found = found || ok
	}
	if !found {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// ForceStatus 管理员强制状态变更（不产生 CustodyEvent，只进审计日志）
func (ic *ItemController) ForceStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	admin, ok := ic.currentAccount(c)
	if !ok {
		return
	}
	found, err := ic.Repo.ForceStatus(c.Request.Context(), admin, c.Param("id"), in.Status)
	if err != nil {
		ic.httpError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	metrics.ForcedTransitions.Inc()
	c.JSON(http.StatusOK, app.H{"ok": true, "status": in.Status})
}

// Reconcile 显式对账：按事件账本修复冗余的持有人列
func (ic *ItemController) Reconcile(c *gin.Context) {
	admin, ok := ic.currentAccount(c)
	if !ok {
		return
	}
	item, repaired, err := ic.Repo.ReconcileHolder(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		ic.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"item": item, "repaired": repaired})
}

// Delete 硬删除；交接历史一并销毁，展示层负责二次确认
func (ic *ItemController) Delete(c *gin.Context) {
	admin, ok := ic.currentAccount(c)
	if !ok {
		return
	}
	found, err := ic.Repo.DeleteItem(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		ic.httpError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
