// controllers/category_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_custody_tracker/app"

	"github.com/gin-gonic/gin"
)

type CategoryController struct{ *Srv }

func NewCategoryController(s *Srv) *CategoryController { return &CategoryController{Srv: s} }

// ListActive 普通用户只看到活跃分类
func (cc *CategoryController) ListActive(c *gin.Context) {
	cats, err := cc.Repo.ListActiveCategories(c.Request.Context())
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cats})
}

// ListAll 管理端：包含停用分类
func (cc *CategoryController) ListAll(c *gin.Context) {
	cats, err := cc.Repo.ListAllCategories(c.Request.Context())
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cats})
}

// ItemsInCategory 浏览某分类下的物品
func (cc *CategoryController) ItemsInCategory(c *gin.Context) {
	catID := c.Param("id")
	if _, err := cc.Repo.FindCategoryByID(c.Request.Context(), catID); err != nil {
		cc.httpError(c, err)
		return
	}
	items, err := cc.Repo.ListItemsByCategory(c.Request.Context(), catID)
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (cc *CategoryController) Create(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	admin, ok := cc.currentAccount(c)
	if !ok {
		return
	}
	cat, err := cc.Repo.CreateCategory(c.Request.Context(), admin, in.Name, in.Description)
	if err != nil {
		cc.httpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (cc *CategoryController) Update(c *gin.Context) {
	var in struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	admin, ok := cc.currentAccount(c)
	if !ok {
		return
	}
	found, err := cc.Repo.UpdateCategory(c.Request.Context(), admin, c.Param("id"), in.Name, in.Description)
	if err != nil {
		cc.httpError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (cc *CategoryController) SetActive(c *gin.Context) {
	var in struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	admin, ok := cc.currentAccount(c)
	if !ok {
		return
	}
	found, err := cc.Repo.SetCategoryActive(c.Request.Context(), admin, c.Param("id"), *in.Active)
	if err != nil {
		cc.httpError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "active": *in.Active})
}

// Delete 硬删除；展示层负责二次确认
func (cc *CategoryController) Delete(c *gin.Context) {
	admin, ok := cc.currentAccount(c)
	if !ok {
		return
	}
	found, err := cc.Repo.DeleteCategory(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		cc.httpError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, app.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
