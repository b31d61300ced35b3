package routes

import (
	"Gin_postgres_redis_custody_tracker/app"
	"Gin_postgres_redis_custody_tracker/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	custodyCtl := controllers.NewCustodyController(s)
	catCtl := controllers.NewCategoryController(s)
	itemCtl := controllers.NewItemController(s)
	accCtl := controllers.NewAccountController(s)
	auditCtl := controllers.NewAuditController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.IdentityCache(), s.Repo, a.Config)
	adminMW := app.AdminOnly(s.Repo)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 自助：浏览 / 借 / 还 / 历史
	// ------------------------------
	api := r.Group("/api", authMW, seenMW)
	{
		api.GET("/whoami", accCtl.Whoami)

		api.GET("/categories", catCtl.ListActive)
		api.GET("/categories/:id/items", catCtl.ItemsInCategory)

		api.GET("/items/available", itemCtl.ListAvailable)
		api.GET("/items/search", itemCtl.Search) // ?q=
		api.GET("/items/:id/history", custodyCtl.History)

		api.POST("/items/:id/checkout", custodyCtl.CheckOut)
		api.POST("/items/:id/checkin", custodyCtl.CheckIn)

		api.GET("/me/items", custodyCtl.MyItems)
		api.GET("/me/history", custodyCtl.MyHistory)
	}

	// ------------------------------
	// 管理端（仅管理员）
	// ------------------------------
	admin := r.Group("/api/admin", authMW, adminMW)
	{
		admin.GET("/categories", catCtl.ListAll)
		admin.POST("/categories", catCtl.Create)
		admin.PATCH("/categories/:id", catCtl.Update)
		admin.POST("/categories/:id/active", catCtl.SetActive)
		admin.DELETE("/categories/:id", catCtl.Delete)

		admin.POST("/items", itemCtl.Create)
		admin.PATCH("/items/:id", itemCtl.Update)
		admin.POST("/items/:id/status", itemCtl.ForceStatus)
		admin.POST("/items/:id/reconcile", itemCtl.Reconcile)
		admin.DELETE("/items/:id", itemCtl.Delete)
		admin.GET("/items/onhands", custodyCtl.OnHands)

		admin.GET("/accounts", accCtl.List) // ?q=&page=&size=
		admin.POST("/accounts/:id/toggle-admin", accCtl.ToggleAdmin)

		admin.GET("/audit", auditCtl.List) // ?limit=
	}
}
