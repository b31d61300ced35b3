package app

import (
	"Gin_postgres_redis_custody_tracker/auth"
	"Gin_postgres_redis_custody_tracker/db"
	"Gin_postgres_redis_custody_tracker/session"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired 验证网关签发的身份令牌，把外部身份解析成内部账号。
// 账号不存在时懒创建（首次接触即注册，白名单决定初始管理员）。
func AuthRequired(cache *session.IdentityCache, repo *db.Repo, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		claims, err := auth.ValidateToken(cfg.AuthSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid token"})
			return
		}

		ctx := c.Request.Context()

		// 先查缓存，未命中才落库（EnsureAccount 顺带刷新资料）
		if ident, err := cache.Get(ctx, claims.TelegramID); err == nil && ident != nil {
			c.Set("accountID", ident.AccountID)
			c.Set("telegramID", ident.TelegramID)
			c.Set("username", ident.Username)
			c.Set("isAdmin", ident.IsAdmin)
			c.Next()
			return
		}

		acc, err := repo.EnsureAccount(ctx, db.EnsureAccountInput{
			TelegramID:     claims.TelegramID,
			Username:       claims.Username,
			FirstName:      claims.FirstName,
			LastName:       claims.LastName,
			AdminIDs:       cfg.AdminIDs,
			AdminUsernames: cfg.AdminUsernames,
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "account resolution failed"})
			return
		}
		_ = cache.Put(ctx, session.CachedIdentity{
			AccountID:  acc.ID,
			TelegramID: acc.TelegramID,
			Username:   acc.Username,
			IsAdmin:    acc.IsAdmin,
		})

		c.Set("accountID", acc.ID)
		c.Set("telegramID", acc.TelegramID)
		c.Set("username", acc.Username)
		c.Set("isAdmin", acc.IsAdmin)

		c.Next()
	}
}

// AdminOnly 管理操作前重读账号行，不信缓存里的 isAdmin
func AdminOnly(repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("accountID")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		uid, _ := v.(string)
		acc, err := repo.FindAccountByID(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !acc.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
