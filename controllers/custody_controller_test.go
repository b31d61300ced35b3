package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Gin_postgres_redis_custody_tracker/db"
	"Gin_postgres_redis_custody_tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试路由：真实 repo + 内存 SQLite，用假的鉴权中间件注入身份
func newTestRouter(t *testing.T) (*gin.Engine, *db.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := db.NewRepo(gdb)
	s := &Srv{Repo: repo, Log: zap.NewNop().Sugar()}
	cc := NewCustodyController(s)

	r := gin.New()
	// 路径里的 :account 模拟不同调用方的鉴权结果
	r.POST("/as/:account/items/:id/checkout", func(c *gin.Context) {
		c.Set("accountID", c.Param("account"))
		cc.CheckOut(c)
	})
	r.POST("/as/:account/items/:id/checkin", func(c *gin.Context) {
		c.Set("accountID", c.Param("account"))
		cc.CheckIn(c)
	})
	r.GET("/items/:id/history", cc.History)

	return r, repo
}

func seedAccount(t *testing.T, repo *db.Repo, tgID int64, username string) *models.Account {
	t.Helper()
	acc := &models.Account{ID: uuid.NewString(), TelegramID: tgID, Username: username}
	if err := repo.DB.Create(acc).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc
}

func seedItem(t *testing.T, repo *db.Repo) *models.Item {
	t.Helper()
	cat := &models.Category{ID: uuid.NewString(), Name: "Tools", IsActive: true}
	if err := repo.DB.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	it := &models.Item{ID: uuid.NewString(), CategoryID: cat.ID, Name: "Drill", Status: models.StatusAvailable}
	if err := repo.DB.Create(it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return it
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 典型场景：A 借走，B 借失败，B 还失败，A 归还
func TestCustodyFlowOverHTTP(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seedAccount(t, repo, 100, "a")
	b := seedAccount(t, repo, 101, "b")
	item := seedItem(t, repo)

	photo := map[string]string{"photoRef": "tg-file-1"}

	w := doJSON(t, r, http.MethodPost, "/as/"+a.ID+"/items/"+item.ID+"/checkout", photo)
	if w.Code != http.StatusCreated {
		t.Fatalf("A checkout: expected 201, got %d (%s)", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodPost, "/as/"+b.ID+"/items/"+item.ID+"/checkout", photo)
	if w.Code != http.StatusConflict {
		t.Fatalf("B checkout: expected 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/as/"+b.ID+"/items/"+item.ID+"/checkin", photo)
	if w.Code != http.StatusForbidden {
		t.Fatalf("B checkin: expected 403, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/as/"+a.ID+"/items/"+item.ID+"/checkin", photo)
	if w.Code != http.StatusOK {
		t.Fatalf("A checkin: expected 200, got %d (%s)", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodGet, "/items/"+item.ID+"/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}
	var out struct {
		Events []db.EventWithActor `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(out.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out.Events))
	}
}

func TestCustodyValidationOverHTTP(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seedAccount(t, repo, 100, "a")
	item := seedItem(t, repo)

	t.Run("photo evidence is mandatory", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/as/"+a.ID+"/items/"+item.ID+"/checkout",
			map[string]string{"comment": "no photo"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown item maps to 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/as/"+a.ID+"/items/nope/checkout",
			map[string]string{"photoRef": "p"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
