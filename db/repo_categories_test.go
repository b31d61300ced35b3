package db

import (
	"context"
	"errors"
	"testing"

	"Gin_postgres_redis_custody_tracker/models"
)

func TestCreateCategory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	admin := mkAccount(t, r, 1, "root", true)

	cat, err := r.CreateCategory(ctx, admin, "Tools", "power tools")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !cat.IsActive {
		t.Fatalf("new category should be active")
	}
	if n := countAudit(t, r, "create_category"); n != 1 {
		t.Fatalf("expected audit entry, got %d", n)
	}

	// 名称在活跃/停用之间都唯一
	if _, err := r.CreateCategory(ctx, admin, "Tools", ""); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := r.SetCategoryActive(ctx, admin, cat.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := r.CreateCategory(ctx, admin, "Tools", ""); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("inactive name reusable: %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	admin := mkAccount(t, r, 1, "root", true)
	cat := mkCategory(t, r, "Tools")
	mkCategory(t, r, "Ladders")

	t.Run("rename", func(t *testing.T) {
		name := "Hand Tools"
		found, err := r.UpdateCategory(ctx, admin, cat.ID, &name, nil)
		if err != nil || !found {
			t.Fatalf("update: found=%v err=%v", found, err)
		}
		got, err := r.FindCategoryByID(ctx, cat.ID)
		if err != nil || got.Name != "Hand Tools" {
			t.Fatalf("rename not applied: %+v err=%v", got, err)
		}
	})

	t.Run("rename onto existing name rejected", func(t *testing.T) {
		name := "Ladders"
		_, err := r.UpdateCategory(ctx, admin, cat.ID, &name, nil)
		if !errors.Is(err, ErrDuplicateName) {
			t.Fatalf("expected ErrDuplicateName, got %v", err)
		}
	})

	t.Run("missing id signals via bool", func(t *testing.T) {
		name := "X"
		found, err := r.UpdateCategory(ctx, admin, "no-such-id", &name, nil)
		if err != nil || found {
			t.Fatalf("expected (false, nil), got (%v, %v)", found, err)
		}
	})
}

func TestCategoryActivation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	admin := mkAccount(t, r, 1, "root", true)
	cat := mkCategory(t, r, "Tools")

	if found, err := r.SetCategoryActive(ctx, admin, cat.ID, false); err != nil || !found {
		t.Fatalf("deactivate: found=%v err=%v", found, err)
	}

	active, err := r.ListActiveCategories(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("deactivated category still browsable")
	}

	all, err := r.ListAllCategories(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("admin listing should include inactive, got %d", len(all))
	}
}

func TestDeleteCategory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	admin := mkAccount(t, r, 1, "root", true)
	alice := mkAccount(t, r, 100, "alice", false)

	t.Run("blocked while an item is out", func(t *testing.T) {
		cat := mkCategory(t, r, "Tools")
		item := mkItem(t, r, cat.ID, "Drill")
		if _, _, err := r.CheckOut(ctx, item.ID, alice.ID, "p", ""); err != nil {
			t.Fatalf("check out: %v", err)
		}

		_, err := r.DeleteCategory(ctx, admin, cat.ID)
		if !errors.Is(err, ErrCategoryNotEmptyTaken) {
			t.Fatalf("expected ErrCategoryNotEmptyTaken, got %v", err)
		}

		// 归还后可以删，连带物品和历史
		if _, _, err := r.CheckIn(ctx, item.ID, alice.ID, "p", ""); err != nil {
			t.Fatalf("check in: %v", err)
		}
		found, err := r.DeleteCategory(ctx, admin, cat.ID)
		if err != nil || !found {
			t.Fatalf("delete: found=%v err=%v", found, err)
		}
		if _, err := r.FindItemByID(ctx, item.ID); !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("item survived category delete")
		}
		if n := countEvents(t, r, item.ID); n != 0 {
			t.Fatalf("events survived category delete: %d", n)
		}
	})

	t.Run("missing id signals via bool", func(t *testing.T) {
		found, err := r.DeleteCategory(ctx, admin, "no-such-id")
		if err != nil || found {
			t.Fatalf("expected (false, nil), got (%v, %v)", found, err)
		}
	})

	t.Run("blocked while an item is lost", func(t *testing.T) {
		cat := mkCategory(t, r, "Ladders")
		item := mkItem(t, r, cat.ID, "Step Ladder")
		if _, err := r.ForceStatus(ctx, admin, item.ID, models.StatusLost); err != nil {
			t.Fatalf("force lost: %v", err)
		}
		_, err := r.DeleteCategory(ctx, admin, cat.ID)
		if !errors.Is(err, ErrCategoryNotEmptyTaken) {
			t.Fatalf("expected ErrCategoryNotEmptyTaken, got %v", err)
		}
	})
}
