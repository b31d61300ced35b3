package db

import (
	"context"
	"errors"
	"testing"
)

func TestEnsureAccount(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	allow := EnsureAccountInput{
		TelegramID:     555,
		Username:       "Boss",
		FirstName:      "B",
		AdminIDs:       []int64{777},
		AdminUsernames: []string{"boss"},
	}

	t.Run("lazy creation on first contact", func(t *testing.T) {
		acc, err := r.EnsureAccount(ctx, EnsureAccountInput{TelegramID: 100, Username: "alice"})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if acc.IsAdmin {
			t.Fatalf("unlisted account must not be admin")
		}

		again, err := r.EnsureAccount(ctx, EnsureAccountInput{TelegramID: 100, Username: "alice2"})
		if err != nil {
			t.Fatalf("ensure again: %v", err)
		}
		if again.ID != acc.ID {
			t.Fatalf("second contact created a new account")
		}
		if again.Username != "alice2" {
			t.Fatalf("profile not refreshed: %q", again.Username)
		}
	})

	t.Run("allow-list by username grants admin", func(t *testing.T) {
		acc, err := r.EnsureAccount(ctx, allow)
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if !acc.IsAdmin {
			t.Fatalf("allow-listed username not promoted")
		}
	})

	t.Run("allow-list by telegram id grants admin", func(t *testing.T) {
		acc, err := r.EnsureAccount(ctx, EnsureAccountInput{
			TelegramID: 777,
			AdminIDs:   []int64{777},
		})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if !acc.IsAdmin {
			t.Fatalf("allow-listed id not promoted")
		}
	})

	t.Run("allow-list never demotes", func(t *testing.T) {
		acc, err := r.EnsureAccount(ctx, EnsureAccountInput{TelegramID: 555, Username: "renamed"})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if !acc.IsAdmin {
			t.Fatalf("admin flag lost after leaving the allow-list")
		}
	})
}

func TestToggleAdmin(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	root := mkAccount(t, r, 1, "root", true)
	alice := mkAccount(t, r, 100, "alice", false)

	t.Run("promote and demote", func(t *testing.T) {
		v, err := r.ToggleAdmin(ctx, root, alice.ID)
		if err != nil || v == nil || !*v {
			t.Fatalf("promote: v=%v err=%v", v, err)
		}
		if n := countAudit(t, r, "toggle_admin"); n != 1 {
			t.Fatalf("expected audit entry, got %d", n)
		}

		v, err = r.ToggleAdmin(ctx, root, alice.ID)
		if err != nil || v == nil || *v {
			t.Fatalf("demote: v=%v err=%v", v, err)
		}
	})

	t.Run("missing target returns nil", func(t *testing.T) {
		v, err := r.ToggleAdmin(ctx, root, "no-such-id")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v != nil {
			t.Fatalf("expected nil for missing target")
		}
	})

	t.Run("last admin cannot demote themselves", func(t *testing.T) {
		_, err := r.ToggleAdmin(ctx, root, root.ID)
		if !errors.Is(err, ErrLastAdmin) {
			t.Fatalf("expected ErrLastAdmin, got %v", err)
		}
		acc, err := r.FindAccountByID(ctx, root.ID)
		if err != nil || !acc.IsAdmin {
			t.Fatalf("root lost admin despite rejection")
		}
	})

	t.Run("self-demotion allowed when another admin remains", func(t *testing.T) {
		second := mkAccount(t, r, 2, "backup", true)
		v, err := r.ToggleAdmin(ctx, second, second.ID)
		if err != nil || v == nil || *v {
			t.Fatalf("self demotion: v=%v err=%v", v, err)
		}
	})
}

func TestListAccounts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	mkAccount(t, r, 1, "root", true)
	mkAccount(t, r, 100, "alice", false)
	mkAccount(t, r, 101, "bob", false)

	res, err := r.ListAccounts(ctx, "ali", 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || len(res.Accounts) != 1 || res.Accounts[0].Username != "alice" {
		t.Fatalf("keyword filter failed: %+v", res)
	}

	admins, err := r.ListAdmins(ctx)
	if err != nil {
		t.Fatalf("admins: %v", err)
	}
	if len(admins) != 1 || admins[0].Username != "root" {
		t.Fatalf("admin listing failed: %+v", admins)
	}
}
