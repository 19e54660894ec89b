package service

import (
	"context"
	"errors"
	"testing"

	"memotheque/internal/core/config"
	"memotheque/internal/domain"
)

func TestFavoritesAddListRemove(t *testing.T) {
	db := newTestDB(t)
	_, prog, ses := seedCatalog(t, db)
	svc, _ := newTestTheses(t, db, config.Storage{})
	fav := NewFavorites(db)
	ctx := context.Background()

	u := domain.User{Name: "Awa", Email: "awa@exemple.com", PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}

	a := mustCreateThesis(t, svc, validInput(prog, ses), "Premier mémoire")
	b := mustCreateThesis(t, svc, validInput(prog, ses), "Second mémoire")

	if err := fav.Add(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := fav.Add(ctx, u.ID, b.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := fav.Add(ctx, u.ID, a.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("double add: err = %v, want ErrDuplicate", err)
	}
	if err := fav.Add(ctx, u.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown thesis: err = %v, want ErrNotFound", err)
	}

	rows, err := fav.List(ctx, u.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("List = %d rows, want 2", len(rows))
	}

	if err := fav.Remove(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := fav.Remove(ctx, u.ID, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double remove: err = %v, want ErrNotFound", err)
	}
	rows, _ = fav.List(ctx, u.ID)
	if len(rows) != 1 || rows[0].Title != "Second mémoire" {
		t.Fatalf("List after remove = %+v", rows)
	}

	// 别的用户看不到
	rows, _ = fav.List(ctx, 999)
	if len(rows) != 0 {
		t.Fatalf("other user sees %d rows", len(rows))
	}
}
