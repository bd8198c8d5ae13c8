package session

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"restofront/internal/domain"
	"restofront/internal/repository/state"
	cartsvc "restofront/internal/service/cart"

	"github.com/shopspring/decimal"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newStores(repo state.Repository) (*cartsvc.Store, *Store) {
	cart := cartsvc.New("c1", repo, testLogger())
	return cart, New("c1", repo, cart, testLogger())
}

func TestLoginPersistsUserAndToken(t *testing.T) {
	ctx := context.Background()
	repo := state.NewMemory()
	_, sess := newStores(repo)

	sess.Login(ctx, domain.User{ID: 12, Role: domain.RoleClient}, "tok-123")
	if sess.User() == nil || sess.User().ID != 12 {
		t.Fatalf("unexpected user %+v", sess.User())
	}
	if sess.Token() != "tok-123" {
		t.Fatalf("unexpected token %q", sess.Token())
	}

	_, reloaded := newStores(repo)
	reloaded.Load(ctx)
	if reloaded.User() == nil || reloaded.User().ID != 12 || reloaded.Token() != "tok-123" {
		t.Fatalf("expected persisted identity, got %+v %q", reloaded.User(), reloaded.Token())
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	repo := state.NewMemory()
	cart, sess := newStores(repo)

	sess.Login(ctx, domain.User{ID: 12, Role: domain.RoleClient}, "tok-123")
	sess.SelectRestaurant(ctx, domain.Restaurant{ID: 5, Nom: "Chez Mado"})
	if err := cart.AddItem(ctx, domain.Dish{ID: 1, Nom: "Poulet", Prix: decimal.New(4500, 0), RestaurantID: 5}, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	sess.Logout(ctx)

	if sess.User() != nil || sess.Token() != "" || sess.Restaurant() != nil {
		t.Fatalf("expected logged out state, got %+v %q %+v", sess.User(), sess.Token(), sess.Restaurant())
	}
	if !cart.Empty() {
		t.Fatalf("expected empty cart after logout")
	}
	for _, key := range []string{state.KeyUser, state.KeyToken, state.KeyRestaurant, state.KeyCart} {
		if _, err := repo.Get(ctx, "c1", key); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected %s snapshot removed, got %v", key, err)
		}
	}
}

func TestSelectRestaurantVoidsCart(t *testing.T) {
	ctx := context.Background()
	repo := state.NewMemory()
	cart, sess := newStores(repo)

	sess.SelectRestaurant(ctx, domain.Restaurant{ID: 5, Nom: "Chez Mado"})
	if err := cart.AddItem(ctx, domain.Dish{ID: 1, Nom: "Poulet", Prix: decimal.New(4500, 0), RestaurantID: 5}, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	sess.SelectRestaurant(ctx, domain.Restaurant{ID: 7, Nom: "La Terrasse"})
	if !cart.Empty() {
		t.Fatalf("expected cart voided by restaurant switch")
	}
	if sess.Restaurant() == nil || sess.Restaurant().ID != 7 {
		t.Fatalf("unexpected restaurant %+v", sess.Restaurant())
	}
}

func TestSetRestaurantKeepsCart(t *testing.T) {
	ctx := context.Background()
	repo := state.NewMemory()
	cart, sess := newStores(repo)

	sess.SelectRestaurant(ctx, domain.Restaurant{ID: 5, Nom: "Chez Mado"})
	if err := cart.AddItem(ctx, domain.Dish{ID: 9, Nom: "Pizza", Prix: decimal.New(6000, 0), RestaurantID: 7}, true); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	sess.SetRestaurant(ctx, domain.Restaurant{ID: 7, Nom: "La Terrasse"})
	if cart.Empty() {
		t.Fatalf("expected cart kept when syncing restaurant context")
	}
	if sess.Restaurant() == nil || sess.Restaurant().ID != 7 {
		t.Fatalf("unexpected restaurant %+v", sess.Restaurant())
	}

	_, reloaded := newStores(repo)
	reloaded.Load(ctx)
	if reloaded.Restaurant() == nil || reloaded.Restaurant().ID != 7 {
		t.Fatalf("expected persisted restaurant 7, got %+v", reloaded.Restaurant())
	}
}

func TestLoadCorruptSnapshotsFallBackToLoggedOut(t *testing.T) {
	ctx := context.Background()
	repo := state.NewMemory()
	if err := repo.Set(ctx, "c1", state.KeyUser, []byte("{broken")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "c1", state.KeyRestaurant, []byte("[42")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, sess := newStores(repo)
	sess.Load(ctx)
	if sess.User() != nil || sess.Token() != "" || sess.Restaurant() != nil {
		t.Fatalf("expected logged out fallback, got %+v %q %+v", sess.User(), sess.Token(), sess.Restaurant())
	}
}

func TestLoadReadFailureFallsBackToLoggedOut(t *testing.T) {
	ctx := context.Background()
	repo := state.NewMemory()
	repo.FailReads = errors.New("io error")

	_, sess := newStores(repo)
	sess.Load(ctx)
	if sess.User() != nil || sess.Token() != "" || sess.Restaurant() != nil {
		t.Fatalf("expected logged out fallback on read failure")
	}
}
