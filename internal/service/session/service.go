package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"restofront/internal/domain"
	"restofront/internal/repository/state"
	cartsvc "restofront/internal/service/cart"
)

// Store holds one client's authenticated identity and active restaurant.
// The cart store is a peer: logging out or switching restaurants always
// voids the cart, so the two change together.
type Store struct {
	owner      string
	repo       state.Repository
	logger     *log.Logger
	cart       *cartsvc.Store
	user       *domain.User
	token      string
	restaurant *domain.Restaurant
}

func New(owner string, repo state.Repository, cart *cartsvc.Store, logger *log.Logger) *Store {
	return &Store{owner: owner, repo: repo, cart: cart, logger: logger}
}

// Load restores identity, token and restaurant from persisted snapshots.
// Missing or corrupt data falls back to logged out with no restaurant.
func (s *Store) Load(ctx context.Context) {
	s.user = nil
	s.token = ""
	s.restaurant = nil

	if raw, err := s.get(ctx, state.KeyUser); raw != nil {
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			s.logger.Printf("corrupt user snapshot for %s: %v", s.owner, err)
		} else {
			s.user = &u
		}
	} else if err != nil {
		s.logger.Printf("load user for %s: %v", s.owner, err)
	}

	if raw, err := s.get(ctx, state.KeyToken); raw != nil {
		var token string
		if err := json.Unmarshal(raw, &token); err != nil {
			s.logger.Printf("corrupt token snapshot for %s: %v", s.owner, err)
		} else {
			s.token = token
		}
	} else if err != nil {
		s.logger.Printf("load token for %s: %v", s.owner, err)
	}

	if raw, err := s.get(ctx, state.KeyRestaurant); raw != nil {
		var r domain.Restaurant
		if err := json.Unmarshal(raw, &r); err != nil {
			s.logger.Printf("corrupt restaurant snapshot for %s: %v", s.owner, err)
		} else {
			s.restaurant = &r
		}
	} else if err != nil {
		s.logger.Printf("load restaurant for %s: %v", s.owner, err)
	}
}

// Login sets the current user and token and persists both.
func (s *Store) Login(ctx context.Context, user domain.User, token string) {
	s.user = &user
	s.token = token
	s.set(ctx, state.KeyUser, user)
	s.set(ctx, state.KeyToken, token)
}

// Logout clears user, token, cart and active restaurant. Callers never
// observe a partial logout: the in-memory state is reset first, then the
// persisted snapshots are removed in one sweep.
func (s *Store) Logout(ctx context.Context) {
	s.user = nil
	s.token = ""
	s.restaurant = nil
	s.cart.Clear(ctx)
	if err := s.repo.DeleteAll(ctx, s.owner); err != nil {
		s.logger.Printf("clear session snapshots for %s: %v", s.owner, err)
	}
}

// SelectRestaurant sets the active restaurant. Switching restaurants
// always voids the cart.
func (s *Store) SelectRestaurant(ctx context.Context, r domain.Restaurant) {
	s.restaurant = &r
	s.cart.Clear(ctx)
	s.set(ctx, state.KeyRestaurant, r)
}

// SetRestaurant records a restaurant context the cart already matches,
// without voiding the cart. Used after a confirmed cart replacement has
// established the new cart content.
func (s *Store) SetRestaurant(ctx context.Context, r domain.Restaurant) {
	s.restaurant = &r
	s.set(ctx, state.KeyRestaurant, r)
}

func (s *Store) User() *domain.User            { return s.user }
func (s *Store) Token() string                 { return s.token }
func (s *Store) Restaurant() *domain.Restaurant { return s.restaurant }

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.repo.Get(ctx, s.owner, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

func (s *Store) set(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Printf("encode %s snapshot for %s: %v", key, s.owner, err)
		return
	}
	if err := s.repo.Set(ctx, s.owner, key, raw); err != nil {
		s.logger.Printf("persist %s snapshot for %s: %v", key, s.owner, err)
	}
}
