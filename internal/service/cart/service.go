package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"restofront/internal/domain"
	"restofront/internal/repository/state"

	"github.com/shopspring/decimal"
)

// Store owns the ordered line items of one client's cart. Every mutation
// persists a snapshot; persistence failures are logged and the in-memory
// cart keeps working.
type Store struct {
	owner  string
	repo   state.Repository
	logger *log.Logger
	lines  []domain.CartLine
}

func New(owner string, repo state.Repository, logger *log.Logger) *Store {
	return &Store{owner: owner, repo: repo, logger: logger}
}

// Load restores the persisted snapshot. A missing or unreadable snapshot
// yields an empty cart, never an error.
func (s *Store) Load(ctx context.Context) {
	raw, err := s.repo.Get(ctx, s.owner, state.KeyCart)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("load cart for %s: %v", s.owner, err)
		}
		s.lines = nil
		return
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Printf("corrupt cart snapshot for %s, starting empty: %v", s.owner, err)
		s.lines = nil
		return
	}
	s.lines = lines
}

// AddItem appends the dish or increments its existing line. A dish whose
// restaurant id cannot be resolved is rejected. When the cart already holds
// lines from another restaurant the add is refused with
// ErrRestaurantMismatch unless the caller passed replace, in which case the
// cart becomes a single-line cart for the new restaurant.
func (s *Store) AddItem(ctx context.Context, dish domain.Dish, replace bool) error {
	if dish.RestaurantID == 0 {
		return domain.ErrUnknownRestaurant
	}
	if len(s.lines) > 0 && s.lines[0].RestaurantID != dish.RestaurantID {
		if !replace {
			return domain.ErrRestaurantMismatch
		}
		s.lines = nil
	}
	for i := range s.lines {
		if s.lines[i].ItemID == dish.ID {
			s.lines[i].Quantity++
			s.persist(ctx)
			return nil
		}
	}
	s.lines = append(s.lines, domain.CartLine{
		ItemID:       dish.ID,
		Name:         dish.Nom,
		UnitPrice:    dish.Prix,
		Quantity:     1,
		RestaurantID: dish.RestaurantID,
	})
	s.persist(ctx)
	return nil
}

// ChangeQuantity adjusts a line by delta; a result of zero or less removes
// the line. Unknown item ids are a no-op.
func (s *Store) ChangeQuantity(ctx context.Context, itemID int64, delta int) {
	for i := range s.lines {
		if s.lines[i].ItemID != itemID {
			continue
		}
		s.lines[i].Quantity += delta
		if s.lines[i].Quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
		s.persist(ctx)
		return
	}
}

// RemoveItem drops the line unconditionally. Unknown item ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) {
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// Total recomputes the cart total from the current lines.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Clear empties the cart and removes its persisted snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	if err := s.repo.Delete(ctx, s.owner, state.KeyCart); err != nil {
		s.logger.Printf("clear cart snapshot for %s: %v", s.owner, err)
	}
}

// Lines returns a copy of the current line items in insertion order.
func (s *Store) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// RestaurantID is the restaurant all lines belong to, 0 for an empty cart.
func (s *Store) RestaurantID() int64 {
	if len(s.lines) == 0 {
		return 0
	}
	return s.lines[0].RestaurantID
}

func (s *Store) Empty() bool {
	return len(s.lines) == 0
}

func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		s.logger.Printf("encode cart snapshot for %s: %v", s.owner, err)
		return
	}
	if err := s.repo.Set(ctx, s.owner, state.KeyCart, raw); err != nil {
		s.logger.Printf("persist cart snapshot for %s: %v", s.owner, err)
	}
}
