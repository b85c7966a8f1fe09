// Package cart manages the basket line items and their derived totals.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/internal/models"
	"github.com/rollshouse/storefront/internal/storage"
)

const storageKey = "cartItems"

var ErrValidation = errors.New("validation")

type Store struct {
	storage storage.Store

	mu       sync.Mutex
	restored bool
	ready    bool
	items    []models.CartItem
	selected *models.CartItem
}

func NewStore(st storage.Store) *Store {
	return &Store{storage: st}
}

// Restore loads the persisted cart once per process; ready is reported even
// when the record is absent or unreadable.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return
	}
	s.restored = true
	defer func() { s.ready = true }()

	raw, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.FromContext(ctx).Warn("не удалось загрузить корзину из хранилища", "error", err)
		}
		return
	}

	var stored []models.CartItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		logging.FromContext(ctx).Warn("повреждённая запись корзины", "error", err)
		return
	}
	s.items = stored
}

// Add merges quantity into an existing line by product id or appends a new
// line. The transient detail-view selection is dropped as a side effect.
func (s *Store) Add(ctx context.Context, item models.CartItem, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = quantity
		s.items = append(s.items, item)
	}
	s.selected = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

// Increase bumps the line quantity by one; unknown ids are a no-op.
func (s *Store) Increase(ctx context.Context, id int64) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity++
			changed = true
			break
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.persist(ctx, snapshot)
	}
}

// Decrease lowers the line quantity by one, removing the line entirely when
// it would reach zero. A line is never kept at quantity zero.
func (s *Store) Decrease(ctx context.Context, id int64) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		changed = true
		if s.items[i].Quantity <= 1 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity--
		}
		break
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.persist(ctx, snapshot)
	}
}

// Clear empties the cart and removes the persisted record. It runs after a
// confirmed order and on logout.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if err := s.storage.Remove(ctx, storageKey); err != nil {
		logging.FromContext(ctx).Warn("не удалось очистить корзину из хранилища", "error", err)
	}
}

// Select remembers the item shown in the detail view. The pointer is
// transient and never persisted.
func (s *Store) Select(item models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := item
	s.selected = &it
}

func (s *Store) Selected() (models.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return models.CartItem{}, false
	}
	return *s.selected, true
}

func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Count is the total number of units across all lines, recomputed on every
// read.
func (s *Store) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, it := range s.items {
		sum += it.Quantity
	}
	return sum
}

// TotalPrice is the exact live sum of price times quantity over all lines.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, it := range s.items {
		total += it.Price * it.Quantity
	}
	return total
}

func (s *Store) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *Store) snapshotLocked() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) persist(ctx context.Context, snapshot []models.CartItem) {
	raw, _ := json.Marshal(snapshot)
	if err := s.storage.Set(ctx, storageKey, raw); err != nil {
		logging.FromContext(ctx).Warn("не удалось сохранить корзину в хранилище", "error", err)
	}
}
