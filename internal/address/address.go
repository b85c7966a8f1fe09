// Package address manages the delivery address book with a single default.
package address

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

const storageKey = "userAddresses"

var ErrValidation = errors.New("validation")

type Book struct {
	storage storage.Store

	mu        sync.Mutex
	restored  bool
	ready     bool
	addresses []models.Address
}

func NewBook(st storage.Store) *Book {
	return &Book{storage: st}
}

// Restore loads the persisted address collection once per process. Absent or
// unreadable records leave the book empty; ready is reported either way.
func (b *Book) Restore(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.restored {
		return
	}
	b.restored = true
	defer func() { b.ready = true }()

	raw, err := b.storage.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.FromContext(ctx).Warn("не удалось загрузить адреса из хранилища", "error", err)
		}
		return
	}

	var stored []models.Address
	if err := json.Unmarshal(raw, &stored); err != nil {
		logging.FromContext(ctx).Warn("повреждённая запись адресов", "error", err)
		return
	}
	if len(stored) > 0 {
		b.addresses = stored
	}
}

// Add appends a new address. The caller supplies a freshly generated unique
// id; the first address in an empty book becomes the default.
func (b *Book) Add(ctx context.Context, addr models.Address) error {
	if addr.ID == "" {
		return fmt.Errorf("%w: id required", ErrValidation)
	}
	if addr.Name == "" || addr.Street == "" || addr.House == "" {
		return fmt.Errorf("%w: name, street and house required", ErrValidation)
	}

	b.mu.Lock()
	for _, a := range b.addresses {
		if a.ID == addr.ID {
			b.mu.Unlock()
			return fmt.Errorf("%w: duplicate id %s", ErrValidation, addr.ID)
		}
	}
	addr.IsDefault = len(b.addresses) == 0
	b.addresses = append(b.addresses, addr)
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.persist(ctx, snapshot)
	return nil
}

// Update merges non-nil patch fields into the matching entry. Unknown ids are
// a no-op.
func (b *Book) Update(ctx context.Context, id string, patch models.AddressPatch) {
	b.mu.Lock()
	changed := false
	for i := range b.addresses {
		if b.addresses[i].ID != id {
			continue
		}
		apply(&b.addresses[i], patch)
		changed = true
		break
	}
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	if changed {
		b.persist(ctx, snapshot)
	}
}

// Delete removes the matching entry. Deleting the default does not promote a
// new one: the book has no default until SetDefault is called again.
func (b *Book) Delete(ctx context.Context, id string) {
	b.mu.Lock()
	kept := b.addresses[:0]
	changed := false
	for _, a := range b.addresses {
		if a.ID == id {
			changed = true
			continue
		}
		kept = append(kept, a)
	}
	b.addresses = kept
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	if changed {
		b.persist(ctx, snapshot)
	}
}

// SetDefault flags the matching entry and clears the flag everywhere else.
// The collection is left unchanged when the id is unknown.
func (b *Book) SetDefault(ctx context.Context, id string) {
	b.mu.Lock()
	found := false
	for i := range b.addresses {
		if b.addresses[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		b.mu.Unlock()
		return
	}
	for i := range b.addresses {
		b.addresses[i].IsDefault = b.addresses[i].ID == id
	}
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.persist(ctx, snapshot)
}

// Default returns the flagged address, falling back to the first entry in
// insertion order. ok is false when the book is empty.
func (b *Book) Default() (models.Address, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(b.addresses) > 0 {
		return b.addresses[0], true
	}
	return models.Address{}, false
}

func (b *Book) Addresses() []models.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Book) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Format renders the short checkout form: street and house, plus the
// apartment when present. Entrance, floor and comment are list-display only.
func Format(a models.Address) string {
	formatted := fmt.Sprintf("%s, д. %s", a.Street, a.House)
	if a.Apartment != "" {
		formatted += fmt.Sprintf(", кв. %s", a.Apartment)
	}
	return formatted
}

func (b *Book) snapshotLocked() []models.Address {
	out := make([]models.Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

// persist writes the full collection snapshot. Storage failures are logged
// and the in-memory state stays authoritative.
func (b *Book) persist(ctx context.Context, snapshot []models.Address) {
	raw, _ := json.Marshal(snapshot)
	if err := b.storage.Set(ctx, storageKey, raw); err != nil {
		logging.FromContext(ctx).Warn("не удалось сохранить адреса в хранилище", "error", err)
	}
}

func apply(a *models.Address, p models.AddressPatch) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.House != nil {
		a.House = *p.House
	}
	if p.Apartment != nil {
		a.Apartment = *p.Apartment
	}
	if p.Entrance != nil {
		a.Entrance = *p.Entrance
	}
	if p.Floor != nil {
		a.Floor = *p.Floor
	}
	if p.Comment != nil {
		a.Comment = *p.Comment
	}
}
