package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-nutrition-platform/internal/domain/addresses"
)

type addressesRepo struct {
	mu   sync.RWMutex
	byID map[string]addresses.Address
}

func NewAddressesRepo() addresses.Repository {
	return &addressesRepo{
		byID: make(map[string]addresses.Address),
	}
}

func (r *addressesRepo) Create(ctx context.Context, a addresses.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("address id required")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *addressesRepo) GetByID(ctx context.Context, id string) (addresses.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return addresses.Address{}, addresses.ErrNotFound
	}
	return a, nil
}

func (r *addressesRepo) ListByClient(ctx context.Context, clientID string) ([]addresses.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]addresses.Address, 0)
	for _, a := range r.byID {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *addressesRepo) Update(ctx context.Context, a addresses.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return addresses.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *addressesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return addresses.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *addressesRepo) UnmarkPrimary(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.ClientID == clientID && a.Primary {
			a.Primary = false
			r.byID[id] = a
		}
	}
	return nil
}
