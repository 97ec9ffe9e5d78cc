package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-nutrition-platform/internal/domain/accounts"
)

type accountsRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.Account
	byEmail map[string]string // correo (lower) -> id
}

func NewAccountsRepo() accounts.Repository {
	return &accountsRepo{
		byID:    make(map[string]accounts.Account),
		byEmail: make(map[string]string),
	}
}

func (r *accountsRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	key := strings.ToLower(a.Email)
	if _, exists := r.byEmail[key]; exists {
		return accounts.ErrEmailTaken
	}
	r.byID[a.ID] = a
	r.byEmail[key] = a.ID
	return nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return a, nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *accountsRepo) Update(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return accounts.ErrNotFound
	}
	r.byID[a.ID] = a
	r.byEmail[strings.ToLower(a.Email)] = a.ID
	return nil
}
