package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-nutrition-platform/internal/domain/nutrition"
)

type nutritionRepo struct {
	mu            sync.RWMutex
	requests      map[string]nutrition.Request
	consultations map[string]nutrition.Consultation
	personal      map[string]nutrition.PersonalDish
	notifications map[string]nutrition.Notification
}

func NewNutritionRepo() nutrition.Repository {
	return &nutritionRepo{
		requests:      make(map[string]nutrition.Request),
		consultations: make(map[string]nutrition.Consultation),
		personal:      make(map[string]nutrition.PersonalDish),
		notifications: make(map[string]nutrition.Notification),
	}
}

func (r *nutritionRepo) CreateRequest(ctx context.Context, req nutrition.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(req.ID) == "" {
		return errors.New("request id required")
	}
	r.requests[req.ID] = req
	return nil
}

func (r *nutritionRepo) GetRequest(ctx context.Context, id string) (nutrition.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nutrition.Request{}, nutrition.ErrNotFound
	}
	return req, nil
}

func (r *nutritionRepo) ListRequestsByClient(ctx context.Context, clientID string) ([]nutrition.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterRequests(func(req nutrition.Request) bool {
		return req.ClientID == clientID
	}), nil
}

func (r *nutritionRepo) ListRequestsByStatus(ctx context.Context, status string) ([]nutrition.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterRequests(func(req nutrition.Request) bool {
		return req.Status == status
	}), nil
}

func (r *nutritionRepo) ListRequestsByPet(ctx context.Context, petID string) ([]nutrition.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterRequests(func(req nutrition.Request) bool {
		return req.PetID == petID
	}), nil
}

// filterRequests asume que el lock ya está tomado.
func (r *nutritionRepo) filterRequests(keep func(nutrition.Request) bool) []nutrition.Request {
	out := make([]nutrition.Request, 0)
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *nutritionRepo) UpdateRequest(ctx context.Context, req nutrition.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[req.ID]; !exists {
		return nutrition.ErrNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *nutritionRepo) CreateConsultation(ctx context.Context, c nutrition.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consultations[c.ID] = c
	return nil
}

func (r *nutritionRepo) FindConsultationByRequest(ctx context.Context, requestID string) (nutrition.Consultation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.consultations {
		if c.RequestID == requestID {
			return c, true, nil
		}
	}
	return nutrition.Consultation{}, false, nil
}

func (r *nutritionRepo) ListConsultationsByNutricionista(ctx context.Context, nutricionistaID string) ([]nutrition.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]nutrition.Consultation, 0)
	for _, c := range r.consultations {
		if c.NutricionistaID == nutricionistaID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *nutritionRepo) CreatePersonalDish(ctx context.Context, pd nutrition.PersonalDish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personal[pd.ID] = pd
	return nil
}

func (r *nutritionRepo) ListPersonalDishesByPet(ctx context.Context, petID string) ([]nutrition.PersonalDish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterPersonal(func(pd nutrition.PersonalDish) bool {
		return pd.PetID == petID
	}), nil
}

func (r *nutritionRepo) ListPersonalDishesByClient(ctx context.Context, clientID string) ([]nutrition.PersonalDish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterPersonal(func(pd nutrition.PersonalDish) bool {
		return pd.ClientID == clientID
	}), nil
}

func (r *nutritionRepo) filterPersonal(keep func(nutrition.PersonalDish) bool) []nutrition.PersonalDish {
	out := make([]nutrition.PersonalDish, 0)
	for _, pd := range r.personal {
		if keep(pd) {
			out = append(out, pd)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *nutritionRepo) CreateNotification(ctx context.Context, n nutrition.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[n.ID] = n
	return nil
}

func (r *nutritionRepo) ListNotificationsByClient(ctx context.Context, clientID string) ([]nutrition.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]nutrition.Notification, 0)
	for _, n := range r.notifications {
		if n.ClientID == clientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *nutritionRepo) CountUnread(ctx context.Context, clientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, n := range r.notifications {
		if n.ClientID == clientID && !n.Read {
			total++
		}
	}
	return total, nil
}

func (r *nutritionRepo) MarkNotificationRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return nutrition.ErrNotFound
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}
