package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pet-nutrition-platform/internal/domain/orders"
)

type ordersRepo struct {
	mu       sync.RWMutex
	byID     map[string]orders.Order
	methods  map[string]orders.PaymentMethod
	payments map[string]orders.Payment // por id de pago
}

func NewOrdersRepo() orders.Repository {
	r := &ordersRepo{
		byID:     make(map[string]orders.Order),
		methods:  make(map[string]orders.PaymentMethod),
		payments: make(map[string]orders.Payment),
	}
	// Pasarelas aceptadas; en Postgres vienen de la tabla payment_methods.
	for _, name := range []string{"Yape", "Plin"} {
		m := orders.PaymentMethod{ID: uuid.NewString(), Name: name}
		r.methods[m.ID] = m
	}
	return r
}

func (r *ordersRepo) Create(ctx context.Context, o orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id required")
	}
	r.byID[o.ID] = cloneOrder(o)
	return nil
}

func (r *ordersRepo) GetByID(ctx context.Context, id string) (orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *ordersRepo) FindCart(ctx context.Context, clientID string) (orders.Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if o.ClientID == clientID && o.Status == orders.StatusCart {
			return cloneOrder(o), true, nil
		}
	}
	return orders.Order{}, false, nil
}

func (r *ordersRepo) ListByClient(ctx context.Context, clientID string) ([]orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orders.Order, 0)
	for _, o := range r.byID {
		if o.ClientID == clientID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt) // más reciente primero
	})
	return out, nil
}

func (r *ordersRepo) Update(ctx context.Context, o orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[o.ID]; !exists {
		return orders.ErrNotFound
	}
	r.byID[o.ID] = cloneOrder(o)
	return nil
}

func (r *ordersRepo) ListPaymentMethods(ctx context.Context) ([]orders.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orders.PaymentMethod, 0, len(r.methods))
	for _, m := range r.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ordersRepo) GetPaymentMethod(ctx context.Context, id string) (orders.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.methods[id]
	if !ok {
		return orders.PaymentMethod{}, orders.ErrNotFound
	}
	return m, nil
}

func (r *ordersRepo) CreatePayment(ctx context.Context, p orders.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = p
	return nil
}

func (r *ordersRepo) FindPaymentByOrder(ctx context.Context, orderID string) (orders.Payment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.payments {
		if p.OrderID == orderID {
			return p, true, nil
		}
	}
	return orders.Payment{}, false, nil
}

func (r *ordersRepo) ListPaymentsByClient(ctx context.Context, clientID string) ([]orders.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orders.Payment, 0)
	for _, p := range r.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// cloneOrder copia el slice de ítems para que el llamador no mute el
// estado interno del repo.
func cloneOrder(o orders.Order) orders.Order {
	o.Items = append([]orders.Item(nil), o.Items...)
	return o
}
