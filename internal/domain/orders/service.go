package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/catalog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNotPayable   = errors.New("order is not payable")
	ErrAlreadyPaid  = errors.New("order already has a payment")
	ErrBadMethod    = errors.New("unknown payment method")
)

// DishGetter lo implementa *catalog.Service. El precio de los ítems se
// toma siempre del catálogo en el servidor, nunca del cliente.
type DishGetter interface {
	GetDish(ctx context.Context, id string) (catalog.Dish, error)
}

type Service struct {
	repo   Repository
	dishes DishGetter
	now    func() time.Time
}

func NewService(repo Repository, dishes DishGetter) *Service {
	return &Service{repo: repo, dishes: dishes, now: time.Now}
}

// Cart devuelve el carrito del cliente, creándolo si no existe.
func (s *Service) Cart(ctx context.Context, clientID string) (Order, error) {
	if clientID == "" {
		return Order{}, ErrInvalidInput
	}
	cart, ok, err := s.repo.FindCart(ctx, clientID)
	if err != nil {
		return Order{}, err
	}
	if ok {
		return cart, nil
	}

	now := s.now()
	cart = Order{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Status:    StatusCart,
		Total:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return Order{}, err
	}
	return cart, nil
}

// AddToCart agrega un plato al carrito. Si el plato ya está, suma la
// cantidad. El precio unitario queda congelado al momento de agregar.
func (s *Service) AddToCart(ctx context.Context, clientID, dishID string, quantity int) (Order, error) {
	if quantity <= 0 {
		return Order{}, ErrInvalidInput
	}
	d, err := s.dishes.GetDish(ctx, dishID)
	if err != nil {
		return Order{}, ErrNotFound
	}

	cart, err := s.Cart(ctx, clientID)
	if err != nil {
		return Order{}, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].DishID == dishID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, Item{
			ID:        uuid.NewString(),
			DishID:    d.ID,
			DishName:  d.Name,
			UnitPrice: d.Price,
			Quantity:  quantity,
		})
	}

	cart.Total = total(cart.Items)
	cart.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, cart); err != nil {
		return Order{}, err
	}
	return cart, nil
}

// RemoveFromCart quita un plato del carrito por completo.
func (s *Service) RemoveFromCart(ctx context.Context, clientID, dishID string) (Order, error) {
	cart, err := s.Cart(ctx, clientID)
	if err != nil {
		return Order{}, err
	}
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.DishID != dishID {
			items = append(items, it)
		}
	}
	cart.Items = items
	cart.Total = total(cart.Items)
	cart.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, cart); err != nil {
		return Order{}, err
	}
	return cart, nil
}

// EmptyCart vacía el carrito sin eliminarlo.
func (s *Service) EmptyCart(ctx context.Context, clientID string) error {
	cart, ok, err := s.repo.FindCart(ctx, clientID)
	if err != nil || !ok {
		return err
	}
	cart.Items = nil
	cart.Total = decimal.Zero
	cart.UpdatedAt = s.now()
	return s.repo.Update(ctx, cart)
}

// PlaceOrder convierte el carrito en pedido pendiente. El total se
// recalcula con los precios vigentes del catálogo.
func (s *Service) PlaceOrder(ctx context.Context, clientID, addressID string) (Order, error) {
	if addressID == "" {
		return Order{}, ErrInvalidInput
	}
	cart, ok, err := s.repo.FindCart(ctx, clientID)
	if err != nil {
		return Order{}, err
	}
	if !ok || len(cart.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	for i := range cart.Items {
		d, err := s.dishes.GetDish(ctx, cart.Items[i].DishID)
		if err != nil {
			continue // plato retirado: se respeta el precio congelado
		}
		cart.Items[i].UnitPrice = d.Price
	}

	cart.AddressID = addressID
	cart.Status = StatusPending
	cart.Total = total(cart.Items)
	cart.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, cart); err != nil {
		return Order{}, err
	}
	return cart, nil
}

// History lista los pedidos reales del cliente (el carrito no cuenta).
func (s *Service) History(ctx context.Context, clientID string) ([]Order, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	all, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(all))
	for _, o := range all {
		if o.Status != StatusCart {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, orderID string) (Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx)
}

// Pay registra el pago de un pedido pendiente y lo pasa a preparación.
// Un pedido paga una sola vez; el segundo intento se rechaza.
func (s *Service) Pay(ctx context.Context, orderID, methodID, proofPath string) (Payment, error) {
	if proofPath == "" {
		return Payment{}, ErrInvalidInput
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Payment{}, err
	}
	if o.Status != StatusPending {
		return Payment{}, ErrNotPayable
	}
	if _, exists, err := s.repo.FindPaymentByOrder(ctx, orderID); err != nil {
		return Payment{}, err
	} else if exists {
		return Payment{}, ErrAlreadyPaid
	}
	if _, err := s.repo.GetPaymentMethod(ctx, methodID); err != nil {
		return Payment{}, ErrBadMethod
	}

	p := Payment{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ClientID:  o.ClientID,
		MethodID:  methodID,
		ProofPath: proofPath,
		Status:    PaymentPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return Payment{}, err
	}

	o.Status = StatusPreparing
	o.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, o); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (s *Service) PaymentForOrder(ctx context.Context, orderID string) (Payment, bool, error) {
	return s.repo.FindPaymentByOrder(ctx, orderID)
}

func (s *Service) PaymentHistory(ctx context.Context, clientID string) ([]Payment, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListPaymentsByClient(ctx, clientID)
}

func total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}
