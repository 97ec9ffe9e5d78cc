package orders

import "context"

type Repository interface {
	Create(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	// FindCart devuelve el pedido en estado carrito del cliente, si existe.
	FindCart(ctx context.Context, clientID string) (Order, bool, error)
	ListByClient(ctx context.Context, clientID string) ([]Order, error)
	// Update reemplaza el pedido completo, ítems incluidos.
	Update(ctx context.Context, o Order) error

	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string) (PaymentMethod, error)

	CreatePayment(ctx context.Context, p Payment) error
	FindPaymentByOrder(ctx context.Context, orderID string) (Payment, bool, error)
	ListPaymentsByClient(ctx context.Context, clientID string) ([]Payment, error)
}
