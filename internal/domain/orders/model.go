package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido. El carrito es un pedido en estado "carrito":
// se materializa al agregar el primer ítem y se convierte en pedido
// real al confirmar la compra.
const (
	StatusCart       = "carrito"
	StatusPending    = "pendiente"
	StatusPreparing  = "en_preparacion"
	StatusDispatched = "enviado"
	StatusDelivered  = "entregado"
)

// Estados del pago.
const (
	PaymentPending  = "pendiente"
	PaymentVerified = "verificado"
	PaymentRejected = "rechazado"
)

type Item struct {
	ID        string
	DishID    string
	DishName  string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Order struct {
	ID        string
	ClientID  string
	AddressID string
	Status    string
	Items     []Item
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentMethod es una pasarela aceptada (Yape, Plin...).
type PaymentMethod struct {
	ID   string
	Name string
}

// Payment es el pago declarado por el cliente con su comprobante.
type Payment struct {
	ID        string
	OrderID   string
	ClientID  string
	MethodID  string
	ProofPath string
	Status    string
	CreatedAt time.Time
}
