package favorites

import "time"

// Favorite es un plato marcado por el cliente para encontrarlo rápido.
// El par (cliente, plato) es único: marcar dos veces no duplica.
type Favorite struct {
	ID       string
	ClientID string
	DishID   string
	AddedAt  time.Time
}
