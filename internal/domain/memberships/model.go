package memberships

import "github.com/shopspring/decimal"

// Plan es una membresía ofrecida a los clientes. Basic marca el plan
// gratuito al que se regresa al cancelar.
type Plan struct {
	ID          string
	Name        string
	Duration    int // días
	Price       decimal.Decimal
	Description string
	Benefits    []string
	Basic       bool
	Status      string // "A" activo, "I" inactivo
}
