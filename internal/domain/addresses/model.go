package addresses

import "time"

// Address es una dirección de entrega del cliente. A lo sumo una por
// cliente puede estar marcada como principal.
type Address struct {
	ID       string
	ClientID string

	Name      string // etiqueta: "Casa", "Oficina"...
	Latitude  float64
	Longitude float64
	Reference string

	Primary   bool
	CreatedAt time.Time
}
