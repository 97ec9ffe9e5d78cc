package nutrition

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
)

var (
	ErrMixEmpty   = errors.New("el mix no tiene ingredientes")
	ErrMixNoPets  = errors.New("el mix no tiene mascotas destino")
	ErrMixNoName  = errors.New("el mix necesita un nombre")
	ErrMixPartial = errors.New("cantidad inválida en el mix")
)

// MixIngrediente es un ítem del catálogo con la cantidad elegida.
type MixIngrediente struct {
	PlatoID  string
	Nombre   string
	Precio   decimal.Decimal
	Cantidad int
}

// MixBuilder acumula los ingredientes que el nutricionista va armando
// en el panel. El total se calcula localmente y se envía tal cual al
// confirmar; no es concurrente-seguro (un builder por pantalla).
type MixBuilder struct {
	clienteID   string
	nombre      string
	descripcion string
	mascotas    []string
	items       []MixIngrediente
}

func NewMixBuilder(clienteID string) *MixBuilder {
	return &MixBuilder{clienteID: clienteID}
}

func (b *MixBuilder) Nombre(nombre string) *MixBuilder {
	b.nombre = nombre
	return b
}

func (b *MixBuilder) Descripcion(desc string) *MixBuilder {
	b.descripcion = desc
	return b
}

func (b *MixBuilder) ParaMascota(mascotaID string) *MixBuilder {
	for _, id := range b.mascotas {
		if id == mascotaID {
			return b
		}
	}
	b.mascotas = append(b.mascotas, mascotaID)
	return b
}

// Agregar suma cantidad al ingrediente, o lo incorpora si es nuevo.
func (b *MixBuilder) Agregar(item MixIngrediente) *MixBuilder {
	for i := range b.items {
		if b.items[i].PlatoID == item.PlatoID {
			b.items[i].Cantidad += item.Cantidad
			return b
		}
	}
	b.items = append(b.items, item)
	return b
}

func (b *MixBuilder) Quitar(platoID string) *MixBuilder {
	items := b.items[:0]
	for _, it := range b.items {
		if it.PlatoID != platoID {
			items = append(items, it)
		}
	}
	b.items = items
	return b
}

func (b *MixBuilder) Items() []MixIngrediente {
	return append([]MixIngrediente(nil), b.items...)
}

// Total es la suma precio x cantidad de todos los ingredientes.
func (b *MixBuilder) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range b.items {
		sum = sum.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return sum
}

func (b *MixBuilder) validate() error {
	if len(b.items) == 0 {
		return ErrMixEmpty
	}
	if len(b.mascotas) == 0 {
		return ErrMixNoPets
	}
	if b.nombre == "" {
		return ErrMixNoName
	}
	for _, it := range b.items {
		if it.Cantidad <= 0 {
			return ErrMixPartial
		}
	}
	return nil
}

type MixResult struct {
	Mensaje  string   `json:"mensaje"`
	PlatoID  string   `json:"plato_id"`
	Mascotas []string `json:"mascotas"`
}

// Commit crea el plato personalizado en el servidor. El builder queda
// intacto si la llamada falla, para corregir y reintentar.
func (b *MixBuilder) Commit(ctx context.Context, w *Workflow) (MixResult, error) {
	if err := b.validate(); err != nil {
		return MixResult{}, err
	}

	type item struct {
		PlatoID  string `json:"plato_id"`
		Cantidad int    `json:"cantidad"`
	}
	items := make([]item, 0, len(b.items))
	for _, it := range b.items {
		items = append(items, item{PlatoID: it.PlatoID, Cantidad: it.Cantidad})
	}

	total, _ := b.Total().Float64()
	var out MixResult
	err := w.api.DoJSON(ctx, http.MethodPost, "/nutricionista/platos/mix", map[string]any{
		"cliente_id":  b.clienteID,
		"mascota_ids": b.mascotas,
		"nombre":      b.nombre,
		"descripcion": b.descripcion,
		"total":       total,
		"items":       items,
	}, &out)
	if err != nil {
		return MixResult{}, err
	}
	return out, nil
}
