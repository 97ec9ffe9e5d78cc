package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"pet-nutrition-platform/internal/platform/fileref"
	"pet-nutrition-platform/internal/platform/httpclient"
)

// State es el paso actual del proceso de compra. Las transiciones son
// lineales; saltarse un paso es error local, sin tocar la red.
type State int

const (
	StateBrowsing State = iota
	StateCartReview
	StateAddressSelection
	StateOrderCreated
	StatePaymentSelected
	StateProofAttached
	StateConfirmed
)

var (
	ErrEmptyCart   = errors.New("el carrito está vacío")
	ErrNoAddress   = errors.New("selecciona una dirección de entrega")
	ErrNoMethod    = errors.New("selecciona una pasarela de pago")
	ErrNoProof     = errors.New("adjunta el comprobante de pago")
	ErrBadState    = errors.New("paso de compra fuera de orden")
	ErrBusy        = errors.New("hay una operación en curso")
	ErrUnknownAddr = errors.New("la dirección no pertenece al cliente")
)

type Item struct {
	ID             string  `json:"id"`
	PlatoID        string  `json:"plato_id"`
	Nombre         string  `json:"nombre"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Cantidad       int     `json:"cantidad"`
	Subtotal       float64 `json:"subtotal"`
}

type Pedido struct {
	ID          string  `json:"id"`
	ClienteID   string  `json:"cliente_id"`
	DireccionID string  `json:"direccion_id"`
	Estado      string  `json:"estado"`
	Items       []Item  `json:"items"`
	Total       float64 `json:"total"`
	Fecha       string  `json:"fecha"`
}

type Direccion struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Latitud     float64 `json:"latitud"`
	Longitud    float64 `json:"longitud"`
	Referencia  string  `json:"referencia"`
	EsPrincipal bool    `json:"es_principal"`
}

type Pasarela struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type Pago struct {
	ID          string `json:"id"`
	PedidoID    string `json:"pedido_id"`
	PasarelaID  string `json:"pasarela_pago_id"`
	Comprobante string `json:"comprobante"`
	Estado      string `json:"estado"`
	Fecha       string `json:"fecha"`
}

// Flow lleva al cliente del carrito al pago confirmado. No es seguro
// compartirlo entre varios procesos de compra a la vez; un Flow es una
// compra.
type Flow struct {
	api      *httpclient.Client
	clientID string

	mu   sync.Mutex
	busy bool

	state     State
	cart      Pedido
	addresses []Direccion
	addressID string
	order     Pedido
	methodID  string
	proof     fileref.Ref
	payment   Pago
}

func NewFlow(api *httpclient.Client, clientID string) *Flow {
	return &Flow{api: api, clientID: clientID, state: StateBrowsing}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Cart() Pedido {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart
}

func (f *Flow) Order() Pedido {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

func (f *Flow) Addresses() []Direccion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Direccion(nil), f.addresses...)
}

func (f *Flow) SelectedAddress() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addressID
}

func (f *Flow) Payment() Pago {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payment
}

// begin marca la operación en curso; toda llamada de red del flow pasa
// por aquí para que un doble tap no dispare dos requests.
func (f *Flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	f.busy = true
	return nil
}

func (f *Flow) end() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

// LoadCart trae (o crea) el carrito del servidor.
func (f *Flow) LoadCart(ctx context.Context) (Pedido, error) {
	if err := f.begin(); err != nil {
		return Pedido{}, err
	}
	defer f.end()

	var cart Pedido
	err := f.api.DoJSON(ctx, http.MethodGet, "/cliente/carrito/"+url.PathEscape(f.clientID), nil, &cart)
	if err != nil {
		return Pedido{}, err
	}

	f.mu.Lock()
	f.cart = cart
	if f.state == StateBrowsing {
		f.state = StateCartReview
	}
	f.mu.Unlock()
	return cart, nil
}

// AddItem agrega un plato y refresca el carrito local.
func (f *Flow) AddItem(ctx context.Context, platoID string, cantidad int) (Pedido, error) {
	if err := f.begin(); err != nil {
		return Pedido{}, err
	}
	defer f.end()

	var cart Pedido
	err := f.api.DoJSON(ctx, http.MethodPost, "/cliente/carrito/agregar", map[string]any{
		"cliente_id": f.clientID,
		"plato_id":   platoID,
		"cantidad":   cantidad,
	}, &cart)
	if err != nil {
		return Pedido{}, err
	}

	f.mu.Lock()
	f.cart = cart
	if f.state == StateBrowsing {
		f.state = StateCartReview
	}
	f.mu.Unlock()
	return cart, nil
}

func (f *Flow) RemoveItem(ctx context.Context, platoID string) (Pedido, error) {
	if err := f.begin(); err != nil {
		return Pedido{}, err
	}
	defer f.end()

	var cart Pedido
	err := f.api.DoJSON(ctx, http.MethodPost, "/cliente/carrito/quitar", map[string]any{
		"cliente_id": f.clientID,
		"plato_id":   platoID,
	}, &cart)
	if err != nil {
		return Pedido{}, err
	}

	f.mu.Lock()
	f.cart = cart
	f.mu.Unlock()
	return cart, nil
}

// BeginCheckout valida el carrito LOCALMENTE antes de tocar la red y
// carga las direcciones. La principal queda preseleccionada.
func (f *Flow) BeginCheckout(ctx context.Context) ([]Direccion, error) {
	f.mu.Lock()
	if f.state != StateCartReview {
		f.mu.Unlock()
		return nil, ErrBadState
	}
	if len(f.cart.Items) == 0 {
		f.mu.Unlock()
		return nil, ErrEmptyCart
	}
	f.mu.Unlock()

	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	var dirs []Direccion
	err := f.api.DoJSON(ctx, http.MethodGet, "/cliente/"+url.PathEscape(f.clientID)+"/direcciones", nil, &dirs)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.addresses = dirs
	f.addressID = ""
	for _, d := range dirs {
		if d.EsPrincipal {
			f.addressID = d.ID
			break
		}
	}
	f.state = StateAddressSelection
	f.mu.Unlock()
	return dirs, nil
}

// SelectAddress cambia la dirección elegida; debe ser una de las
// cargadas en BeginCheckout.
func (f *Flow) SelectAddress(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAddressSelection {
		return ErrBadState
	}
	for _, d := range f.addresses {
		if d.ID == id {
			f.addressID = id
			return nil
		}
	}
	return ErrUnknownAddr
}

// PlaceOrder convierte el carrito en pedido. Requiere dirección y un
// carrito con items: quitar el último item después de BeginCheckout
// deja el pedido bloqueado localmente.
func (f *Flow) PlaceOrder(ctx context.Context) (Pedido, error) {
	f.mu.Lock()
	if f.state != StateAddressSelection {
		f.mu.Unlock()
		return Pedido{}, ErrBadState
	}
	if len(f.cart.Items) == 0 {
		f.mu.Unlock()
		return Pedido{}, ErrEmptyCart
	}
	if f.addressID == "" {
		f.mu.Unlock()
		return Pedido{}, ErrNoAddress
	}
	addressID := f.addressID
	f.mu.Unlock()

	if err := f.begin(); err != nil {
		return Pedido{}, err
	}
	defer f.end()

	var order Pedido
	err := f.api.DoJSON(ctx, http.MethodPost, "/cliente/pedido/"+url.PathEscape(f.clientID), map[string]string{
		"direccion_id": addressID,
	}, &order)
	if err != nil {
		return Pedido{}, err
	}

	f.mu.Lock()
	f.order = order
	f.state = StateOrderCreated
	f.mu.Unlock()
	return order, nil
}

// Pasarelas lista los métodos de pago aceptados.
func (f *Flow) Pasarelas(ctx context.Context) ([]Pasarela, error) {
	var out []Pasarela
	err := f.api.DoJSON(ctx, http.MethodGet, "/cliente/pasarelas-pago", nil, &out)
	return out, err
}

func (f *Flow) SelectPaymentMethod(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateOrderCreated && f.state != StatePaymentSelected {
		return ErrBadState
	}
	if id == "" {
		return ErrNoMethod
	}
	f.methodID = id
	f.state = StatePaymentSelected
	return nil
}

// AttachProof registra el comprobante (foto local o URL ya subida).
func (f *Flow) AttachProof(ref fileref.Ref) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePaymentSelected && f.state != StateProofAttached {
		return ErrBadState
	}
	if ref.IsZero() {
		return ErrNoProof
	}
	f.proof = ref
	f.state = StateProofAttached
	return nil
}

// ConfirmPayment envía el pago. Solo después de un 2xx se limpia el
// carrito local; un fallo deja todo listo para reintentar.
func (f *Flow) ConfirmPayment(ctx context.Context) (Pago, error) {
	f.mu.Lock()
	if f.state == StateConfirmed {
		f.mu.Unlock()
		return f.payment, ErrBadState
	}
	if f.state != StateProofAttached {
		f.mu.Unlock()
		return Pago{}, ErrBadState
	}
	orderID := f.order.ID
	methodID := f.methodID
	proof := f.proof
	f.mu.Unlock()

	if err := f.begin(); err != nil {
		return Pago{}, err
	}
	defer f.end()

	var resp struct {
		Mensaje string `json:"mensaje"`
		Pago    Pago   `json:"pago"`
	}
	err := f.api.DoForm(ctx, http.MethodPost, "/cliente/pedido/"+url.PathEscape(orderID)+"/pagar", []httpclient.Field{
		httpclient.Text("pasarela_pago_id", methodID),
		httpclient.FileField("comprobante", proof),
	}, &resp)
	if err != nil {
		return Pago{}, err
	}

	f.mu.Lock()
	f.payment = resp.Pago
	f.cart = Pedido{ClienteID: f.clientID, Estado: "carrito"}
	f.state = StateConfirmed
	f.mu.Unlock()
	return resp.Pago, nil
}

// Historial lista los pedidos reales del cliente.
func (f *Flow) Historial(ctx context.Context) ([]Pedido, error) {
	var out []Pedido
	err := f.api.DoJSON(ctx, http.MethodGet, "/cliente/pedidos/"+url.PathEscape(f.clientID), nil, &out)
	return out, err
}
