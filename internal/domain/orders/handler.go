package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-nutrition-platform/internal/platform/uploads"
)

const maxProofBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service, files *uploads.Store) {
	r.Get("/cliente/carrito/{clienteID}", cartHandler(svc))
	r.Post("/cliente/carrito/agregar", addToCartHandler(svc))
	r.Post("/cliente/carrito/quitar", removeFromCartHandler(svc))
	r.Delete("/cliente/carrito/{clienteID}/vaciar", emptyCartHandler(svc))

	r.Post("/cliente/pedido/{clienteID}", placeOrderHandler(svc))
	r.Get("/cliente/pedidos/{clienteID}", historyHandler(svc))
	r.Get("/cliente/pedido/detalle/{pedidoID}", orderDetailHandler(svc))
	r.Post("/cliente/pedido/{pedidoID}/pagar", payHandler(svc, files))

	r.Get("/cliente/pasarelas-pago", paymentMethodsHandler(svc))
	r.Get("/cliente/pagos/{clienteID}", paymentHistoryHandler(svc))
	r.Get("/cliente/pago/pedido/{pedidoID}", paymentStatusHandler(svc))
}

type itemResponse struct {
	ID             string  `json:"id"`
	PlatoID        string  `json:"plato_id"`
	Nombre         string  `json:"nombre"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Cantidad       int     `json:"cantidad"`
	Subtotal       float64 `json:"subtotal"`
}

type pedidoResponse struct {
	ID          string         `json:"id"`
	ClienteID   string         `json:"cliente_id"`
	DireccionID string         `json:"direccion_id,omitempty"`
	Estado      string         `json:"estado"`
	Items       []itemResponse `json:"items"`
	Total       float64        `json:"total"`
	Fecha       string         `json:"fecha"`
}

type pagoResponse struct {
	ID          string `json:"id"`
	PedidoID    string `json:"pedido_id"`
	PasarelaID  string `json:"pasarela_pago_id"`
	Comprobante string `json:"comprobante"`
	Estado      string `json:"estado"`
	Fecha       string `json:"fecha"`
}

func toPedidoResponse(o Order) pedidoResponse {
	items := make([]itemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemResponse{
			ID:             it.ID,
			PlatoID:        it.DishID,
			Nombre:         it.DishName,
			PrecioUnitario: it.UnitPrice.InexactFloat64(),
			Cantidad:       it.Quantity,
			Subtotal:       it.Subtotal().InexactFloat64(),
		})
	}
	return pedidoResponse{
		ID:          o.ID,
		ClienteID:   o.ClientID,
		DireccionID: o.AddressID,
		Estado:      o.Status,
		Items:       items,
		Total:       o.Total.InexactFloat64(),
		Fecha:       o.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func toPagoResponse(p Payment) pagoResponse {
	return pagoResponse{
		ID:          p.ID,
		PedidoID:    p.OrderID,
		PasarelaID:  p.MethodID,
		Comprobante: p.ProofPath,
		Estado:      p.Status,
		Fecha:       p.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func cartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := svc.Cart(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		writeJSON(w, http.StatusOK, toPedidoResponse(cart))
	}
}

func addToCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClienteID string `json:"cliente_id"`
			PlatoID   string `json:"plato_id"`
			Cantidad  int    `json:"cantidad"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		if req.Cantidad == 0 {
			req.Cantidad = 1
		}
		cart, err := svc.AddToCart(r.Context(), req.ClienteID, req.PlatoID, req.Cantidad)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Plato no encontrado.")
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Datos inválidos.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo agregar al carrito.")
			}
			return
		}
		writeJSON(w, http.StatusOK, toPedidoResponse(cart))
	}
}

func removeFromCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClienteID string `json:"cliente_id"`
			PlatoID   string `json:"plato_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		cart, err := svc.RemoveFromCart(r.Context(), req.ClienteID, req.PlatoID)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudo actualizar el carrito.")
			return
		}
		writeJSON(w, http.StatusOK, toPedidoResponse(cart))
	}
}

func emptyCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.EmptyCart(r.Context(), chi.URLParam(r, "clienteID")); err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudo vaciar el carrito.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Carrito vaciado."})
	}
}

func placeOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DireccionID string `json:"direccion_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		o, err := svc.PlaceOrder(r.Context(), chi.URLParam(r, "clienteID"), req.DireccionID)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyCart):
				writeDetail(w, http.StatusBadRequest, "El carrito está vacío.")
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Falta la dirección de entrega.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo crear el pedido.")
			}
			return
		}
		writeJSON(w, http.StatusCreated, toPedidoResponse(o))
	}
}

func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.History(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		out := make([]pedidoResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toPedidoResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func orderDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "pedidoID"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Pedido no encontrado.")
			return
		}
		writeJSON(w, http.StatusOK, toPedidoResponse(o))
	}
}

// El pago llega como formulario multipart: pasarela_pago_id + comprobante.
func payHandler(svc *Service, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxProofBytes); err != nil {
			writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
			return
		}
		methodID := r.FormValue("pasarela_pago_id")
		_, fh, err := r.FormFile("comprobante")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Falta el comprobante de pago.")
			return
		}
		proofPath, err := files.SaveFile("comprobantes", "pago", fh)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudo guardar el comprobante.")
			return
		}

		p, err := svc.Pay(r.Context(), chi.URLParam(r, "pedidoID"), methodID, proofPath)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Pedido no encontrado.")
			case errors.Is(err, ErrAlreadyPaid):
				writeDetail(w, http.StatusConflict, "El pedido ya tiene un pago registrado.")
			case errors.Is(err, ErrNotPayable):
				writeDetail(w, http.StatusBadRequest, "El pedido no está pendiente de pago.")
			case errors.Is(err, ErrBadMethod):
				writeDetail(w, http.StatusBadRequest, "Pasarela de pago desconocida.")
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Datos de pago incompletos.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo registrar el pago.")
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"mensaje": "Pago registrado.",
			"pago":    toPagoResponse(p),
		})
	}
}

func paymentMethodsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPaymentMethods(r.Context())
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudieron cargar las pasarelas.")
			return
		}
		type pasarelaResponse struct {
			ID     string `json:"id"`
			Nombre string `json:"nombre"`
		}
		out := make([]pasarelaResponse, 0, len(items))
		for _, m := range items {
			out = append(out, pasarelaResponse{ID: m.ID, Nombre: m.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func paymentHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.PaymentHistory(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		out := make([]pagoResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPagoResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func paymentStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok, err := svc.PaymentForOrder(r.Context(), chi.URLParam(r, "pedidoID"))
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Error interno.")
			return
		}
		if !ok {
			writeDetail(w, http.StatusNotFound, "El pedido no tiene pago registrado.")
			return
		}
		writeJSON(w, http.StatusOK, toPagoResponse(p))
	}
}

// writeJSON/writeDetail duplicados por módulo a propósito.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
