package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pet-nutrition-platform/internal/client/checkout"
	"pet-nutrition-platform/internal/platform/fileref"
	"pet-nutrition-platform/internal/platform/httpclient"
)

// fakeBackend simula las rutas del API que usa el flow y cuenta los
// requests para poder afirmar que las validaciones locales no tocan red.
type fakeBackend struct {
	mux      *http.ServeMux
	requests atomic.Int64

	cartItems []map[string]any
	addresses []map[string]any
	payments  atomic.Int64
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	fb.mux.HandleFunc("/cliente/carrito/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "cart-1", "cliente_id": "c-1", "estado": "carrito",
			"items": fb.cartItems, "total": 37.0,
		})
	})
	fb.mux.HandleFunc("/cliente/carrito/agregar", func(w http.ResponseWriter, r *http.Request) {
		fb.cartItems = []map[string]any{
			{"id": "it-1", "plato_id": "p-1", "nombre": "Pollo con arroz", "precio_unitario": 18.5, "cantidad": 2, "subtotal": 37.0},
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "cart-1", "cliente_id": "c-1", "estado": "carrito",
			"items": fb.cartItems, "total": 37.0,
		})
	})
	fb.mux.HandleFunc("/cliente/carrito/quitar", func(w http.ResponseWriter, r *http.Request) {
		fb.cartItems = nil
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "cart-1", "cliente_id": "c-1", "estado": "carrito",
			"items": fb.cartItems, "total": 0.0,
		})
	})
	fb.mux.HandleFunc("/cliente/c-1/direcciones", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fb.addresses)
	})
	fb.mux.HandleFunc("/cliente/pedido/c-1", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DireccionID string `json:"direccion_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "ped-1", "cliente_id": "c-1", "direccion_id": req.DireccionID,
			"estado": "pendiente", "items": fb.cartItems, "total": 37.0,
		})
	})
	fb.mux.HandleFunc("/cliente/pasarelas-pago", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "yape-1", "nombre": "Yape"},
			{"id": "plin-1", "nombre": "Plin"},
		})
	})
	fb.mux.HandleFunc("/cliente/pedido/ped-1/pagar", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Formulario inválido."})
			return
		}
		if _, _, err := r.FormFile("comprobante"); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Falta el comprobante de pago."})
			return
		}
		if fb.payments.Add(1) > 1 {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "El pedido ya tiene un pago registrado."})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"mensaje": "Pago registrado.",
			"pago": map[string]any{
				"id": "pago-1", "pedido_id": "ped-1", "pasarela_pago_id": r.FormValue("pasarela_pago_id"),
				"estado": "pendiente",
			},
		})
	})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests.Add(1)
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return fb, ts
}

func newFlow(t *testing.T, baseURL string) *checkout.Flow {
	t.Helper()
	api, err := httpclient.New(baseURL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return checkout.NewFlow(api, "c-1")
}

func TestBeginCheckoutEmptyCartNoNetwork(t *testing.T) {
	fb, ts := newFakeBackend(t)
	f := newFlow(t, ts.URL)

	// Sin pasar por el carrito el paso está fuera de orden.
	if _, err := f.BeginCheckout(context.Background()); !errors.Is(err, checkout.ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}

	if _, err := f.LoadCart(context.Background()); err != nil {
		t.Fatalf("load cart: %v", err)
	}
	before := fb.requests.Load()

	if _, err := f.BeginCheckout(context.Background()); !errors.Is(err, checkout.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if fb.requests.Load() != before {
		t.Fatalf("empty-cart check must not hit the network")
	}
}

// Vaciar el carrito después de entrar al checkout no puede terminar en
// un pedido: PlaceOrder lo corta localmente.
func TestPlaceOrderEmptyCartNoNetwork(t *testing.T) {
	fb, ts := newFakeBackend(t)
	fb.addresses = []map[string]any{
		{"id": "d-1", "nombre": "Casa", "es_principal": true},
	}
	f := newFlow(t, ts.URL)
	ctx := context.Background()

	if _, err := f.AddItem(ctx, "p-1", 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.BeginCheckout(ctx); err != nil {
		t.Fatalf("begin checkout: %v", err)
	}
	cart, err := f.RemoveItem(ctx, "p-1")
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}

	before := fb.requests.Load()
	if _, err := f.PlaceOrder(ctx); !errors.Is(err, checkout.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if fb.requests.Load() != before {
		t.Fatalf("empty-cart check must not hit the network")
	}
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	fb, ts := newFakeBackend(t)
	// Direcciones sin principal: nada queda preseleccionado.
	fb.addresses = []map[string]any{
		{"id": "d-1", "nombre": "Casa", "es_principal": false},
	}
	f := newFlow(t, ts.URL)

	if _, err := f.AddItem(context.Background(), "p-1", 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.BeginCheckout(context.Background()); err != nil {
		t.Fatalf("begin checkout: %v", err)
	}
	if f.SelectedAddress() != "" {
		t.Fatalf("expected no preselection without primary")
	}

	before := fb.requests.Load()
	if _, err := f.PlaceOrder(context.Background()); !errors.Is(err, checkout.ErrNoAddress) {
		t.Fatalf("expected ErrNoAddress, got %v", err)
	}
	if fb.requests.Load() != before {
		t.Fatalf("missing-address check must not hit the network")
	}

	if err := f.SelectAddress("d-desconocida"); !errors.Is(err, checkout.ErrUnknownAddr) {
		t.Fatalf("expected ErrUnknownAddr, got %v", err)
	}
	if err := f.SelectAddress("d-1"); err != nil {
		t.Fatalf("select address: %v", err)
	}
}

func TestPrimaryAddressPreselected(t *testing.T) {
	fb, ts := newFakeBackend(t)
	fb.addresses = []map[string]any{
		{"id": "d-1", "nombre": "Casa", "es_principal": false},
		{"id": "d-2", "nombre": "Oficina", "es_principal": true},
	}
	f := newFlow(t, ts.URL)

	if _, err := f.AddItem(context.Background(), "p-1", 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.BeginCheckout(context.Background()); err != nil {
		t.Fatalf("begin checkout: %v", err)
	}
	if got := f.SelectedAddress(); got != "d-2" {
		t.Fatalf("expected primary preselected, got %q", got)
	}
}

func TestFullFlowConfirmOnce(t *testing.T) {
	fb, ts := newFakeBackend(t)
	fb.addresses = []map[string]any{
		{"id": "d-1", "nombre": "Casa", "es_principal": true},
	}
	f := newFlow(t, ts.URL)
	ctx := context.Background()

	if _, err := f.AddItem(ctx, "p-1", 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.BeginCheckout(ctx); err != nil {
		t.Fatalf("begin checkout: %v", err)
	}
	order, err := f.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.Estado != "pendiente" || order.DireccionID != "d-1" {
		t.Fatalf("unexpected order: %+v", order)
	}

	if err := f.SelectPaymentMethod("yape-1"); err != nil {
		t.Fatalf("select method: %v", err)
	}

	// Comprobante obligatorio.
	if err := f.AttachProof(fileref.Ref{}); !errors.Is(err, checkout.ErrNoProof) {
		t.Fatalf("expected ErrNoProof, got %v", err)
	}

	proofPath := filepath.Join(t.TempDir(), "voucher.jpg")
	if err := os.WriteFile(proofPath, []byte("img"), 0o600); err != nil {
		t.Fatalf("write proof: %v", err)
	}
	if err := f.AttachProof(fileref.Local(proofPath, "", "image/jpeg")); err != nil {
		t.Fatalf("attach proof: %v", err)
	}

	pago, err := f.ConfirmPayment(ctx)
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if pago.ID != "pago-1" || pago.PasarelaID != "yape-1" {
		t.Fatalf("unexpected payment: %+v", pago)
	}
	if f.State() != checkout.StateConfirmed {
		t.Fatalf("expected StateConfirmed, got %v", f.State())
	}
	if cart := f.Cart(); len(cart.Items) != 0 || cart.Estado != "carrito" {
		t.Fatalf("expected local cart reset, got %+v", cart)
	}

	// El segundo confirm devuelve el pago ya hecho sin tocar la red.
	before := fb.requests.Load()
	again, err := f.ConfirmPayment(ctx)
	if !errors.Is(err, checkout.ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
	if again.ID != "pago-1" {
		t.Fatalf("expected stored payment, got %+v", again)
	}
	if fb.requests.Load() != before {
		t.Fatalf("confirmed flow must not re-send the payment")
	}
	if fb.payments.Load() != 1 {
		t.Fatalf("expected exactly 1 payment on server, got %d", fb.payments.Load())
	}
}

func TestSelectPaymentMethodValidation(t *testing.T) {
	_, ts := newFakeBackend(t)
	f := newFlow(t, ts.URL)

	if err := f.SelectPaymentMethod("yape-1"); !errors.Is(err, checkout.ErrBadState) {
		t.Fatalf("expected ErrBadState before order, got %v", err)
	}
}
