package nutrition_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/client/nutrition"
	"pet-nutrition-platform/internal/platform/httpclient"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestMixBuilderAccumulates(t *testing.T) {
	b := nutrition.NewMixBuilder("c-1").
		Nombre("Mix Rocky").
		ParaMascota("m-1").
		ParaMascota("m-1"). // duplicada: se ignora
		Agregar(nutrition.MixIngrediente{PlatoID: "p-1", Nombre: "Pollo", Precio: dec("9.00"), Cantidad: 2}).
		Agregar(nutrition.MixIngrediente{PlatoID: "p-2", Nombre: "Vegetales", Precio: dec("6.50"), Cantidad: 1}).
		Agregar(nutrition.MixIngrediente{PlatoID: "p-1", Precio: dec("9.00"), Cantidad: 1}) // mismo plato: suma

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 merged lines, got %d", len(items))
	}
	if items[0].PlatoID != "p-1" || items[0].Cantidad != 3 {
		t.Fatalf("expected p-1 x3, got %+v", items[0])
	}

	// 9.00*3 + 6.50*1 = 33.50
	if got := b.Total(); !got.Equal(dec("33.50")) {
		t.Fatalf("expected total 33.50, got %s", got)
	}

	b.Quitar("p-2")
	if got := b.Total(); !got.Equal(dec("27.00")) {
		t.Fatalf("expected total 27.00 after quitar, got %s", got)
	}
}

func TestMixBuilderItemsIsACopy(t *testing.T) {
	b := nutrition.NewMixBuilder("c-1").
		Agregar(nutrition.MixIngrediente{PlatoID: "p-1", Precio: dec("9.00"), Cantidad: 1})

	items := b.Items()
	items[0].Cantidad = 99

	if got := b.Items()[0].Cantidad; got != 1 {
		t.Fatalf("mutating the copy must not affect the builder, got %d", got)
	}
}

func TestMixCommitValidation(t *testing.T) {
	w := newWorkflow(t, "http://api.test")
	ctx := context.Background()

	// Vacío.
	b := nutrition.NewMixBuilder("c-1").Nombre("x").ParaMascota("m-1")
	if _, err := b.Commit(ctx, w); !errors.Is(err, nutrition.ErrMixEmpty) {
		t.Fatalf("expected ErrMixEmpty, got %v", err)
	}

	// Sin mascotas.
	b = nutrition.NewMixBuilder("c-1").Nombre("x").
		Agregar(nutrition.MixIngrediente{PlatoID: "p-1", Precio: dec("9.00"), Cantidad: 1})
	if _, err := b.Commit(ctx, w); !errors.Is(err, nutrition.ErrMixNoPets) {
		t.Fatalf("expected ErrMixNoPets, got %v", err)
	}

	// Sin nombre.
	b = nutrition.NewMixBuilder("c-1").ParaMascota("m-1").
		Agregar(nutrition.MixIngrediente{PlatoID: "p-1", Precio: dec("9.00"), Cantidad: 1})
	if _, err := b.Commit(ctx, w); !errors.Is(err, nutrition.ErrMixNoName) {
		t.Fatalf("expected ErrMixNoName, got %v", err)
	}
}

func TestMixCommitSendsTotalsAndSurvivesFailure(t *testing.T) {
	fail := true
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, `{"detail":"No se pudo crear el mix."}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(nutrition.MixResult{
			Mensaje:  "¡Dieta Lista!",
			PlatoID:  "plato-mix-1",
			Mascotas: []string{"m-1"},
		})
	}))
	defer ts.Close()

	api, err := httpclient.New(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	w := nutrition.New(api)

	b := nutrition.NewMixBuilder("c-1").
		Nombre("Mix Rocky").
		ParaMascota("m-1").
		Agregar(nutrition.MixIngrediente{PlatoID: "p-1", Precio: dec("9.00"), Cantidad: 2})

	// El primer intento falla: el builder queda intacto para reintentar.
	if _, err := b.Commit(context.Background(), w); err == nil {
		t.Fatalf("expected server error")
	}
	if len(b.Items()) != 1 {
		t.Fatalf("builder must survive a failed commit")
	}

	fail = false
	res, err := b.Commit(context.Background(), w)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if res.PlatoID != "plato-mix-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got["total"] != 18.0 {
		t.Fatalf("expected total 18.0 in payload, got %v", got["total"])
	}
	if got["nombre"] != "Mix Rocky" {
		t.Fatalf("expected nombre in payload, got %v", got["nombre"])
	}
}
