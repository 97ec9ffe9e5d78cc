package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"pet-nutrition-platform/internal/platform/uploads"
	"pet-nutrition-platform/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Files: uploads.NewStore(t.TempDir()),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_RegisterLoginAndPets(t *testing.T) {
	ts := newTestServer(t)

	// 1) Registro de cliente
	st, body := doJSON(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"nombre":     "Ana",
		"correo":     "ana@test.pe",
		"contrasena": "secreto123",
		"telefono":   "999111222",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 register, got %d body=%s", st, string(body))
	}
	var reg struct {
		Token   string `json:"token"`
		Usuario struct {
			ID    string `json:"id"`
			RolID int    `json:"rol_id"`
		} `json:"usuario"`
	}
	_ = json.Unmarshal(body, &reg)
	if reg.Token == "" || reg.Usuario.ID == "" {
		t.Fatalf("register: missing token/usuario body=%s", string(body))
	}
	if reg.Usuario.RolID != 2 {
		t.Fatalf("expected rol cliente (2), got %d", reg.Usuario.RolID)
	}
	clienteID := reg.Usuario.ID

	// 2) Correo duplicado => 400
	st, _ = doJSON(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"nombre":     "Ana 2",
		"correo":     "ana@test.pe",
		"contrasena": "otra",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 duplicate email, got %d", st)
	}

	// 3) Login con password incorrecto => 401
	st, _ = doJSON(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"correo":     "ana@test.pe",
		"contrasena": "malpassword",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad password, got %d", st)
	}

	// 4) Login correcto
	st, body = doJSON(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"correo":     "ana@test.pe",
		"contrasena": "secreto123",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	// 5) Crear mascota (multipart)
	especieID := firstSpeciesID(t, ts.URL)
	st, body = doForm(t, ts.URL, "POST", "/cliente/mascotas/"+clienteID, map[string]string{
		"nombre":     "Rocky",
		"especie_id": especieID,
		"raza":       "Labrador",
		"edad":       "3",
		"sexo":       "M",
		"peso":       "24.5",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	var mascota struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &mascota)
	if mascota.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}

	// 6) Listado con total
	st, body = doJSON(t, ts.URL, "GET", "/cliente/mascotas/"+clienteID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list pets, got %d body=%s", st, string(body))
	}
	var list struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(body, &list)
	if list.Total != 1 {
		t.Fatalf("expected 1 pet, got %d", list.Total)
	}

	// 7) Detalle
	st, body = doJSON(t, ts.URL, "GET", "/cliente/mascotas/detalle/"+mascota.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 pet detail, got %d body=%s", st, string(body))
	}

	// 8) Actualización parcial: solo el peso
	st, body = doForm(t, ts.URL, "PUT", "/cliente/mascotas/"+mascota.ID, map[string]string{
		"peso": "25.1",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 update pet, got %d body=%s", st, string(body))
	}
	var updated struct {
		Nombre string   `json:"nombre"`
		Peso   *float64 `json:"peso"`
	}
	_ = json.Unmarshal(body, &updated)
	if updated.Nombre != "Rocky" {
		t.Fatalf("partial update must keep name, got %q", updated.Nombre)
	}
	if updated.Peso == nil || *updated.Peso != 25.1 {
		t.Fatalf("expected peso 25.1, got %v", updated.Peso)
	}

	// 9) Borrado sin solicitudes pendientes: desaparece de verdad
	st, _ = doJSON(t, ts.URL, "DELETE", "/cliente/mascotas/"+mascota.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 delete pet, got %d", st)
	}
	st, _ = doJSON(t, ts.URL, "GET", "/cliente/mascotas/detalle/"+mascota.ID, "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", st)
	}
}

func TestHTTP_AddressPrimaryExclusive(t *testing.T) {
	ts := newTestServer(t)
	clienteID := "cliente-1"

	// La primera dirección queda principal aunque no se marque.
	st, body := doForm(t, ts.URL, "POST", "/cliente/"+clienteID+"/direccion", map[string]string{
		"nombre":   "Casa",
		"latitud":  "-12.04",
		"longitud": "-77.03",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 first address, got %d body=%s", st, string(body))
	}

	// La segunda marcada principal desplaza a la primera.
	st, body = doForm(t, ts.URL, "POST", "/cliente/"+clienteID+"/direccion", map[string]string{
		"nombre":       "Oficina",
		"latitud":      "-12.10",
		"longitud":     "-77.00",
		"es_principal": "true",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 second address, got %d body=%s", st, string(body))
	}

	st, body = doJSON(t, ts.URL, "GET", "/cliente/"+clienteID+"/direcciones", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list addresses, got %d body=%s", st, string(body))
	}
	var dirs []struct {
		Nombre      string `json:"nombre"`
		EsPrincipal bool   `json:"es_principal"`
	}
	_ = json.Unmarshal(body, &dirs)
	if len(dirs) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(dirs))
	}
	principales := 0
	for _, d := range dirs {
		if d.EsPrincipal {
			principales++
			if d.Nombre != "Oficina" {
				t.Fatalf("expected Oficina as primary, got %s", d.Nombre)
			}
		}
	}
	if principales != 1 {
		t.Fatalf("expected exactly 1 primary address, got %d", principales)
	}
}

func TestHTTP_CheckoutAndPayment(t *testing.T) {
	ts := newTestServer(t)
	clienteID := "cliente-1"

	// Pedido sobre carrito vacío => 400
	st, _ := doJSON(t, ts.URL, "POST", "/cliente/pedido/"+clienteID, "", map[string]any{
		"direccion_id": "da-igual",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 empty cart, got %d", st)
	}

	// Agregar un plato del catálogo sembrado
	platoID := firstDishID(t, ts.URL)
	st, body := doJSON(t, ts.URL, "POST", "/cliente/carrito/agregar", "", map[string]any{
		"cliente_id": clienteID,
		"plato_id":   platoID,
		"cantidad":   2,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 add to cart, got %d body=%s", st, string(body))
	}
	var cart struct {
		Items []struct {
			Cantidad int     `json:"cantidad"`
			Subtotal float64 `json:"subtotal"`
		} `json:"items"`
		Total float64 `json:"total"`
	}
	_ = json.Unmarshal(body, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Cantidad != 2 {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
	if cart.Total == 0 {
		t.Fatalf("expected non-zero total")
	}

	// Mismo plato otra vez: acumula cantidad, no duplica línea
	st, body = doJSON(t, ts.URL, "POST", "/cliente/carrito/agregar", "", map[string]any{
		"cliente_id": clienteID,
		"plato_id":   platoID,
		"cantidad":   1,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 add again, got %d", st)
	}
	_ = json.Unmarshal(body, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Cantidad != 3 {
		t.Fatalf("expected merged line with cantidad=3, got %+v", cart.Items)
	}

	// Dirección y pedido
	st, body = doForm(t, ts.URL, "POST", "/cliente/"+clienteID+"/direccion", map[string]string{
		"nombre":   "Casa",
		"latitud":  "-12.04",
		"longitud": "-77.03",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 address, got %d body=%s", st, string(body))
	}
	var dir struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &dir)

	st, body = doJSON(t, ts.URL, "POST", "/cliente/pedido/"+clienteID, "", map[string]any{
		"direccion_id": dir.ID,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 place order, got %d body=%s", st, string(body))
	}
	var pedido struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	_ = json.Unmarshal(body, &pedido)
	if pedido.Estado != "pendiente" {
		t.Fatalf("expected estado pendiente, got %s", pedido.Estado)
	}

	// Pasarela + pago con comprobante
	pasarelaID := firstPasarelaID(t, ts.URL)
	st, body = doFormWithFile(t, ts.URL, "POST", "/cliente/pedido/"+pedido.ID+"/pagar",
		map[string]string{"pasarela_pago_id": pasarelaID},
		"comprobante", "voucher.jpg", []byte("fake-image-bytes"))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 pay, got %d body=%s", st, string(body))
	}

	// Segundo pago => 409 y el estado no retrocede
	st, _ = doFormWithFile(t, ts.URL, "POST", "/cliente/pedido/"+pedido.ID+"/pagar",
		map[string]string{"pasarela_pago_id": pasarelaID},
		"comprobante", "voucher2.jpg", []byte("more-bytes"))
	if st != http.StatusConflict {
		t.Fatalf("expected 409 double payment, got %d", st)
	}

	st, body = doJSON(t, ts.URL, "GET", "/cliente/pedido/detalle/"+pedido.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 order detail, got %d", st)
	}
	_ = json.Unmarshal(body, &pedido)
	if pedido.Estado != "en_preparacion" {
		t.Fatalf("expected estado en_preparacion after pay, got %s", pedido.Estado)
	}

	// El carrito quedó convertido: el siguiente es nuevo y vacío
	st, body = doJSON(t, ts.URL, "GET", "/cliente/carrito/"+clienteID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 cart, got %d", st)
	}
	_ = json.Unmarshal(body, &cart)
	if len(cart.Items) != 0 {
		t.Fatalf("expected fresh empty cart, got %+v", cart.Items)
	}
}

func TestHTTP_NutritionRequestReviewAndMix(t *testing.T) {
	ts := newTestServer(t)
	clienteID := "cliente-1"
	nutriID := "nutri-1"

	especieID := firstSpeciesID(t, ts.URL)
	st, body := doForm(t, ts.URL, "POST", "/cliente/mascotas/"+clienteID, map[string]string{
		"nombre":     "Luna",
		"especie_id": especieID,
		"sexo":       "H",
		"edad":       "2",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	var mascota struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &mascota)

	// Solicitud especializada con receta adjunta y listas JSON
	st, body = doFormWithFile(t, ts.URL, "POST", "/cliente/solicitud-especializada/"+clienteID,
		map[string]string{
			"mascota_id":        mascota.ID,
			"objetivo":          "Bajar de peso",
			"alergias":          `[{"descripcion":"alergia al pollo"}]`,
			"condiciones_salud": `[{"nombre":"anemia"}]`,
		},
		"receta_medica", "receta.pdf", []byte("pdf-bytes"))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit request, got %d body=%s", st, string(body))
	}
	var solicitud struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	_ = json.Unmarshal(body, &solicitud)
	if solicitud.Estado != "pendiente" {
		t.Fatalf("expected estado pendiente, got %s", solicitud.Estado)
	}

	// Mascota de otro cliente => 403
	st, _ = doFormWithFile(t, ts.URL, "POST", "/cliente/solicitud-especializada/otro-cliente",
		map[string]string{
			"mascota_id": mascota.ID,
			"objetivo":   "lo que sea",
		}, "", "", nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 foreign pet, got %d", st)
	}

	// Con solicitud pendiente el borrado es lógico, no físico
	st, _ = doJSON(t, ts.URL, "DELETE", "/cliente/mascotas/"+mascota.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 delete pet, got %d", st)
	}
	st, _ = doJSON(t, ts.URL, "GET", "/cliente/mascotas/detalle/"+mascota.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200: soft-deleted pet keeps its record, got %d", st)
	}

	// Bandeja del nutricionista
	st, body = doJSON(t, ts.URL, "GET", "/nutricionista/pedidos/pendientes", nutriID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 pending, got %d", st)
	}
	var bandeja struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(body, &bandeja)
	if bandeja.Total != 1 {
		t.Fatalf("expected 1 pending request, got %d", bandeja.Total)
	}

	// Revisión incompleta => 400
	st, _ = doJSON(t, ts.URL, "POST", "/nutricionista/pedidos/"+solicitud.ID+"/revisar", nutriID, map[string]any{
		"diagnostico": "sobrepeso",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 incomplete review, got %d", st)
	}

	// Revisión completa aprueba la solicitud
	st, body = doJSON(t, ts.URL, "POST", "/nutricionista/pedidos/"+solicitud.ID+"/revisar", nutriID, map[string]any{
		"diagnostico":     "sobrepeso grado 1",
		"recomendaciones": "dieta hipocalórica",
		"observaciones":   "control en 30 días",
		"aprobar":         true,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 review, got %d body=%s", st, string(body))
	}

	// Doble revisión => 409
	st, _ = doJSON(t, ts.URL, "POST", "/nutricionista/pedidos/"+solicitud.ID+"/revisar", nutriID, map[string]any{
		"diagnostico":     "x",
		"recomendaciones": "y",
		"observaciones":   "z",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 double review, got %d", st)
	}

	// Mix: plato oculto + vínculo + notificación
	ingredienteID := firstDishID(t, ts.URL)
	st, body = doJSON(t, ts.URL, "POST", "/nutricionista/platos/mix", nutriID, map[string]any{
		"cliente_id":  clienteID,
		"mascota_ids": []string{mascota.ID},
		"nombre":      "Mix Luna",
		"descripcion": "mezcla hipocalórica",
		"total":       32.5,
		"items": []map[string]any{
			{"plato_id": ingredienteID, "cantidad": 2},
		},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 mix, got %d body=%s", st, string(body))
	}
	var mix struct {
		PlatoID string `json:"plato_id"`
	}
	_ = json.Unmarshal(body, &mix)

	// El plato del mix NO aparece en el catálogo público
	st, body = doJSON(t, ts.URL, "GET", "/cliente/platos-mascotas/", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 catalog, got %d", st)
	}
	var platos []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &platos)
	for _, p := range platos {
		if p.ID == mix.PlatoID {
			t.Fatalf("mix dish must stay hidden from public catalog")
		}
	}

	// El cliente lo ve entre sus platos personalizados
	st, body = doJSON(t, ts.URL, "GET", "/cliente/platos-personalizados/"+clienteID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 personal dishes, got %d", st)
	}
	var personales []struct {
		PlatoID string  `json:"plato_id"`
		Total   float64 `json:"total"`
	}
	_ = json.Unmarshal(body, &personales)
	if len(personales) != 1 || personales[0].PlatoID != mix.PlatoID {
		t.Fatalf("expected personal dish linked to mix, got %+v", personales)
	}

	// Notificaciones: revisión + dieta lista
	st, body = doJSON(t, ts.URL, "GET", "/cliente/notificaciones/"+clienteID+"/no-leidas", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 unread, got %d", st)
	}
	var unread struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(body, &unread)
	if unread.Total != 2 {
		t.Fatalf("expected 2 unread notifications, got %d", unread.Total)
	}
}

func TestHTTP_FavoritesAndSubscriptions(t *testing.T) {
	ts := newTestServer(t)
	platoID := firstDishID(t, ts.URL)

	// Marcar favorito: primera vez crea, segunda avisa que ya existe
	st, body := doJSON(t, ts.URL, "POST", "/cliente/favoritos/c-1/"+platoID, "", nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 favorite, got %d body=%s", st, string(body))
	}
	st, body = doJSON(t, ts.URL, "POST", "/cliente/favoritos/c-1/"+platoID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 duplicate favorite, got %d", st)
	}
	var dup struct {
		YaExiste bool `json:"ya_existe"`
	}
	_ = json.Unmarshal(body, &dup)
	if !dup.YaExiste {
		t.Fatalf("expected ya_existe=true, got %s", string(body))
	}

	// Plato inexistente => 404
	st, _ = doJSON(t, ts.URL, "POST", "/cliente/favoritos/c-1/plato-fantasma", "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown dish, got %d", st)
	}

	st, body = doJSON(t, ts.URL, "GET", "/cliente/favoritos/c-1", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 favorites, got %d", st)
	}
	var favs struct {
		Total     int `json:"total"`
		Favoritos []struct {
			Plato struct {
				ID     string `json:"id"`
				Nombre string `json:"nombre"`
			} `json:"plato"`
		} `json:"favoritos"`
	}
	_ = json.Unmarshal(body, &favs)
	if favs.Total != 1 || len(favs.Favoritos) != 1 || favs.Favoritos[0].Plato.ID != platoID {
		t.Fatalf("unexpected favorites: %s", string(body))
	}

	st, body = doJSON(t, ts.URL, "GET", "/cliente/favoritos/c-1/check/"+platoID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 check, got %d", st)
	}
	var check struct {
		EsFavorito bool `json:"es_favorito"`
	}
	_ = json.Unmarshal(body, &check)
	if !check.EsFavorito {
		t.Fatalf("expected es_favorito=true, got %s", string(body))
	}

	st, _ = doJSON(t, ts.URL, "DELETE", "/cliente/favoritos/c-1/"+platoID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 remove favorite, got %d", st)
	}
	st, _ = doJSON(t, ts.URL, "DELETE", "/cliente/favoritos/c-1/"+platoID, "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 removing twice, got %d", st)
	}

	// Planes de membresía sembrados
	st, body = doJSON(t, ts.URL, "GET", "/cliente/subscripciones/", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 plans, got %d", st)
	}
	var planes []struct {
		ID     string  `json:"id"`
		Nombre string  `json:"nombre"`
		Precio float64 `json:"precio"`
	}
	_ = json.Unmarshal(body, &planes)
	if len(planes) < 2 {
		t.Fatalf("expected seeded plans, got %s", string(body))
	}
	premium := ""
	for _, p := range planes {
		if p.Precio > 0 {
			premium = p.ID
			break
		}
	}
	if premium == "" {
		t.Fatalf("expected a paid plan among %+v", planes)
	}

	// Sin suscripción todavía
	st, body = doJSON(t, ts.URL, "GET", "/cliente/subscripciones/c-1/actual", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 current, got %d", st)
	}
	var actual struct {
		Activa bool `json:"activa"`
	}
	_ = json.Unmarshal(body, &actual)
	if actual.Activa {
		t.Fatalf("expected no active subscription, got %s", string(body))
	}

	// Cancelar sin membresía => 400
	st, _ = doJSON(t, ts.URL, "DELETE", "/cliente/subscripciones/c-1/cancelar", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 cancel without plan, got %d", st)
	}

	// Suscribirse al plan pagado y verificar la membresía vigente
	st, body = doForm(t, ts.URL, "POST", "/cliente/subscripciones/c-1/suscribirse", map[string]string{
		"plan_id": premium,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 subscribe, got %d body=%s", st, string(body))
	}
	st, body = doJSON(t, ts.URL, "GET", "/cliente/subscripciones/c-1/actual", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 current, got %d", st)
	}
	var conPlan struct {
		Activa bool `json:"activa"`
		Plan   struct {
			ID string `json:"id"`
		} `json:"plan"`
	}
	_ = json.Unmarshal(body, &conPlan)
	if !conPlan.Activa || conPlan.Plan.ID != premium {
		t.Fatalf("expected active premium plan, got %s", string(body))
	}

	// Cancelar regresa al plan básico (precio 0)
	st, _ = doJSON(t, ts.URL, "DELETE", "/cliente/subscripciones/c-1/cancelar", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 cancel, got %d", st)
	}
	st, body = doJSON(t, ts.URL, "GET", "/cliente/subscripciones/c-1/actual", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 current, got %d", st)
	}
	var trasCancel struct {
		Activa bool `json:"activa"`
		Plan   struct {
			Precio float64 `json:"precio"`
		} `json:"plan"`
	}
	_ = json.Unmarshal(body, &trasCancel)
	if !trasCancel.Activa || trasCancel.Plan.Precio != 0 {
		t.Fatalf("expected basic plan after cancel, got %s", string(body))
	}
}

func TestHTTP_SearchItemsMinLength(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doJSON(t, ts.URL, "GET", "/nutricionista/items/buscar?q=p", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for 1-char query, got %d", st)
	}

	st, body := doJSON(t, ts.URL, "GET", "/nutricionista/items/buscar?q=po", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 for 2-char query, got %d body=%s", st, string(body))
	}
	var items []struct {
		Nombre string `json:"nombre"`
	}
	_ = json.Unmarshal(body, &items)
	if len(items) == 0 {
		t.Fatalf("expected seeded matches for 'po'")
	}
	if len(items) > 10 {
		t.Fatalf("expected at most 10 results, got %d", len(items))
	}
}

func firstSpeciesID(t *testing.T, baseURL string) string {
	t.Helper()
	st, body := doJSON(t, baseURL, "GET", "/cliente/platos-mascotas/especies", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 especies, got %d", st)
	}
	var out []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &out)
	if len(out) == 0 {
		t.Fatalf("expected seeded species")
	}
	return out[0].ID
}

func firstDishID(t *testing.T, baseURL string) string {
	t.Helper()
	st, body := doJSON(t, baseURL, "GET", "/cliente/platos-mascotas/", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 platos, got %d", st)
	}
	var out []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &out)
	if len(out) == 0 {
		t.Fatalf("expected seeded dishes")
	}
	return out[0].ID
}

func firstPasarelaID(t *testing.T, baseURL string) string {
	t.Helper()
	st, body := doJSON(t, baseURL, "GET", "/cliente/pasarelas-pago", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 pasarelas, got %d", st)
	}
	var out []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &out)
	if len(out) == 0 {
		t.Fatalf("expected seeded payment methods")
	}
	return out[0].ID
}

func doJSON(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
		req.Header.Set("X-Debug-Rol-ID", strconv.Itoa(3))
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doForm(t *testing.T, baseURL, method, path string, fields map[string]string) (int, []byte) {
	t.Helper()
	return doFormWithFile(t, baseURL, method, path, fields, "", "", nil)
}

func doFormWithFile(t *testing.T, baseURL, method, path string, fields map[string]string, fileField, filename string, content []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()

	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
