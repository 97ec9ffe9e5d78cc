package pets

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pet-nutrition-platform/internal/platform/fileref"
	"pet-nutrition-platform/internal/platform/httpclient"
)

var ErrInvalidInput = errors.New("nombre y especie son obligatorios")

// Workflow maneja la ficha de mascotas desde la app del cliente.
type Workflow struct {
	api *httpclient.Client
}

func New(api *httpclient.Client) *Workflow {
	return &Workflow{api: api}
}

type Mascota struct {
	ID            string   `json:"id"`
	ClienteID     string   `json:"cliente_id"`
	Nombre        string   `json:"nombre"`
	EspecieID     string   `json:"especie_id"`
	Raza          string   `json:"raza"`
	Edad          int      `json:"edad"`
	Sexo          string   `json:"sexo"`
	Peso          *float64 `json:"peso"`
	Foto          string   `json:"foto"`
	Observaciones string   `json:"observaciones"`
	Estado        string   `json:"estado"`
}

type CreateInput struct {
	ClienteID     string
	Nombre        string
	EspecieID     string
	Raza          string
	Edad          int
	Sexo          string
	Peso          *float64
	Observaciones string

	// Foto es opcional y siempre local en el alta (todavía no existe
	// ninguna versión subida).
	Foto fileref.Ref
}

// Create registra la mascota con su foto en un solo multipart.
func (w *Workflow) Create(ctx context.Context, in CreateInput) (Mascota, error) {
	if in.ClienteID == "" || strings.TrimSpace(in.Nombre) == "" || in.EspecieID == "" {
		return Mascota{}, ErrInvalidInput
	}

	fields := []httpclient.Field{
		httpclient.Text("nombre", in.Nombre),
		httpclient.Text("especie_id", in.EspecieID),
		httpclient.Text("sexo", in.Sexo),
		httpclient.Text("edad", strconv.Itoa(in.Edad)),
	}
	if in.Raza != "" {
		fields = append(fields, httpclient.Text("raza", in.Raza))
	}
	if in.Peso != nil {
		fields = append(fields, httpclient.Text("peso", formatPeso(*in.Peso)))
	}
	if in.Observaciones != "" {
		fields = append(fields, httpclient.Text("observaciones", in.Observaciones))
	}
	if !in.Foto.IsZero() {
		fields = append(fields, httpclient.FileField("foto", in.Foto))
	}

	var out Mascota
	path := "/cliente/mascotas/" + url.PathEscape(in.ClienteID)
	if err := w.api.DoForm(ctx, http.MethodPost, path, fields, &out); err != nil {
		return Mascota{}, err
	}
	return out, nil
}

// UpdateInput es parcial: solo los campos no-nil viajan en el form.
type UpdateInput struct {
	Nombre        *string
	EspecieID     *string
	Raza          *string
	Edad          *int
	Sexo          *string
	Peso          *float64
	Observaciones *string

	// Foto: un fileref local sube una foto nueva; un fileref remoto
	// (la foto actual sin cambios) viaja como texto y nunca se re-sube.
	Foto fileref.Ref
}

// Update edita la ficha mandando solo lo que cambió.
func (w *Workflow) Update(ctx context.Context, mascotaID string, in UpdateInput) (Mascota, error) {
	var fields []httpclient.Field
	if in.Nombre != nil {
		fields = append(fields, httpclient.Text("nombre", *in.Nombre))
	}
	if in.EspecieID != nil {
		fields = append(fields, httpclient.Text("especie_id", *in.EspecieID))
	}
	if in.Raza != nil {
		fields = append(fields, httpclient.Text("raza", *in.Raza))
	}
	if in.Edad != nil {
		fields = append(fields, httpclient.Text("edad", strconv.Itoa(*in.Edad)))
	}
	if in.Sexo != nil {
		fields = append(fields, httpclient.Text("sexo", *in.Sexo))
	}
	if in.Peso != nil {
		fields = append(fields, httpclient.Text("peso", formatPeso(*in.Peso)))
	}
	if in.Observaciones != nil {
		fields = append(fields, httpclient.Text("observaciones", *in.Observaciones))
	}
	if !in.Foto.IsZero() {
		fields = append(fields, httpclient.FileField("foto", in.Foto))
	}

	var out Mascota
	path := "/cliente/mascotas/" + url.PathEscape(mascotaID)
	if err := w.api.DoForm(ctx, http.MethodPut, path, fields, &out); err != nil {
		return Mascota{}, err
	}
	return out, nil
}

// List trae las mascotas activas del cliente.
func (w *Workflow) List(ctx context.Context, clienteID string) ([]Mascota, error) {
	var resp struct {
		Total    int       `json:"total"`
		Mascotas []Mascota `json:"mascotas"`
	}
	err := w.api.DoJSON(ctx, http.MethodGet, "/cliente/mascotas/"+url.PathEscape(clienteID), nil, &resp)
	return resp.Mascotas, err
}

// Ficha es el detalle clínico completo de una mascota.
type Ficha struct {
	Mascota      Mascota          `json:"mascota"`
	Alergias     []map[string]any `json:"alergias"`
	Condiciones  []map[string]any `json:"condiciones_salud"`
	Preferencias []map[string]any `json:"preferencias"`
	Recetas      []map[string]any `json:"recetas_medicas"`
	Notas        []map[string]any `json:"notas_alergias"`
}

func (w *Workflow) Detalle(ctx context.Context, mascotaID string) (Ficha, error) {
	var out Ficha
	err := w.api.DoJSON(ctx, http.MethodGet, "/cliente/mascotas/detalle/"+url.PathEscape(mascotaID), nil, &out)
	return out, err
}

func (w *Workflow) Delete(ctx context.Context, mascotaID string) error {
	return w.api.DoJSON(ctx, http.MethodDelete, "/cliente/mascotas/"+url.PathEscape(mascotaID), nil, nil)
}

// FotoURL resuelve la ruta relativa de la foto contra el API.
func (w *Workflow) FotoURL(m Mascota) string {
	return w.api.StaticURL(m.Foto)
}

func formatPeso(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
