package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"pet-nutrition-platform/internal/platform/fileref"
	"pet-nutrition-platform/internal/platform/httpclient"
)

var (
	ErrInvalidInput = errors.New("datos de la solicitud incompletos")

	// ErrMissingReview: los tres campos de la revisión son obligatorios.
	// Se valida antes de llamar al API.
	ErrMissingReview = errors.New("diagnóstico, recomendaciones y observaciones son obligatorios")
)

// Workflow agrupa las operaciones de nutrición de la app del cliente y
// del panel del nutricionista.
type Workflow struct {
	api *httpclient.Client
}

func New(api *httpclient.Client) *Workflow {
	return &Workflow{api: api}
}

type Solicitud struct {
	ID        string `json:"id"`
	ClienteID string `json:"cliente_id"`
	MascotaID string `json:"mascota_id"`
	Objetivo  string `json:"objetivo"`
	Receta    string `json:"receta_medica"`
	Adjunto   string `json:"archivo_adicional"`
	Estado    string `json:"estado"`
	Fecha     string `json:"fecha"`
}

type Consulta struct {
	ID              string `json:"id"`
	SolicitudID     string `json:"solicitud_id"`
	NutricionistaID string `json:"nutricionista_id"`
	Diagnostico     string `json:"diagnostico"`
	Recomendaciones string `json:"recomendaciones"`
	Observaciones   string `json:"observaciones"`
	Fecha           string `json:"fecha"`
}

type Alergia struct {
	Descripcion string `json:"descripcion"`
}

type Condicion struct {
	Nombre string `json:"nombre"`
}

type Preferencia struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type SubmitInput struct {
	ClienteID string
	MascotaID string
	Objetivo  string

	Alergias     []Alergia
	Condiciones  []Condicion
	Preferencias []Preferencia

	RecetaMedica     fileref.Ref // opcional
	ArchivoAdicional fileref.Ref // opcional
}

// SubmitRequest envía la solicitud especializada en UN solo multipart:
// texto, listas serializadas y archivos viajan juntos, así el servidor
// la registra completa o no la registra.
func (w *Workflow) SubmitRequest(ctx context.Context, in SubmitInput) (Solicitud, error) {
	if in.ClienteID == "" || in.MascotaID == "" || strings.TrimSpace(in.Objetivo) == "" {
		return Solicitud{}, ErrInvalidInput
	}

	fields := []httpclient.Field{
		httpclient.Text("mascota_id", in.MascotaID),
		httpclient.Text("objetivo", in.Objetivo),
	}
	if len(in.Alergias) > 0 {
		b, err := json.Marshal(in.Alergias)
		if err != nil {
			return Solicitud{}, err
		}
		fields = append(fields, httpclient.Text("alergias", string(b)))
	}
	if len(in.Condiciones) > 0 {
		b, err := json.Marshal(in.Condiciones)
		if err != nil {
			return Solicitud{}, err
		}
		fields = append(fields, httpclient.Text("condiciones_salud", string(b)))
	}
	if len(in.Preferencias) > 0 {
		b, err := json.Marshal(in.Preferencias)
		if err != nil {
			return Solicitud{}, err
		}
		fields = append(fields, httpclient.Text("preferencias", string(b)))
	}
	if !in.RecetaMedica.IsZero() {
		fields = append(fields, httpclient.FileField("receta_medica", in.RecetaMedica))
	}
	if !in.ArchivoAdicional.IsZero() {
		fields = append(fields, httpclient.FileField("archivo_adicional", in.ArchivoAdicional))
	}

	var out Solicitud
	path := "/cliente/solicitud-especializada/" + url.PathEscape(in.ClienteID)
	if err := w.api.DoForm(ctx, http.MethodPost, path, fields, &out); err != nil {
		return Solicitud{}, err
	}
	return out, nil
}

// MisSolicitudes lista las solicitudes del cliente.
func (w *Workflow) MisSolicitudes(ctx context.Context, clienteID string) ([]Solicitud, error) {
	var out []Solicitud
	err := w.api.DoJSON(ctx, http.MethodGet, "/cliente/solicitudes/"+url.PathEscape(clienteID), nil, &out)
	return out, err
}

// Pendientes es la bandeja del nutricionista.
func (w *Workflow) Pendientes(ctx context.Context) ([]Solicitud, error) {
	var resp struct {
		Total       int         `json:"total"`
		Solicitudes []Solicitud `json:"solicitudes"`
	}
	err := w.api.DoJSON(ctx, http.MethodGet, "/nutricionista/pedidos/pendientes", nil, &resp)
	return resp.Solicitudes, err
}

type DetalleSolicitud struct {
	Solicitud Solicitud      `json:"solicitud"`
	Mascota   map[string]any `json:"mascota"`
	Alergias  []Alergia      `json:"alergias"`
	Consulta  *Consulta      `json:"consulta"`
}

func (w *Workflow) Detalle(ctx context.Context, solicitudID string) (DetalleSolicitud, error) {
	var out DetalleSolicitud
	err := w.api.DoJSON(ctx, http.MethodGet, "/nutricionista/pedidos/"+url.PathEscape(solicitudID), nil, &out)
	return out, err
}

type ReviewInput struct {
	Diagnostico     string
	Recomendaciones string
	Observaciones   string
	Aprobar         bool
}

// Review cierra una solicitud. Los tres campos se exigen aquí: un form
// incompleto nunca llega al servidor.
func (w *Workflow) Review(ctx context.Context, solicitudID string, in ReviewInput) (Consulta, error) {
	if strings.TrimSpace(in.Diagnostico) == "" ||
		strings.TrimSpace(in.Recomendaciones) == "" ||
		strings.TrimSpace(in.Observaciones) == "" {
		return Consulta{}, ErrMissingReview
	}

	var out Consulta
	path := "/nutricionista/pedidos/" + url.PathEscape(solicitudID) + "/revisar"
	err := w.api.DoJSON(ctx, http.MethodPost, path, map[string]any{
		"diagnostico":     in.Diagnostico,
		"recomendaciones": in.Recomendaciones,
		"observaciones":   in.Observaciones,
		"aprobar":         in.Aprobar,
	}, &out)
	if err != nil {
		return Consulta{}, err
	}
	return out, nil
}

// Historial lista las consultas hechas por el nutricionista logueado.
func (w *Workflow) Historial(ctx context.Context) ([]Consulta, error) {
	var out []Consulta
	err := w.api.DoJSON(ctx, http.MethodGet, "/nutricionista/historial", nil, &out)
	return out, err
}

type PlatoPersonal struct {
	ID          string  `json:"id"`
	MascotaID   string  `json:"mascota_id"`
	PlatoID     string  `json:"plato_id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Total       float64 `json:"total"`
	Fecha       string  `json:"fecha"`
}

func (w *Workflow) PlatosPersonalizados(ctx context.Context, clienteID string) ([]PlatoPersonal, error) {
	var out []PlatoPersonal
	err := w.api.DoJSON(ctx, http.MethodGet, "/cliente/platos-personalizados/"+url.PathEscape(clienteID), nil, &out)
	return out, err
}
