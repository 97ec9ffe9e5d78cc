package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pet-nutrition-platform/internal/platform/fileref"
	"pet-nutrition-platform/internal/platform/httpclient"
)

func newClient(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(baseURL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestDoJSONAttachesBearer(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL).WithTokens(httpclient.TokenFunc(func() string { return "tok-abc" }))

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, &out); err != nil {
		t.Fatalf("do json: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if !out.OK {
		t.Fatalf("expected decoded response")
	}
}

func TestDoJSONNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL).WithTokens(httpclient.TokenFunc(func() string { return "  " }))
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
		t.Fatalf("do json: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDoJSONErrorDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"El pedido ya tiene un pago registrado."}`))
	}))
	defer ts.Close()

	err := newClient(t, ts.URL).DoJSON(context.Background(), http.MethodPost, "/x", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !httpclient.IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected IsStatus 409, got %v", err)
	}

	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if he.Detail != "El pedido ya tiene un pago registrado." {
		t.Fatalf("unexpected detail: %q", he.Detail)
	}
	if he.Message("fallback") != he.Detail {
		t.Fatalf("Message should prefer detail")
	}
}

func TestDoJSONErrorWithoutDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	err := newClient(t, ts.URL).DoJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if he.Message("fallback") != "fallback" {
		t.Fatalf("Message should fall back without detail, got %q", he.Message("fallback"))
	}
}

func TestDoFormLocalFileUploads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comprobante.jpg")
	if err := os.WriteFile(path, []byte("contenido-imagen"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	var gotFilename, gotContent, gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotMethod = r.FormValue("pasarela_pago_id")
		f, fh, err := r.FormFile("comprobante")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotFilename = fh.Filename
		gotContent = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	fields := []httpclient.Field{
		httpclient.Text("pasarela_pago_id", "yape-1"),
		httpclient.FileField("comprobante", fileref.Local(path, "", "image/jpeg")),
	}
	if err := newClient(t, ts.URL).DoForm(context.Background(), http.MethodPost, "/pagar", fields, nil); err != nil {
		t.Fatalf("do form: %v", err)
	}
	if gotMethod != "yape-1" {
		t.Fatalf("expected text field, got %q", gotMethod)
	}
	if gotFilename != "comprobante.jpg" {
		t.Fatalf("expected filename from path, got %q", gotFilename)
	}
	if gotContent != "contenido-imagen" {
		t.Fatalf("expected file content uploaded, got %q", gotContent)
	}
}

func TestDoFormRemoteRefTravelsAsText(t *testing.T) {
	var gotValue string
	var hadFile bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotValue = r.FormValue("receta_medica")
		if _, _, err := r.FormFile("receta_medica"); err == nil {
			hadFile = true
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	fields := []httpclient.Field{
		httpclient.FileField("receta_medica", fileref.Remote("static/uploads/recetas/receta-1.pdf")),
	}
	if err := newClient(t, ts.URL).DoForm(context.Background(), http.MethodPost, "/solicitud", fields, nil); err != nil {
		t.Fatalf("do form: %v", err)
	}
	if gotValue != "static/uploads/recetas/receta-1.pdf" {
		t.Fatalf("expected URL as text field, got %q", gotValue)
	}
	if hadFile {
		t.Fatalf("remote ref must never re-upload content")
	}
}

func TestStaticURL(t *testing.T) {
	c := newClient(t, "http://api.test")

	if got := c.StaticURL("static/uploads/x.png"); got != "http://api.test/static/uploads/x.png" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := c.StaticURL("https://cdn.test/x.png"); got != "https://cdn.test/x.png" {
		t.Fatalf("absolute URL must pass through, got %q", got)
	}
	if got := c.StaticURL(""); got != "" {
		t.Fatalf("empty rel must stay empty, got %q", got)
	}
}

func TestRelativePathRequiresBaseURL(t *testing.T) {
	c, err := httpclient.New("", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil); err == nil {
		t.Fatalf("expected error for relative path without BaseURL")
	}
}
