package uploads_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pet-nutrition-platform/internal/platform/uploads"
)

// formFile arma un *multipart.FileHeader real parseando un request,
// igual que lo reciben los handlers.
func formFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestSaveImage(t *testing.T) {
	root := t.TempDir()
	store := uploads.NewStore(root)

	fh := formFile(t, "foto", "original.JPG", []byte("imagen"))
	rel, err := store.SaveImage("mascotas", "abc123", fh)
	if err != nil {
		t.Fatalf("save image: %v", err)
	}
	if rel != "static/uploads/mascotas/abc123.jpg" {
		t.Fatalf("unexpected relative path: %q", rel)
	}

	b, err := os.ReadFile(filepath.Join(root, "uploads", "mascotas", "abc123.jpg"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(b) != "imagen" {
		t.Fatalf("unexpected content: %q", b)
	}
}

func TestSaveImageRejectsBadExtension(t *testing.T) {
	store := uploads.NewStore(t.TempDir())

	fh := formFile(t, "foto", "documento.pdf", []byte("pdf"))
	if _, err := store.SaveImage("mascotas", "abc", fh); !errors.Is(err, uploads.ErrBadExtension) {
		t.Fatalf("expected ErrBadExtension, got %v", err)
	}
}

func TestSaveFileKeepsOriginalName(t *testing.T) {
	store := uploads.NewStore(t.TempDir())

	fh := formFile(t, "archivo", "examen de sangre.pdf", []byte("pdf"))
	rel, err := store.SaveFile("recetas", "receta", fh)
	if err != nil {
		t.Fatalf("save file: %v", err)
	}
	if rel != "static/uploads/recetas/receta_examen de sangre.pdf" {
		t.Fatalf("unexpected relative path: %q", rel)
	}
}

func TestNewStoreDefaultsRoot(t *testing.T) {
	if got := uploads.NewStore("  ").Root(); got != "static" {
		t.Fatalf("expected default root static, got %q", got)
	}
}
