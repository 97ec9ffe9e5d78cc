package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrBadExtension = errors.New("formato de archivo no permitido")
)

// Store guarda archivos subidos bajo <root>/uploads/<kind>/ y devuelve la
// ruta relativa que se persiste en las entidades y se sirve bajo /static.
type Store struct {
	root string // directorio static/ en disco
}

func NewStore(root string) *Store {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "static"
	}
	return &Store{root: root}
}

// Root expone el directorio servido bajo /static.
func (s *Store) Root() string { return s.root }

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// SaveImage guarda una imagen subida validando la extensión.
// name es el nombre destino sin extensión (se toma la del original).
func (s *Store) SaveImage(kind, name string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", ErrBadExtension
	}
	return s.save(kind, name+ext, fh)
}

// SaveFile guarda cualquier archivo adjunto conservando su nombre original
// con un prefijo (recetas médicas, exámenes, etc.).
func (s *Store) SaveFile(kind, prefix string, fh *multipart.FileHeader) (string, error) {
	base := filepath.Base(fh.Filename)
	return s.save(kind, fmt.Sprintf("%s_%s", prefix, base), fh)
}

func (s *Store) save(kind, name string, fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.root, "uploads", kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("uploads: mkdir %s: %w", dir, err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("uploads: open upload: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("uploads: create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("uploads: write %s: %w", dstPath, err)
	}

	// Ruta relativa estilo URL, independiente del OS.
	return path.Join("static", "uploads", kind, name), nil
}
