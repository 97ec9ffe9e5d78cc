package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStore persiste la sesión en disco: el token y el registro de
// usuario como dos archivos independientes (equivalente a las dos keys
// de localStorage del panel web).
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore usa dir como carpeta de sesión (se crea si no existe).
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("session: dir required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir resuelve el directorio de sesión del usuario actual.
func DefaultDir(app string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, app)
}

func (f *FileStore) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.WriteFile(filepath.Join(f.dir, tokenFile), []byte(s.Token), 0o600); err != nil {
		return err
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.dir, userFile), b, 0o600)
}

func (f *FileStore) Load() (Session, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tok, err := os.ReadFile(filepath.Join(f.dir, tokenFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}

	s := Session{Token: strings.TrimSpace(string(tok))}

	// Registro de usuario corrupto o ausente no invalida el token.
	if b, err := os.ReadFile(filepath.Join(f.dir, userFile)); err == nil {
		_ = json.Unmarshal(b, &s)
	}

	return s, s.Token != "", nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Ambas keys se limpian siempre, exista lo que exista.
	err1 := os.Remove(filepath.Join(f.dir, tokenFile))
	err2 := os.Remove(filepath.Join(f.dir, userFile))
	if err1 != nil && !os.IsNotExist(err1) {
		return err1
	}
	if err2 != nil && !os.IsNotExist(err2) {
		return err2
	}
	return nil
}

func (f *FileStore) Token() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	b, err := os.ReadFile(filepath.Join(f.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
