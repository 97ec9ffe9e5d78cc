package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"pet-nutrition-platform/internal/platform/fileref"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20 // 1MB max por respuesta
)

// TokenSource entrega el bearer token vigente antes de cada request.
// Un token vacío no es error: la llamada sale sin Authorization y el
// servidor decide (las llamadas anónimas son válidas).
type TokenSource interface {
	Token() string
}

// TokenFunc adapta una función simple a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client envuelve *http.Client con los helpers que comparten todos los
// workflows: BaseURL, bearer token, body JSON o multipart, y errores
// normalizados. Nunca reintenta y nunca escribe en el session store.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Tokens  TokenSource // opcional
}

// New crea un Client contra baseURL con timeout razonable.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		HTTP: &http.Client{Timeout: timeout},
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" {
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return c, nil
}

// WithTokens asocia la fuente de tokens (normalmente el session store).
func (c *Client) WithTokens(ts TokenSource) *Client {
	c.Tokens = ts
	return c
}

// HTTPError representa una respuesta no-2xx.
// Detail viene del shape {"detail": "..."} que usa el backend.
type HTTPError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("http error: status=%d detail=%s", e.StatusCode, e.Detail)
	}
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Message devuelve el texto mostrable: detail del servidor si existe,
// fallback genérico si no.
func (e *HTTPError) Message(fallback string) string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return fallback
}

// IsStatus reporta si err es un *HTTPError con ese status.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == status
}

// Field es un par (name, value) de un form multipart. Si File no es zero,
// el campo viaja como archivo — salvo que sea un fileref remoto, en cuyo
// caso se manda la URL como texto y nunca se re-sube el contenido.
type Field struct {
	Name  string
	Value string
	File  fileref.Ref
}

// Text crea un campo de texto plano.
func Text(name, value string) Field {
	return Field{Name: name, Value: value}
}

// FileField crea un campo archivo a partir de un fileref.
func FileField(name string, ref fileref.Ref) Field {
	return Field{Name: name, File: ref}
}

// DoJSON hace un request con body JSON (o sin body si in == nil) y
// decodifica la respuesta en out (si out != nil). Retorna *HTTPError en
// status no-2xx.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// DoForm hace un request multipart/form-data. Los campos archivo locales
// se leen de disco; los remotos viajan como su URL en texto.
// Retorna *HTTPError en status no-2xx.
func (c *Client) DoForm(ctx context.Context, method, path string, fields []Field, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}

		switch {
		case f.File.IsLocal():
			fw, err := mw.CreateFormFile(name, f.File.Filename)
			if err != nil {
				return fmt.Errorf("httpclient: form file %s: %w", name, err)
			}
			src, err := os.Open(f.File.Path)
			if err != nil {
				return fmt.Errorf("httpclient: open %s: %w", f.File.Path, err)
			}
			_, err = io.Copy(fw, src)
			_ = src.Close()
			if err != nil {
				return fmt.Errorf("httpclient: copy %s: %w", f.File.Path, err)
			}
		case f.File.IsRemote():
			// Archivo ya subido: se referencia, no se re-sube.
			if err := mw.WriteField(name, f.File.URL); err != nil {
				return fmt.Errorf("httpclient: form field %s: %w", name, err)
			}
		default:
			if err := mw.WriteField(name, f.Value); err != nil {
				return fmt.Errorf("httpclient: form field %s: %w", name, err)
			}
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL, err := c.resolveURL(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	// Token fresco en cada llamada.
	if c.Tokens != nil {
		if t := strings.TrimSpace(c.Tokens.Token()); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := readAtMost(resp.Body, maxBodyBytes)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil {
			he.Detail = strings.TrimSpace(detail.Detail)
		}
		return he
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

// StaticURL une una ruta relativa de archivo (p.ej. static/uploads/x.png)
// con el BaseURL del API, que sirve también los estáticos.
func (c *Client) StaticURL(rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return c.BaseURL + rel
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = maxBodyBytes
	}
	return io.ReadAll(io.LimitReader(r, max))
}
