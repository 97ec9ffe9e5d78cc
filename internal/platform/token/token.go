package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token inválido")
)

const (
	// DefaultTTL replica la duración histórica de la sesión (12h).
	DefaultTTL = 12 * time.Hour

	signingAlg = "HS256"
)

// Claims es lo que viaja dentro del JWT: identidad + rol.
type Claims struct {
	UserID string
	RoleID int
}

// Manager emite y valida los tokens HS256 del backend.
// Payload: {"user_id": "...", "rol_id": n, "exp": ...}
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate emite un token firmado para el usuario y su rol.
func (m *Manager) Generate(userID string, roleID int) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("token: userID required")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"rol_id":  roleID,
		"exp":     m.now().Add(m.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.GetSigningMethod(signingAlg), claims)
	return t.SignedString(m.secret)
}

// Verify valida firma y expiración y devuelve los claims.
func (m *Manager) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrTokenInvalid
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != signingAlg {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	userID, _ := mc["user_id"].(string)
	if strings.TrimSpace(userID) == "" {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{
		UserID: userID,
		RoleID: intClaim(mc["rol_id"]),
	}, nil
}

// intClaim tolera que rol_id llegue como número JSON (float64) o string.
func intClaim(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}
