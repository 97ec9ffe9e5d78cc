package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pet-nutrition-platform/internal/platform/token"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Verifier valida un bearer token. Lo implementa token.Manager.
type Verifier interface {
	Verify(raw string) (token.Claims, error)
}

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: X-Debug-User-ID (+ X-Debug-Rol-ID) setea claims.
// - Si no hay claims, el request sigue igual; cada handler decide si exige auth.
func AuthContext(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					rol, _ := strconv.Atoi(r.Header.Get("X-Debug-Rol-ID"))
					claims := token.Claims{UserID: uid, RoleID: rol}
					next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				// Token inválido o expirado: el request sigue anónimo y el
				// handler responde 401 si el endpoint lo exige.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func withClaims(ctx context.Context, c token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (token.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return token.Claims{}, false
	}
	c, ok := v.(token.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
