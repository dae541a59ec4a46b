package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/crmaster/api-crm/internal/tenant"
)

type ctxKey string

const (
	CtxUserID ctxKey = "usuarioID"
	CtxTenant ctxKey = "tenant"
	CtxRole   ctxKey = "role"
)

// MiddlewareAutenticacao valida o Bearer token e injeta as claims no
// contexto da requisição.
func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxRole, claims.Role)
		ctx = context.WithValue(ctx, CtxTenant, tenant.Context{ID: claims.TenantID, Slug: claims.TenantSlug})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTenant exige que o token carregue contexto de tenant.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := r.Context().Value(CtxTenant).(tenant.Context)
		if !ok || tc.ID == "" {
			http.Error(w, "Contexto de tenant ausente", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireMaster restringe a rota a tokens do painel master.
func RequireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(CtxRole).(string)
		if role != "master" {
			http.Error(w, "Forbidden (master only)", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TenantDoContexto extrai o contexto de tenant da requisição.
func TenantDoContexto(r *http.Request) tenant.Context {
	tc, _ := r.Context().Value(CtxTenant).(tenant.Context)
	return tc
}
