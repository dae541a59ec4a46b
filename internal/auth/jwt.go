package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// SetSecret define a chave HMAC usada para assinar e validar tokens.
// Deve ser chamada uma vez na subida do servidor.
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

func secretAtual() []byte {
	if len(jwtSecret) == 0 {
		jwtSecret = []byte(os.Getenv("JWT_SECRET"))
	}
	return jwtSecret
}

// Claims carrega a identidade do usuário e o contexto do tenant.
// TenantID/TenantSlug vazios indicam token do painel master.
type Claims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	TenantID   string `json:"tenant_id,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// GerarToken gera um JWT com validade de 24h.
func GerarToken(userID, email, tenantID, tenantSlug, role string) (string, error) {
	claims := &Claims{
		UserID:     userID,
		Email:      email,
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretAtual())
}

// ValidarToken valida o token e retorna as claims.
func ValidarToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secretAtual(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("não foi possível extrair claims")
	}
	return claims, nil
}
