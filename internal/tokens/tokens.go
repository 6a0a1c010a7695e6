package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arkdex/arkdex/backend/go-services/internal/config"
	"github.com/arkdex/arkdex/backend/go-services/pkg/middleware"
)

// GenerateAccessToken creates a signed JWT access token for an editor subject.
// Used to guard the write endpoints (upsert/delete/scrape) when no OIDC
// provider is configured.
func GenerateAccessToken(cfg *config.Config, subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// SecretVerifier verifies HS256 tokens minted by GenerateAccessToken.
// It satisfies the middleware.Verifier interface.
type SecretVerifier struct {
	secret []byte
}

func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: []byte(secret)}
}

type secretToken struct {
	claims jwt.MapClaims
}

func (t *secretToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = map[string]interface{}(t.claims)
		return nil
	}
	return fmt.Errorf("tokens: unsupported claims target %T", v)
}

func (s *SecretVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw,
		func(token *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("tokens: unexpected claims type")
	}
	return &secretToken{claims: claims}, nil
}
