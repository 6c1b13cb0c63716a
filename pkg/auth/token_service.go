package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feiyu23/spark-resume-ai/pkg/errx"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

// TokenService issues and validates tenant-scoped access tokens.
type TokenService interface {
	GenerateAccessToken(tenantID kernel.TenantID, extra map[string]any) (string, error)
	ValidateAccessToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the validated content of an access token.
type TokenClaims struct {
	TenantID  kernel.TenantID
	ExpiresAt time.Time
	Extra     map[string]any
}

// JWTTokenService implements TokenService with HMAC-signed JWTs.
type JWTTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

var _ TokenService = (*JWTTokenService)(nil)

func NewJWTTokenService(secret, issuer string, ttl time.Duration) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

func (s *JWTTokenService) GenerateAccessToken(tenantID kernel.TenantID, extra map[string]any) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": tenantID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errx.Wrap(err, "failed to sign access token", errx.TypeInternal)
	}
	return signed, nil
}

func (s *JWTTokenService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken().WithDetail("reason", err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken()
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, ErrInvalidToken().WithDetail("reason", "missing subject")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken().WithDetail("reason", "missing expiration")
	}

	extra := make(map[string]any)
	for k, v := range claims {
		switch k {
		case "iss", "sub", "iat", "exp":
		default:
			extra[k] = v
		}
	}

	return &TokenClaims{
		TenantID:  kernel.NewTenantID(sub),
		ExpiresAt: exp.Time,
		Extra:     extra,
	}, nil
}
