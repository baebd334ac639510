package token

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/beka-birhanu/vinom-nav/service/i"
)

var (
	ErrEmptySecret       = errors.New("jwt secret is empty")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidIssuer     = errors.New("token issued by another party")
	ErrUnexpectedSigning = errors.New("unexpected signing method")
)

// JwtService issues and verifies HS256 tokens for run operators.
type JwtService struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

var _ i.Tokenizer = (*JwtService)(nil)

// NewJwtService creates a JWT service signing with secretKey. Tokens carry
// issuer and are rejected when they name another one.
func NewJwtService(secretKey, issuer string) (*JwtService, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &JwtService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// Generate creates a JWT for the given claims that expires after ttl.
// Registered claims set here win over the caller's.
func (s *JwtService) Generate(claims map[string]any, ttl time.Duration) (string, error) {
	jwtClaims := jwt.MapClaims{}
	for key, val := range claims {
		jwtClaims[key] = val
	}
	issuedAt := s.now().UTC()
	jwtClaims["iat"] = issuedAt.Unix()
	jwtClaims["exp"] = issuedAt.Add(ttl).Unix()
	jwtClaims["iss"] = s.issuer

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString(s.secretKey)
}

// Decode parses and validates a JWT, returning the claims if valid.
func (s *JwtService) Decode(tokenString string) (map[string]any, error) {
	token, err := jwt.Parse(tokenString, s.signingKey)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrInvalidIssuer
	}
	return claims, nil
}

func (s *JwtService) signingKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrUnexpectedSigning
	}
	return s.secretKey, nil
}
