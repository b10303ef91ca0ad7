package token

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Reserved claims are always set by the codec and cannot be overridden.
const (
	ClaimSubject   = "sub"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimID        = "jti"
)

var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Codec signs and verifies HMAC JWT bearer tokens
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures a Codec
type Option func(*Codec)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec creates a codec for the given secret and algorithm.
// Both are required; there is no default algorithm.
func NewCodec(secret, algorithm string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	c := &Codec{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// Algorithm returns the configured signing algorithm name
func (c *Codec) Algorithm() string {
	return c.method.Alg()
}

// Issue creates a signed token for subject that expires after ttl
func (c *Codec) Issue(
	subject string,
	extraClaims map[string]any,
	ttl time.Duration,
) (*Result, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrTokenGeneration)
	}

	issuedAt := time.Unix(c.now().Unix(), 0)
	expiresAt := time.Unix(issuedAt.Add(ttl).Unix(), 0)

	claims := jwt.MapClaims{}
	maps.Copy(claims, extraClaims)
	claims[ClaimSubject] = subject
	claims[ClaimIssuedAt] = issuedAt.Unix()
	claims[ClaimExpiresAt] = expiresAt.Unix()
	claims[ClaimID] = uuid.New().String()

	tokenString, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &Result{
		TokenString: tokenString,
		TokenType:   TokenTypeBearer,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
		Claims:      claims,
	}, nil
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns the full claim set.
func (c *Codec) Verify(tokenString string) (*ValidationResult, error) {
	claims := jwt.MapClaims{}
	tok, err := c.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	result := &ValidationResult{
		Subject: subject,
		Claims:  claims,
	}
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		result.IssuedAt = iat.Time
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		result.ExpiresAt = exp.Time
	}
	return result, nil
}
