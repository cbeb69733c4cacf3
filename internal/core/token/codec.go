// Package token
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type InvalidReason int

const (
	ReasonEmpty InvalidReason = iota + 1
	ReasonMalformed
	ReasonSignatureMismatch
	ReasonExpired
	ReasonUnsupported
)

func (r InvalidReason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonMalformed:
		return "malformed"
	case ReasonSignatureMismatch:
		return "signature mismatch"
	case ReasonExpired:
		return "expired"
	case ReasonUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Result is the outcome of Validate. Reason is zero when the token verified,
// in which case Subject carries the principal's email.
type Result struct {
	Subject string
	Reason  InvalidReason
}

func (r Result) Valid() bool {
	return r.Reason == 0
}

// Codec signs and verifies bearer tokens with a shared HMAC secret. The clock
// is injected so expiry checks are deterministic in tests.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewCodec(secret []byte, lifetime time.Duration, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}

	return &Codec{
		secret:   secret,
		lifetime: lifetime,
		now:      now,
	}
}

func (c *Codec) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token: empty subject")
	}

	issuedAt := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.lifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Validate never fails with an error: every parse or verification problem is
// folded into the returned Result.
func (c *Codec) Validate(raw string) Result {
	if raw == "" {
		return Result{Reason: ReasonEmpty}
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, c.keyFunc,
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Result{Reason: classify(err)}
	}

	return Result{Subject: claims.Subject}
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return c.secret, nil
}

func classify(err error) InvalidReason {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	default:
		return ReasonMalformed
	}
}
