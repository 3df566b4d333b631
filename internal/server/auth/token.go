package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/todoapp/userapi/internal/common"
)

const bearerPrefix = "bearer "

// Codec signs and decodes compact claim tokens (JWT, HS256). The signing
// secret is passed in once at construction; the codec itself is stateless.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given symmetric secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Codec{secret: s}, nil
}

// Issue signs the claim set plus fresh exp (now+ttl) and iat claims, both in
// epoch seconds. The caller's claim set is not modified.
func (c *Codec) Issue(claims *Claims, ttl time.Duration) (string, error) {
	now := time.Now()

	cs := claims.Clone()
	cs.Set("exp", strconv.FormatInt(now.Add(ttl).Unix(), 10))
	cs.Set("iat", strconv.FormatInt(now.Unix(), 10))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cs)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Decode strips an optional case-insensitive "bearer " prefix and returns
// the token's claims WITHOUT verifying the signature or expiry. It is an
// inspection tool only; trusting the result is the caller's decision.
// Unparseable input yields common.ErrMalformedToken.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	raw := stripBearer(tokenString)

	claims := NewClaims()
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedToken, err)
	}
	return claims, nil
}

// IsExpired reports whether the token's expiry day is strictly before the
// current day, in local time. The comparison is date-only: a token stays
// accepted for the remainder of its expiry day. Tokens without an exp claim
// yield common.ErrMissingExpClaim.
func (c *Codec) IsExpired(tokenString string) (bool, error) {
	claims, err := c.Decode(tokenString)
	if err != nil {
		return false, err
	}

	v, ok := claims.Get("exp")
	if !ok {
		return false, common.ErrMissingExpClaim
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: exp claim %q is not an integer", common.ErrMalformedToken, v)
	}

	ey, em, ed := time.Unix(secs, 0).Local().Date()
	ny, nm, nd := time.Now().Date()
	expDay := time.Date(ey, em, ed, 0, 0, 0, 0, time.Local)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.Local)

	return expDay.Before(today), nil
}

func stripBearer(s string) string {
	if len(s) >= len(bearerPrefix) && strings.EqualFold(s[:len(bearerPrefix)], bearerPrefix) {
		return s[len(bearerPrefix):]
	}
	return s
}
