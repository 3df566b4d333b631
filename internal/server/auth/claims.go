// Package auth implements the security core of the user API: password
// hashing and verification, the signed-token codec, and refresh token
// generation. It holds no mutable state beyond the signing secret, so all
// types here are safe for concurrent use.
package auth

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is an insertion-ordered mapping of claim name to string value.
// Tokens carry loosely typed claim sets, so arbitrary names round-trip
// without a schema change; scalar JSON values are stringified on decode.
type Claims struct {
	names  []string
	values map[string]string
}

func NewClaims() *Claims {
	return &Claims{values: make(map[string]string)}
}

// Set adds or replaces a claim. A new name is appended at the end of the
// iteration order; replacing keeps the original position.
func (c *Claims) Set(name, value string) {
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = value
}

// Get returns the value for name and whether it is present.
func (c *Claims) Get(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the claim names in insertion order.
func (c *Claims) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Claims) Len() int {
	return len(c.names)
}

// Clone returns an independent copy preserving iteration order.
func (c *Claims) Clone() *Claims {
	out := NewClaims()
	for _, name := range c.names {
		out.Set(name, c.values[name])
	}
	return out
}

// Map returns the claims as a plain map, losing order. Convenient for
// JSON responses.
func (c *Claims) Map() map[string]string {
	out := make(map[string]string, len(c.names))
	for name, v := range c.values {
		out[name] = v
	}
	return out
}

// exp, iat and nbf must be encoded as epoch-second numbers to stay a valid
// JWT payload; every other claim is written as a string.
func isNumericClaim(name string) bool {
	return name == "exp" || name == "iat" || name == "nbf"
}

func (c *Claims) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value := c.values[name]
		if isNumericClaim(name) {
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				buf.WriteString(strconv.FormatInt(n, 10))
				continue
			}
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	c.names = nil
	c.values = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return &json.UnmarshalTypeError{Value: "non-string key", Type: nil}
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		c.Set(name, stringifyValue(raw))
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// stringifyValue renders a raw JSON value as the string form carried in a
// claim set: strings unquoted, numbers and booleans as literals, null as
// empty, composites as their compact JSON text.
func stringifyValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// The jwt.Claims interface is implemented so a *Claims can be passed
// straight to the golang-jwt signer and parser.

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.numericDate("exp") }
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.numericDate("iat") }
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error)      { return c.numericDate("nbf") }

func (c *Claims) GetIssuer() (string, error) {
	v, _ := c.Get("iss")
	return v, nil
}

func (c *Claims) GetSubject() (string, error) {
	v, _ := c.Get("sub")
	return v, nil
}

func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	if v, ok := c.Get("aud"); ok {
		return jwt.ClaimStrings{v}, nil
	}
	return nil, nil
}

func (c *Claims) numericDate(name string) (*jwt.NumericDate, error) {
	v, ok := c.Get(name)
	if !ok {
		return nil, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return jwt.NewNumericDate(time.Unix(int64(secs), 0)), nil
}
