package auth

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/todoapp/userapi/internal/common"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return c
}

func userClaims() *Claims {
	c := NewClaims()
	c.Set("id", "user-1")
	c.Set("name", "alice")
	c.Set("email", "a@x.com")
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	if _, err := NewCodec(nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestIssueDecode_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	tok, err := codec.Issue(userClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	decoded, err := codec.Decode(tok)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	for name, want := range map[string]string{"id": "user-1", "name": "alice", "email": "a@x.com"} {
		if got, ok := decoded.Get(name); !ok || got != want {
			t.Fatalf("claim %q: got %q want %q", name, got, want)
		}
	}
	for _, name := range []string{"exp", "iat"} {
		v, ok := decoded.Get(name)
		if !ok {
			t.Fatalf("missing %q claim", name)
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			t.Fatalf("%q claim is not epoch seconds: %q", name, v)
		}
	}
}

func TestIssue_DoesNotMutateInput(t *testing.T) {
	codec := newTestCodec(t)
	claims := userClaims()

	if _, err := codec.Issue(claims, time.Hour); err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, ok := claims.Get("exp"); ok {
		t.Fatalf("Issue added exp to the caller's claim set")
	}
}

func TestDecode_StripsBearerPrefix(t *testing.T) {
	codec := newTestCodec(t)

	tok, err := codec.Issue(userClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	for _, prefix := range []string{"bearer ", "Bearer ", "BEARER "} {
		decoded, err := codec.Decode(prefix + tok)
		if err != nil {
			t.Fatalf("Decode with prefix %q: %v", prefix, err)
		}
		if got, _ := decoded.Get("name"); got != "alice" {
			t.Fatalf("name claim: got %q", got)
		}
	}
}

func TestDecode_DoesNotVerifySignature(t *testing.T) {
	codec := newTestCodec(t)

	tok, err := codec.Issue(userClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Replace the signature segment entirely. Decode is inspection only and
	// must still return the claims.
	tampered := tok[:strings.LastIndex(tok, ".")+1] + "AAAA"
	decoded, err := codec.Decode(tampered)
	if err != nil {
		t.Fatalf("Decode of tampered token: %v", err)
	}
	if got, _ := decoded.Get("id"); got != "user-1" {
		t.Fatalf("id claim: got %q", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	codec := newTestCodec(t)

	for _, in := range []string{"not-a-token", "", "a.b", "bearer junk"} {
		if _, err := codec.Decode(in); !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("Decode(%q): want ErrMalformedToken, got %v", in, err)
		}
	}
}

func TestIsExpired_PastAndFuture(t *testing.T) {
	codec := newTestCodec(t)

	past, err := codec.Issue(userClaims(), -24*time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	expired, err := codec.IsExpired(past)
	if err != nil {
		t.Fatalf("IsExpired error: %v", err)
	}
	if !expired {
		t.Fatalf("token expiring yesterday must be expired")
	}

	future, err := codec.Issue(userClaims(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	expired, err = codec.IsExpired(future)
	if err != nil {
		t.Fatalf("IsExpired error: %v", err)
	}
	if expired {
		t.Fatalf("token expiring in 7 days must not be expired")
	}
}

func TestIsExpired_SameDayIsNotExpired(t *testing.T) {
	codec := newTestCodec(t)

	// Expiry on the current calendar day: the date-only policy keeps the
	// token valid until the day is over.
	tok, err := codec.Issue(userClaims(), 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	expired, err := codec.IsExpired(tok)
	if err != nil {
		t.Fatalf("IsExpired error: %v", err)
	}
	if expired {
		t.Fatalf("token expiring today must not count as expired")
	}
}

func TestIsExpired_MissingExpClaim(t *testing.T) {
	codec := newTestCodec(t)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "user-1"})
	tok, err := raw.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing fixture token: %v", err)
	}

	if _, err := codec.IsExpired(tok); !errors.Is(err, common.ErrMissingExpClaim) {
		t.Fatalf("want ErrMissingExpClaim, got %v", err)
	}
}

func TestIsExpired_Malformed(t *testing.T) {
	codec := newTestCodec(t)

	if _, err := codec.IsExpired("garbage"); !errors.Is(err, common.ErrMalformedToken) {
		t.Fatalf("want ErrMalformedToken, got %v", err)
	}
}
