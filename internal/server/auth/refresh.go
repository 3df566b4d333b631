package auth

import (
	"fmt"
	"time"

	"github.com/todoapp/userapi/internal/common"
)

// refreshTokenSize is the number of random bytes in a refresh token.
const refreshTokenSize = 64

// RefreshToken is an opaque rotating session secret. It has no structure to
// decode; the orchestrator compares it for equality against the stored value.
type RefreshToken struct {
	Token   string
	Created time.Time
	Expires time.Time
}

// NewRefreshToken generates a fresh high-entropy refresh token valid from
// now until now+validity.
func NewRefreshToken(validity time.Duration) (*RefreshToken, error) {
	token, err := common.MakeRandBase64String(refreshTokenSize)
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	now := time.Now()
	return &RefreshToken{
		Token:   token,
		Created: now,
		Expires: now.Add(validity),
	}, nil
}
