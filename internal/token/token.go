// Package token implements single-use, time-limited opaque tokens shared by
// the invitation and password reset flows. A token is live until it expires or
// is redeemed; redemption is atomic so that concurrent attempts on the same
// value produce exactly one winner.
package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Purpose tags what flow a token belongs to.
type Purpose string

const (
	PurposeInvite Purpose = "INVITE"
	PurposeReset  Purpose = "RESET"
)

var (
	// ErrNotFound marks a token that is absent or already consumed.
	ErrNotFound = errors.New("ephemeral token not found")
	// ErrExpired marks a token past its expiry; the record is purged on access.
	ErrExpired = errors.New("ephemeral token expired")
)

// Record is the persisted shape of an ephemeral token.
type Record struct {
	Value      string    `json:"value"`
	Purpose    Purpose   `json:"purpose"`
	SubjectRef string    `json:"subject_ref"` // invited email, or user id for resets
	ProjectID  string    `json:"project_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Live reports whether the record is redeemable at the given instant.
func (r *Record) Live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// Store persists ephemeral tokens. Redeem must be atomic: look up and
// invalidate in one indivisible step.
type Store interface {
	// Create generates an unguessable value, persists the record as live and
	// returns it for out-of-band delivery.
	Create(ctx context.Context, purpose Purpose, subjectRef, projectID string, ttl time.Duration) (*Record, error)
	// Redeem consumes the token. Exactly one of any number of concurrent
	// calls on the same value succeeds; the rest get ErrNotFound or ErrExpired.
	Redeem(ctx context.Context, value string) (*Record, error)
	// Peek validates without consuming. A successful Peek does not guarantee a
	// later Redeem will succeed.
	Peek(ctx context.Context, value string) (*Record, error)
}

// Purger is optionally implemented by stores that support bulk cleanup of
// expired records. Correctness never depends on it; Redeem and Peek re-check
// expiry on every access.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

const valueBytes = 32 // 256 bits of entropy

// NewValue generates a cryptographically random opaque token value.
func NewValue() (string, error) {
	b := make([]byte, valueBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
