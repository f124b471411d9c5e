// Package session maps opaque cookie tokens to user IDs. Tokens are random,
// compared for equality only, and expire server-side through the keyValue
// store's TTL.
package session

import (
	"fmt"
	"strconv"
	"time"

	"circle-backend/internal/keyValue"

	"github.com/google/uuid"
)

const CookieName = "session"

type Store struct {
	lifetime time.Duration
}

func NewStore() *Store {
	return &Store{lifetime: 7 * 24 * time.Hour}
}

// Create issues a new session token for userID.
func (s *Store) Create(userID int64) (string, error) {
	token, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	err = keyValue.Set(key(token.String()), strconv.FormatInt(userID, 10), s.lifetime)
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// Lookup resolves a token to a user ID. The second return value is false when
// the token is unknown or expired.
func (s *Store) Lookup(token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}

	value, err := keyValue.Get(key(token))
	if err != nil {
		return 0, false, err
	}
	if value == "" {
		return 0, false, nil
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, err
	}

	return userID, true, nil
}

func (s *Store) Invalidate(token string) error {
	_, err := keyValue.GetDel(key(token))
	return err
}

func key(token string) string {
	return fmt.Sprintf("session:%s", token)
}
