package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a new random identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// Generator returns ids, falling back to prefix-free UUID strings if the
// random source fails. It satisfies the func() string id hooks used by the
// combat domain.
func Generator() func() string {
	return func() string {
		value, err := NewID()
		if err != nil {
			return uuid.NewString()
		}
		return value
	}
}
