// Package accnum generates the 12-character numeric account numbers that
// serve as the business key for accounts.
//
// Format: the holder's date of birth as YYYYMMDD followed by 4 random
// decimal digits, e.g. 199001015678. The birthdate prefix keeps the
// collision space small enough that a couple of random retries always
// suffice in practice. Generation still terminates under pathological
// collision rates: after randomAttempts misses the generator sweeps the
// whole suffix space from a random offset, so it fails only when every
// suffix for that birthdate is already taken.
package accnum

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Length of every generated account number.
const Length = 12

const (
	suffixDigits   = 4
	suffixSpace    = 10000 // 10^suffixDigits
	randomAttempts = 25
)

// ErrExhausted means all 10000 suffixes for the birthdate are assigned.
var ErrExhausted = errors.New("accnum: no free account number for date of birth")

// ExistsFunc reports whether an account number is already assigned.
// Errors abort generation.
type ExistsFunc func(accountNumber string) (bool, error)

// Generator mints unique account numbers against an existing set.
type Generator struct {
	exists ExistsFunc
}

func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// Generate returns a fresh account number for the given date of birth.
// The result always has Length characters and starts with the birthdate
// as YYYYMMDD.
func (g *Generator) Generate(dateOfBirth time.Time) (string, error) {
	prefix := dateOfBirth.Format("20060102")

	for attempt := 0; attempt < randomAttempts; attempt++ {
		n, err := randomSuffix()
		if err != nil {
			return "", fmt.Errorf("accnum: draw suffix: %w", err)
		}
		candidate := fmt.Sprintf("%s%0*d", prefix, suffixDigits, n)

		taken, err := g.exists(candidate)
		if err != nil {
			return "", fmt.Errorf("accnum: check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	// Random draws keep colliding; walk every suffix once so generation
	// terminates even when the space is nearly full.
	start, err := randomSuffix()
	if err != nil {
		return "", fmt.Errorf("accnum: draw sweep offset: %w", err)
	}
	for i := 0; i < suffixSpace; i++ {
		candidate := fmt.Sprintf("%s%0*d", prefix, suffixDigits, (start+i)%suffixSpace)

		taken, err := g.exists(candidate)
		if err != nil {
			return "", fmt.Errorf("accnum: check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

func randomSuffix() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(suffixSpace))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
