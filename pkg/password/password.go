// Package password hashes and verifies credential digests. Digests carry their
// algorithm in the prefix, so verification keeps working for stored digests after
// the configured algorithm changes.
package password

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// ErrUnknownDigest is returned when a stored digest matches no supported algorithm.
var ErrUnknownDigest = errors.New("password: unknown digest format")

// Hasher produces and checks password digests.
type Hasher struct {
	algorithm  string
	bcryptCost int
	params     *argon2id.Params

	// dummies holds one never-matching digest per algorithm. seen is the
	// algorithm of the last stored digest Verify recognised.
	dummies map[string]string
	seen    atomic.Value
}

// New builds a Hasher for the given algorithm. A bcrypt cost of zero selects bcrypt.DefaultCost.
func New(algorithm string, bcryptCost int) (*Hasher, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password: bcrypt cost %d out of range", bcryptCost)
	}

	h := &Hasher{algorithm: strings.ToLower(algorithm), bcryptCost: bcryptCost, params: argon2id.DefaultParams}
	switch h.algorithm {
	case "", AlgorithmBcrypt:
		h.algorithm = AlgorithmBcrypt
	case AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("password: unsupported algorithm %q", algorithm)
	}

	h.dummies = make(map[string]string, 2)
	for _, alg := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		dummy, err := h.hashWith(alg, randomSecret())
		if err != nil {
			return nil, err
		}
		h.dummies[alg] = dummy
	}
	h.seen.Store(h.algorithm)
	return h, nil
}

// Algorithm returns the algorithm used for new digests.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash returns a digest of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	return h.hashWith(h.algorithm, secret)
}

func (h *Hasher) hashWith(algorithm, secret string) (string, error) {
	if algorithm == AlgorithmArgon2id {
		digest, err := argon2id.CreateHash(secret, h.params)
		if err != nil {
			return "", fmt.Errorf("argon2id hash: %w", err)
		}
		return digest, nil
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest. A mismatch is not an error.
func (h *Hasher) Verify(secret, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		h.seen.Store(AlgorithmArgon2id)
		ok, err := argon2id.ComparePasswordAndHash(secret, digest)
		if err != nil {
			return false, fmt.Errorf("argon2id verify: %w", err)
		}
		return ok, nil
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		h.seen.Store(AlgorithmBcrypt)
		err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("bcrypt verify: %w", err)
		}
		return true, nil
	default:
		return false, ErrUnknownDigest
	}
}

// DummyVerify spends the same work as a real verification against a digest that never matches.
// Callers use it when no stored digest exists so response timing does not reveal that.
// The decoy uses the algorithm of the most recently verified stored digest, so
// deployments still holding digests of a previous algorithm keep matching timing.
func (h *Hasher) DummyVerify(secret string) {
	_, _ = h.Verify(secret, h.dummies[h.dummyAlgorithm()])
}

func (h *Hasher) dummyAlgorithm() string {
	if alg, ok := h.seen.Load().(string); ok && alg != "" {
		return alg
	}
	return h.algorithm
}

func randomSecret() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return base64.RawStdEncoding.EncodeToString(buf)
}
