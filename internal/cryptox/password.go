// Package cryptox implements one-way password hashing for stored accounts.
//
// Hashes are Argon2id keys encoded as PHC strings:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// The salt and cost parameters travel inside the string, so a stored hash can
// be verified without any external salt storage, and hashes produced with
// older parameters keep verifying after the defaults change.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Params are the Argon2id cost parameters.
type Params struct {
	Memory     uint32 // KiB
	Time       uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

// DefaultParams are one pass over 64 MiB with four lanes.
var DefaultParams = Params{
	Memory:     64 * 1024,
	Time:       1,
	Threads:    4,
	SaltLength: 16,
	KeyLength:  32,
}

// costFactor bounds how far the parameters of a stored hash may exceed the
// hasher's own before Verify refuses to run it.
const costFactor = 4

var ErrEmptyPassword = errors.New("password cannot be empty")

// Argon2Hasher hashes and verifies passwords. It holds no mutable state and
// is safe for concurrent use.
type Argon2Hasher struct {
	params Params
	rand   io.Reader
}

// NewArgon2Hasher returns a hasher using p. Zero fields fall back to
// DefaultParams.
func NewArgon2Hasher(p Params) *Argon2Hasher {
	if p.Memory == 0 {
		p.Memory = DefaultParams.Memory
	}
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	if p.SaltLength == 0 {
		p.SaltLength = DefaultParams.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = DefaultParams.KeyLength
	}
	return &Argon2Hasher{params: p, rand: rand.Reader}
}

// Hash derives an Argon2id key from password under a fresh random salt and
// returns it in PHC format. Two calls with the same password never return
// the same string.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash. A malformed hash, or
// one whose cost exceeds costFactor times the hasher's parameters, is a
// mismatch, not an error.
func (h *Argon2Hasher) Verify(encodedHash, password string) bool {
	p, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}
	if !h.withinBounds(p) {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLength)

	return subtle.ConstantTimeCompare(candidate, key) == 1
}

func (h *Argon2Hasher) withinBounds(p Params) bool {
	return uint64(p.Memory) <= costFactor*uint64(h.params.Memory) &&
		uint64(p.Time) <= costFactor*uint64(h.params.Time) &&
		uint64(p.Threads) <= costFactor*uint64(h.params.Threads) &&
		uint64(p.SaltLength) <= costFactor*uint64(h.params.SaltLength) &&
		uint64(p.KeyLength) <= costFactor*uint64(h.params.KeyLength)
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != algorithmID {
		return p, nil, nil, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported version %d", version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &threads); err != nil {
		return p, nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if p.Memory == 0 || p.Time == 0 || threads == 0 || threads > 255 {
		return p, nil, nil, errors.New("parameters out of range")
	}
	p.Threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errors.New("invalid salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errors.New("invalid key")
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
