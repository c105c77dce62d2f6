package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/tasker-api/internal/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns plaintext secrets into stored verifiers and checks
// secrets against them.
type PasswordHasher interface {
	// Hash returns a self-describing verifier for secret. Two calls with the
	// same secret return different verifiers.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches verifier. Malformed verifiers
	// never match.
	Verify(secret, verifier string) bool
}

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the parameters used when config leaves them unset.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2ParamsFromConfig builds parameters from the auth config, keeping
// defaults for anything unset.
func Argon2ParamsFromConfig(cfg config.AuthConfig) Argon2Params {
	p := DefaultArgon2Params()
	if cfg.Argon2MemoryKiB > 0 {
		p.Memory = cfg.Argon2MemoryKiB
	}
	if cfg.Argon2Iterations > 0 {
		p.Iterations = cfg.Argon2Iterations
	}
	if cfg.Argon2Parallelism > 0 {
		p.Parallelism = cfg.Argon2Parallelism
	}
	return p
}

var errMalformedVerifier = errors.New("malformed password verifier")

// Argon2Hasher hashes with argon2id and a random per-call salt.
// Verifiers are PHC strings: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
// Legacy bcrypt verifiers are still accepted by Verify.
type Argon2Hasher struct {
	params Argon2Params
}

// Ensure Argon2Hasher implements PasswordHasher
var _ PasswordHasher = (*Argon2Hasher)(nil)

// NewArgon2Hasher creates a hasher with the given parameters.
func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params}
}

// Hash implements PasswordHasher.
func (h *Argon2Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements PasswordHasher.
func (h *Argon2Hasher) Verify(secret, verifier string) bool {
	if isBcryptVerifier(verifier) {
		return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(secret)) == nil
	}

	params, salt, key, err := decodeArgon2Verifier(verifier)
	if err != nil {
		return false
	}

	other := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(key, other) == 1
}

func isBcryptVerifier(verifier string) bool {
	return strings.HasPrefix(verifier, "$2a$") ||
		strings.HasPrefix(verifier, "$2b$") ||
		strings.HasPrefix(verifier, "$2y$")
}

func decodeArgon2Verifier(verifier string) (Argon2Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(verifier, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, errMalformedVerifier
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, errMalformedVerifier
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, errMalformedVerifier
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return Argon2Params{}, nil, nil, errMalformedVerifier
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Argon2Params{}, nil, nil, errMalformedVerifier
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errMalformedVerifier
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	return p, salt, key, nil
}
