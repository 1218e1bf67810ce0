package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"golang.org/x/crypto/argon2"
)

// MinPasswordLength applies to owner, staff and superadmin credentials alike.
const MinPasswordLength = 8

var (
	ErrInvalidHash      = errors.New("invalid argon2id hash")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

var b64 = base64.RawStdEncoding

// digest is a parsed "$argon2id$v=19$m=..,t=..,p=..$salt$key" string.
type digest struct {
	memory  uint32
	passes  uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (d digest) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, d.memory, d.passes, d.threads, b64.EncodeToString(d.salt), b64.EncodeToString(d.key))
}

func (d digest) derive(password string) []byte {
	return argon2.IDKey([]byte(password), d.salt, d.passes, d.memory, d.threads, uint32(len(d.key)))
}

// HashPassword derives a fresh Argon2id digest. Config values are clamped to
// sane bounds so a typo in the environment cannot disable hashing.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	d := digest{
		memory:  uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		passes:  uint32(clamp(cfg.ArgonTime, 1, 10)),
		threads: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		salt:    make([]byte, clamp(cfg.ArgonSaltLen, 8, 64)),
		key:     make([]byte, clamp(cfg.ArgonKeyLen, 16, 64)),
	}
	if _, err := rand.Read(d.salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	d.key = d.derive(password)
	return d.String(), nil
}

// VerifyPassword reports whether password matches encoded. A malformed digest
// is an error, a mismatch is not.
func VerifyPassword(password, encoded string) (bool, error) {
	d, err := parseDigest(encoded)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(d.key, d.derive(password)) == 1, nil
}

func parseDigest(encoded string) (digest, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return digest{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return digest{}, ErrInvalidHash
	}

	var d digest
	if n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memory, &d.passes, &d.threads); err != nil || n != 3 {
		return digest{}, ErrInvalidHash
	}
	if d.memory == 0 || d.passes == 0 || d.threads == 0 {
		return digest{}, ErrInvalidHash
	}

	var err error
	if d.salt, err = b64.DecodeString(parts[4]); err != nil {
		return digest{}, ErrInvalidHash
	}
	if d.key, err = b64.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return digest{}, ErrInvalidHash
	}
	return d, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
