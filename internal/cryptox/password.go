// Package cryptox hashes and verifies account passwords.
//
// Hashes are encoded in the PHC string format used by other argon2
// implementations:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<base64 salt>$<base64 key>
//
// so the parameters travel with the hash and can be raised later without
// invalidating existing accounts.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aura/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// Params describes argon2id cost settings.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultParams are used for every new hash.
var DefaultParams = Params{Time: argonTime, Memory: argonMemory, Threads: argonThreads, KeyLen: argonKeyLen}

// DeriveKey runs argon2id over password and salt with p.
func DeriveKey(password, salt []byte, p Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// HashPassword returns an encoded argon2id hash of password with a fresh salt.
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltLen)
	return encode(DefaultParams, salt, DeriveKey(password, salt, DefaultParams))
}

// VerifyPassword reports whether password matches encoded. Both argon2id hashes
// and the legacy reversed-base64 encoding are understood.
func VerifyPassword(password []byte, encoded string) (bool, error) {
	if IsLegacyHash(encoded) {
		candidate := LegacyObfuscate(password)
		return subtle.ConstantTimeCompare([]byte(candidate), []byte(encoded)) == 1, nil
	}

	p, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}
	candidate := DeriveKey(password, salt, p)
	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

// NeedsRehash is true for legacy values and for hashes made with parameters
// other than DefaultParams.
func NeedsRehash(encoded string) bool {
	if IsLegacyHash(encoded) {
		return true
	}
	p, _, _, err := decode(encoded)
	return err != nil || p != DefaultParams
}

// IsLegacyHash reports whether encoded was produced by the pre-argon2 scheme.
func IsLegacyHash(encoded string) bool {
	return !strings.HasPrefix(encoded, "$argon2id$")
}

// LegacyObfuscate reproduces the old reversible credential encoding:
// standard base64 of the password, reversed. It exists only to verify
// accounts created before hashing was introduced.
func LegacyObfuscate(password []byte) string {
	b := []byte(base64.StdEncoding.EncodeToString(password))
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func encode(p Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func decode(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}
