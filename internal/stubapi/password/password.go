// Package password implements the Argon2id credential hashing used by the
// development server's email/password accounts.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params are the Argon2id cost settings baked into new hashes. Verify
// reads the costs back out of the encoded string, so stored hashes
// survive a settings change.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultParams is the RFC 9106 low-memory profile, plenty for a
// development server.
func DefaultParams() Params {
	return Params{
		Time:    3,
		Memory:  32 * 1024,
		Threads: 2,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// Hash encodes password as a self-describing Argon2id string using the
// default cost settings.
func Hash(password string) (string, error) {
	return HashWith(DefaultParams(), password)
}

// HashWith encodes password with explicit cost settings.
func HashWith(p Params, password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.Memory, p.Time, p.Threads, saltB64, hashB64), nil
}

// Verify reports whether password matches the encoded hash, recomputing
// with whatever costs the hash was minted under.
func Verify(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return false
	}

	p, ok := parseParams(parts[3])
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	check := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, check) == 1
}

// parseParams reads the "m=..,t=..,p=.." segment of an encoded hash.
func parseParams(raw string) (Params, bool) {
	fields := strings.Split(raw, ",")
	if len(fields) != 3 {
		return Params{}, false
	}

	m, mok := strings.CutPrefix(fields[0], "m=")
	t, tok := strings.CutPrefix(fields[1], "t=")
	p, pok := strings.CutPrefix(fields[2], "p=")
	if !mok || !tok || !pok {
		return Params{}, false
	}

	m64, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return Params{}, false
	}
	t64, err := strconv.ParseUint(t, 10, 32)
	if err != nil {
		return Params{}, false
	}
	p64, err := strconv.ParseUint(p, 10, 8)
	if err != nil {
		return Params{}, false
	}
	return Params{
		Memory:  uint32(m64),
		Time:    uint32(t64),
		Threads: uint8(p64),
	}, true
}
