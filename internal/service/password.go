package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// DigestLength is the length of every password digest, in hex characters.
const DigestLength = 64

const defaultArgonSalt = "qaforum"

// PasswordHasher turns a password into a fixed-length hex digest.
type PasswordHasher interface {
	Digest(password string) string
}

// KDFParams contains argon2id cost parameters.
type KDFParams struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// SHA256Hasher digests salt+password with SHA-256.
type SHA256Hasher struct {
	salt string
}

func NewSHA256Hasher(salt string) *SHA256Hasher {
	return &SHA256Hasher{salt: salt}
}

func (h *SHA256Hasher) Digest(password string) string {
	sum := sha256.Sum256([]byte(h.salt + password))
	return hex.EncodeToString(sum[:])
}

// Argon2Hasher digests passwords with argon2id and a server-wide salt.
type Argon2Hasher struct {
	salt []byte
	kdf  KDFParams
}

func NewArgon2Hasher(salt string, kdf KDFParams) *Argon2Hasher {
	if salt == "" {
		salt = defaultArgonSalt
	}
	return &Argon2Hasher{salt: []byte(salt), kdf: kdf}
}

func (h *Argon2Hasher) Digest(password string) string {
	key := argon2.IDKey([]byte(password), h.salt, h.kdf.Time, h.kdf.MemKiB, h.kdf.Par, DigestLength/2)
	return hex.EncodeToString(key)
}

// verifyPassword compares the digest of password with stored in constant time.
func verifyPassword(h PasswordHasher, stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(h.Digest(password))) == 1
}
