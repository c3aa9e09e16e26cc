package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256Hasher_Digest(t *testing.T) {
	h := NewSHA256Hasher("")

	assert.Len(t, h.Digest("pw1"), DigestLength)
	assert.Equal(t, h.Digest("pw1"), h.Digest("pw1"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", h.Digest(""))
	assert.NotEqual(t, h.Digest("pw1"), h.Digest("pw2"))
}

func TestSHA256Hasher_SaltChangesDigest(t *testing.T) {
	assert.NotEqual(t, NewSHA256Hasher("a").Digest("pw"), NewSHA256Hasher("b").Digest("pw"))
}

func TestArgon2Hasher_Digest(t *testing.T) {
	h := NewArgon2Hasher("", KDFParams{Time: 1, MemKiB: 1024, Par: 1})

	d := h.Digest("pw1")
	assert.Len(t, d, DigestLength)
	assert.Equal(t, d, h.Digest("pw1"))
	assert.NotEqual(t, d, h.Digest("pw2"))
}

func TestVerifyPassword(t *testing.T) {
	hashers := map[string]PasswordHasher{
		"sha256":   NewSHA256Hasher("pepper"),
		"argon2id": NewArgon2Hasher("pepper", KDFParams{Time: 1, MemKiB: 1024, Par: 1}),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			stored := h.Digest("secret")
			assert.True(t, verifyPassword(h, stored, "secret"))
			assert.False(t, verifyPassword(h, stored, "Secret"))
			assert.False(t, verifyPassword(h, "", "secret"))
		})
	}
}
