package crypt

import (
	"crypto/sha256"
	"golang.org/x/crypto/hkdf"
	"io"
)

// DeriveKey expands the configured secret into an independent key per purpose,
// so the cookie signer and the CSRF encryptor never share key material.
func DeriveKey(secret string, info string, size int) []byte {
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, size)
	if _, err := io.ReadFull(reader, key); err != nil {
		panic(err.Error())
	}
	return key
}
