package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"gopkg.in/go-playground/validator.v9"
	"io"
)

const csrfKeyInfo = "scoregate csrf token"

// Encryptor seals short facts (session ids) into hex tokens with AES-GCM.
type Encryptor struct {
	Gcm cipher.AEAD `validate:"required"`
}

var validate = validator.New()

func NewEncryptor(secret string) *Encryptor {
	if secret == "" {
		panic("Secret is required to create Encryptor")
	}
	block, err := aes.NewCipher(DeriveKey(secret, csrfKeyInfo, 32))
	if err != nil {
		panic(err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		panic(err.Error())
	}

	encryptor := &Encryptor{
		Gcm: gcm,
	}
	if err := validate.Struct(encryptor); err != nil {
		panic(err.Error())
	}
	return encryptor
}

func (encryptor *Encryptor) EncryptFact(fact string) (string, error) {
	nonce := make([]byte, encryptor.Gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	encryptedText := encryptor.Gcm.Seal(nonce, nonce, []byte(fact), nil)
	return hex.EncodeToString(encryptedText), nil
}

func (encryptor *Encryptor) DecryptFact(encryptedFact string) (string, error) {
	encryptedBytes, err := hex.DecodeString(encryptedFact)
	if err != nil {
		return "", err
	}
	nonceSize := encryptor.Gcm.NonceSize()
	if len(encryptedBytes) < nonceSize {
		return "", errors.New("encrypted fact is too short")
	}
	nonce, ciphertext := encryptedBytes[:nonceSize], encryptedBytes[nonceSize:]
	plaintext, err := encryptor.Gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
