// Package cipher шифрует персональные данные гостей (паспорт, телефон,
// пожелания) перед записью в базу.
//
// Формат шифртекста: base64(nonce[12] || ciphertext || tag), AES-256-GCM.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const nonceSize = 12

// ErrKeySize ключ должен быть ровно 32 байта.
var ErrKeySize = errors.New("encryption key must be 32 bytes")

// ErrMalformed шифртекст повреждён или зашифрован другим ключом.
var ErrMalformed = errors.New("malformed ciphertext")

// Box шифрует и расшифровывает строки одним ключом.
type Box struct {
	aead cipher.AEAD
}

// New создаёт Box по 32-байтному ключу.
func New(key string) (*Box, error) {
	const op = "cipher.New"
	if len(key) != 32 {
		return nil, fmt.Errorf("%s: %w", op, ErrKeySize)
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Box{aead: aead}, nil
}

// Encrypt возвращает шифртекст в base64. Пустая строка остаётся пустой.
func (b *Box) Encrypt(plain string) (string, error) {
	const op = "cipher.Encrypt"
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, nonceSize, nonceSize+len(plain)+b.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt расшифровывает строку, полученную из Encrypt.
func (b *Box) Decrypt(encoded string) (string, error) {
	const op = "cipher.Decrypt"
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrMalformed)
	}
	if len(raw) < nonceSize+b.aead.Overhead() {
		return "", fmt.Errorf("%s: %w", op, ErrMalformed)
	}
	plain, err := b.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrMalformed)
	}
	return string(plain), nil
}
