package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// SecretBox cifra y descifra secretos cortos (contraseñas de DB de tenants)
// con AES-256-GCM. El nonce se antepone al ciphertext y todo se codifica en hex.
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox construye el cifrador a partir de la clave maestra en hex (32 bytes).
func NewSecretBox(masterKeyHex string) (*SecretBox, error) {
	key, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("secretbox: clave maestra no es hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("secretbox: la clave debe tener 32 bytes, tiene %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secretbox: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secretbox: %w", err)
	}
	return &SecretBox{aead: aead}, nil
}

// Encrypt cifra el texto plano y devuelve hex(nonce || ciphertext).
func (b *SecretBox) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt descifra hex(nonce || ciphertext) y devuelve el texto plano.
func (b *SecretBox) Decrypt(encoded string) (string, error) {
	sealed, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secretbox: ciphertext no es hex: %w", err)
	}
	ns := b.aead.NonceSize()
	if len(sealed) < ns {
		return "", fmt.Errorf("secretbox: ciphertext truncado")
	}
	plain, err := b.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("secretbox: %w", err)
	}
	return string(plain), nil
}

// RandomPassword genera una contraseña aleatoria de n bytes codificada en hex.
func RandomPassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("secretbox: random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
