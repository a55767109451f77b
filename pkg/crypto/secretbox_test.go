package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuplus/warehouses-api/pkg/crypto"
)

// Clave de 32 bytes en hex, solo para tests.
const testMasterKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSecretBox_CifraYDescifra(t *testing.T) {
	box, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)

	enc, err := box.Encrypt("contraseña-super-secreta")
	require.NoError(t, err)
	assert.NotContains(t, enc, "secreta", "el ciphertext no debe contener el texto plano")

	plain, err := box.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "contraseña-super-secreta", plain)
}

// El nonce es aleatorio: cifrar dos veces el mismo texto da ciphertexts distintos.
func TestSecretBox_NonceAleatorio(t *testing.T) {
	box, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)

	enc1, err := box.Encrypt("mismo-texto")
	require.NoError(t, err)
	enc2, err := box.Encrypt("mismo-texto")
	require.NoError(t, err)

	assert.NotEqual(t, enc1, enc2)
}

func TestSecretBox_ClaveInvalida(t *testing.T) {
	_, err := crypto.NewSecretBox("no-es-hex")
	assert.Error(t, err)

	_, err = crypto.NewSecretBox("abcd") // 2 bytes, no 32
	assert.Error(t, err)
}

// GCM autentica: un ciphertext alterado no descifra.
func TestSecretBox_CiphertextAlterado(t *testing.T) {
	box, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)

	enc, err := box.Encrypt("secreto")
	require.NoError(t, err)

	last := enc[len(enc)-1]
	flip := "0"
	if last == '0' {
		flip = "1"
	}
	tampered := enc[:len(enc)-1] + flip

	_, err = box.Decrypt(tampered)
	assert.Error(t, err)
}

func TestSecretBox_CiphertextTruncado(t *testing.T) {
	box, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)

	_, err = box.Decrypt("abcd")
	assert.Error(t, err)
}

// Descifrar con otra clave debe fallar.
func TestSecretBox_ClaveDistinta(t *testing.T) {
	box1, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)
	box2, err := crypto.NewSecretBox(strings.Repeat("ff", 32))
	require.NoError(t, err)

	enc, err := box1.Encrypt("secreto")
	require.NoError(t, err)

	_, err = box2.Decrypt(enc)
	assert.Error(t, err)
}

func TestRandomPassword_LongitudYUnicidad(t *testing.T) {
	p1, err := crypto.RandomPassword(16)
	require.NoError(t, err)
	p2, err := crypto.RandomPassword(16)
	require.NoError(t, err)

	assert.Len(t, p1, 32, "16 bytes codificados en hex son 32 caracteres")
	assert.NotEqual(t, p1, p2)
}
