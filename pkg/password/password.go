// Package password implementa el esquema de credenciales heredado de las apps
// de escritorio: PBKDF2-HMAC-SHA256 con 100.000 iteraciones, salt hexadecimal
// de 16 bytes y comparación en tiempo constante. Los hashes existentes en las
// tablas usuarios/administradores siguen siendo válidos.
package password

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100_000
	keyLen     = 32 // sha256.Size
	saltBytes  = 16
)

// Hash deriva el hash de una contraseña con un salt nuevo.
// Devuelve (salt, hash) en hexadecimal, listos para persistir.
func Hash(password string) (salt, hash string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generar salt: %w", err)
	}
	salt = hex.EncodeToString(raw)
	return salt, derive(password, salt), nil
}

// HashWithSalt deriva el hash con un salt existente (verificación de credenciales).
func HashWithSalt(password, salt string) string {
	return derive(password, salt)
}

// Verify compara la contraseña contra el hash almacenado en tiempo constante.
func Verify(password, salt, storedHash string) bool {
	if salt == "" || storedHash == "" {
		return false
	}
	computed := derive(password, salt)
	return hmac.Equal([]byte(computed), []byte(storedHash))
}

// derive aplica PBKDF2 igual que hashlib.pbkdf2_hmac('sha256', pw, salt, 100_000):
// el salt participa como sus bytes ASCII hex, no decodificado.
func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, sha256.New)
	return hex.EncodeToString(key)
}
