// Package tokens генерация непрозрачных токенов для self-service ссылок
package tokens

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes длина токена в байтах до hex-кодирования
// 32 байта дают 256 бит энтропии - подбор токена невозможен
const tokenBytes = 32

// Generate возвращает криптографически стойкий токен в hex-кодировке
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tokens: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Generator реализация генератора токенов поверх crypto/rand
// Отдельный тип нужен, чтобы подставлять детерминированный генератор в тестах
type Generator struct{}

// Generate возвращает новый токен
func (Generator) Generate() (string, error) {
	return Generate()
}
