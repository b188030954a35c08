package paytm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Paytm checksum 方案：salt 拼入摘要后整体 AES-128-CBC 加密。
// iv 是网关约定的固定值。
const checksumIV = "@@@@&&&&####$$$$"

const saltLength = 4

// GenerateSignature 对载荷生成 checksum。
// key 为 16 字节商户密钥。
func GenerateSignature(payload, key string) (string, error) {
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return signWithSalt(payload, key, salt)
}

// VerifyParams 校验回调表单参数的 checksum。
// 网关按 key 字典序取参数值，以 | 连接作为签名载荷（CHECKSUMHASH 本身不参与）。
func VerifyParams(params map[string]string, key, checksum string) bool {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "CHECKSUMHASH" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, params[k])
	}

	return VerifySignature(strings.Join(values, "|"), key, checksum)
}

// VerifySignature 校验回调带回的 checksum。
func VerifySignature(payload, key, checksum string) bool {
	decrypted, err := decryptChecksum(checksum, key)
	if err != nil {
		return false
	}

	if len(decrypted) < saltLength {
		return false
	}
	salt := decrypted[len(decrypted)-saltLength:]

	expected, err := signWithSalt(payload, key, string(salt))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(checksum)) == 1
}

func signWithSalt(payload, key, salt string) (string, error) {
	digest := sha256.Sum256([]byte(payload + "|" + salt))
	plaintext := hex.EncodeToString(digest[:]) + salt

	encrypted, err := encryptAESCBC([]byte(plaintext), []byte(key))
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(encrypted), nil
}

func decryptChecksum(checksum, key string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(checksum)
	if err != nil {
		return nil, fmt.Errorf("failed to decode checksum: %w", err)
	}

	return decryptAESCBC(ciphertext, []byte(key))
}

func encryptAESCBC(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(block, []byte(checksumIV))
	mode.CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

func decryptAESCBC(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("invalid ciphertext length")
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, []byte(checksumIV))
	mode.CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

// 去除 pkcs7 填充
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("data is empty")
	}

	padding := int(data[len(data)-1])
	if padding > len(data) || padding == 0 {
		return nil, errors.New("invalid padding")
	}

	for i := len(data) - padding; i < len(data); i++ {
		if data[i] != byte(padding) {
			return nil, errors.New("invalid padding")
		}
	}

	return data[:len(data)-padding], nil
}

const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func randomSalt(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = saltAlphabet[int(buf[i])%len(saltAlphabet)]
	}
	return string(buf), nil
}
