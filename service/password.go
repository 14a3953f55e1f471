package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLen     = 32
	saltLen          = 16
)

// HashPassword 生成随机盐并返回 (hash, salt)，均为 hex
func HashPassword(password string) (hash string, salt string, err error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(b)
	return derive(password, salt), salt, nil
}

// VerifyPassword 常量时间比较
func VerifyPassword(password, hash, salt string) bool {
	got := derive(password, salt)
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(hash)) == 1
}

// 盐解码为原始字节后参与运算
func derive(password, salt string) string {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return ""
	}
	key := pbkdf2.Key([]byte(password), saltBytes, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}
