package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// bcrypt ignores bytes past 72.
const maxPasswordLength = 72

var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// HashPassword 使用 bcrypt 生成密码哈希。
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash 校验密码是否匹配哈希。
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// DummyPasswordHash 返回一个固定口令的哈希，用户不存在时仍执行一次比较，使耗时与密码错误一致。
func DummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte("hkexpatjobs-unused"), bcrypt.DefaultCost)
		if err == nil {
			dummyHash = string(b)
		}
	})
	return dummyHash
}
