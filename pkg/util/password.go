package util

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost bcrypt 默认成本
const DefaultPasswordCost = 10

// GeneratePasswordHash generates a salted bcrypt hash of a password
// GeneratePasswordHash 生成密码的bcrypt哈希值
// cost <= 0 uses DefaultPasswordCost // cost 小于等于 0 时使用默认成本
func GeneratePasswordHash(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultPasswordCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash verifies whether password matches the hash
// CheckPasswordHash 验证密码与哈希值是否匹配
// hash: stored hash value // 存储的哈希值
// password: password to be verified // 待验证的密码
func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
