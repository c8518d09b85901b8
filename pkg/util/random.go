package util

import (
	"crypto/rand"
	"math/big"
)

const (
	charsetAlnum      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	charsetLowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GetRandomString 生成指定长度的随机字符串（大小写字母与数字）
func GetRandomString(length int) string {
	return randomFrom(charsetAlnum, length)
}

// GetRandomLowerString 生成指定长度的小写字母与数字随机串，可直接用于 URL
func GetRandomLowerString(length int) string {
	return randomFrom(charsetLowerAlnum, length)
}

func randomFrom(charset string, length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 在受支持的平台上不会失败
			panic(err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}
