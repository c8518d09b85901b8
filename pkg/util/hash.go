package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// EncodeSHA256 对字符串进行 SHA-256 编码
// 返回值: 64 位十六进制字符串
func EncodeSHA256(str string) string {
	sum := sha256.Sum256([]byte(str))
	return hex.EncodeToString(sum[:])
}
