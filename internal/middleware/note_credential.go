package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// NoteTokenHeader 笔记解锁令牌请求头
	NoteTokenHeader = "X-Note-Token"

	noteSecretKey = "note_secret"
	noteTokenKey  = "note_token"
)

// NoteCredential extracts the optional note password (Authorization: Bearer <password>)
// and unlock token (X-Note-Token) into the context. It never rejects a request.
// NoteCredential 提取笔记访问凭证
func NoteCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := c.GetHeader("Authorization"); s != "" {
			if secret, ok := cutBearer(s); ok {
				c.Set(noteSecretKey, secret)
			}
		}
		if s := strings.TrimSpace(c.GetHeader(NoteTokenHeader)); s != "" {
			c.Set(noteTokenKey, s)
		}
		c.Next()
	}
}

func cutBearer(s string) (string, bool) {
	const prefix = "bearer "
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	secret := s[len(prefix):]
	return secret, secret != ""
}

// GetNoteCredential 返回请求携带的密码与令牌
func GetNoteCredential(c *gin.Context) (secret string, token string) {
	return c.GetString(noteSecretKey), c.GetString(noteTokenKey)
}
