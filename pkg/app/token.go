package app

import (
	"fmt"
	"time"

	"github.com/haierkeys/microdoc-service/pkg/util"

	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "microdoc-service"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey   string           `yaml:"secret-key"`   // JWT 签名密钥
	Expiry      time.Duration    `yaml:"expiry"`       // Token 过期时间，默认 24 小时
	Issuer      string           `yaml:"issuer"`       // Token 签发者
	BindMachine bool             `yaml:"bind-machine"` // 密钥是否绑定机器 ID（多实例部署需关闭）
	Now         func() time.Time `yaml:"-"`
}

// TokenManager issues unlock tokens for password protected notes
// TokenManager 笔记解锁令牌管理接口
type TokenManager interface {
	Generate(slug, fingerprint string) (string, time.Time, error)
	Parse(token string) (*NoteClaims, error)
}

// NoteClaims binds a token to one note and to the digest it was issued against.
// NoteClaims 令牌声明，绑定笔记地址与密码摘要指纹
type NoteClaims struct {
	Slug        string `json:"slug"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &tokenManager{config: cfg}
}

func (t *tokenManager) key() []byte {
	if t.config.BindMachine {
		return []byte(t.config.SecretKey + "_" + util.GetMachineID())
	}
	return []byte(t.config.SecretKey)
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(slug, fingerprint string) (string, time.Time, error) {
	now := t.config.Now()
	expiresAt := now.Add(t.config.Expiry)
	claims := &NoteClaims{
		Slug:        slug,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "note-unlock",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key())
	return signed, expiresAt, err
}

// Parse 解析 JWT Token 并返回声明
func (t *tokenManager) Parse(token string) (*NoteClaims, error) {
	claims := &NoteClaims{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.key(), nil
	}, jwt.WithTimeFunc(t.config.Now), jwt.WithIssuer(t.config.Issuer))

	if err != nil {
		return nil, err
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
