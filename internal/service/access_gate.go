package service

import (
	"time"

	"github.com/haierkeys/microdoc-service/internal/domain"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"
	"github.com/haierkeys/microdoc-service/pkg/util"
)

// SecretHasher digests and verifies note passwords; plaintext is never stored or compared.
// SecretHasher 密码摘要能力
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(digest, secret string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher 创建 bcrypt 摘要器，cost <= 0 使用默认成本
func NewBcryptHasher(cost int) SecretHasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(secret string) (string, error) {
	return util.GeneratePasswordHash(secret, h.cost)
}

func (h *bcryptHasher) Verify(digest, secret string) bool {
	return util.CheckPasswordHash(digest, secret)
}

// Credential is what a caller presents for a protected note: the password, an unlock token, or both.
// Credential 访问凭证
type Credential struct {
	Secret string
	Token  string
}

// IsEmpty 是否未携带任何凭证
func (c Credential) IsEmpty() bool {
	return c.Secret == "" && c.Token == ""
}

// AccessGate 笔记访问控制
type AccessGate struct {
	hasher SecretHasher
	tokens pkgapp.TokenManager
}

// NewAccessGate creates the gate. tokens may be nil, in which case unlock tokens are rejected.
// NewAccessGate 创建访问控制
func NewAccessGate(hasher SecretHasher, tokens pkgapp.TokenManager) *AccessGate {
	return &AccessGate{hasher: hasher, tokens: tokens}
}

// IsProtected 笔记是否受密码保护
func (g *AccessGate) IsProtected(note *domain.Note) bool {
	return note.IsProtected()
}

// Authorize checks cred against note.
// Public notes accept anything. A valid unlock token suffices; otherwise the password is verified.
// Authorize 校验访问凭证
func (g *AccessGate) Authorize(note *domain.Note, cred Credential) error {
	if !note.IsProtected() {
		return nil
	}

	if cred.Token != "" {
		if g.tokenValid(note, cred.Token) {
			return nil
		}
		if cred.Secret == "" {
			return code.ErrorNoteTokenInvalid
		}
	}

	if cred.Secret == "" {
		return code.ErrorNotePasswordRequired
	}
	if !g.hasher.Verify(note.CredentialDigest, cred.Secret) {
		return code.ErrorNotePasswordInvalid
	}
	return nil
}

func (g *AccessGate) tokenValid(note *domain.Note, token string) bool {
	if g.tokens == nil {
		return false
	}
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return false
	}
	return claims.Slug == note.Slug && claims.Fingerprint == DigestFingerprint(note.CredentialDigest)
}

// Digest 生成密码摘要
func (g *AccessGate) Digest(secret string) (string, error) {
	digest, err := g.hasher.Hash(secret)
	if err != nil {
		return "", code.ErrorPasswordHash.WithDetails(err.Error())
	}
	return digest, nil
}

// Issue signs an unlock token for note, bound to its current digest.
// Issue 签发解锁令牌
func (g *AccessGate) Issue(note *domain.Note) (string, time.Time, error) {
	if g.tokens == nil {
		return "", time.Time{}, code.ErrorTokenGenerate
	}
	token, expiresAt, err := g.tokens.Generate(note.Slug, DigestFingerprint(note.CredentialDigest))
	if err != nil {
		return "", time.Time{}, code.ErrorTokenGenerate.WithDetails(err.Error())
	}
	return token, expiresAt, nil
}

// DigestFingerprint changes whenever the password does.
// DigestFingerprint 摘要指纹
func DigestFingerprint(digest string) string {
	return util.EncodeSHA256(digest)[:16]
}
