package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/haierkeys/microdoc-service/internal/domain"
	"github.com/haierkeys/microdoc-service/pkg/code"
	"github.com/haierkeys/microdoc-service/pkg/util"
)

const (
	slugRandomLength = 8
	slugSuffixLength = 4
)

// SlugAllocator 笔记地址分配接口
type SlugAllocator interface {
	// Allocate returns a slug no note occupied at the time of the check.
	// An empty or unusable proposal starts from a random identifier.
	Allocate(ctx context.Context, proposed string) (string, error)
}

type slugAllocator struct {
	repo   domain.NoteRepository
	config SlugServiceConfig
	random func(n int) string
}

// NewSlugAllocator 创建地址分配器
func NewSlugAllocator(repo domain.NoteRepository, config *ServiceConfig) SlugAllocator {
	return &slugAllocator{
		repo:   repo,
		config: config.withDefaults().Slug,
		random: util.GetRandomLowerString,
	}
}

// NormalizeSlug lowercases proposed, turns whitespace runs into one hyphen,
// drops everything outside [a-z0-9-] and truncates to maxLength.
// A result without any letter or digit is returned as "".
// NormalizeSlug 规范化地址
func NormalizeSlug(proposed string, maxLength int) string {
	var b strings.Builder
	inSpace := false

	for _, r := range strings.ToLower(strings.TrimSpace(proposed)) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false

		switch {
		case isSlugAlnum(r), r == '-':
			b.WriteRune(r)
		}
	}

	s := b.String()
	if maxLength > 0 && len(s) > maxLength {
		s = s[:maxLength]
	}
	if !strings.ContainsFunc(s, isSlugAlnum) {
		return ""
	}
	return s
}

func isSlugAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}

// Allocate 分配地址
func (a *slugAllocator) Allocate(ctx context.Context, proposed string) (string, error) {
	if base := NormalizeSlug(proposed, a.config.MaxLength); base != "" {
		for i := 0; i < a.config.Attempts; i++ {
			candidate := base
			if i > 0 {
				candidate = base + "-" + a.random(slugSuffixLength)
			}
			ok, err := a.free(ctx, candidate)
			if err != nil {
				return "", err
			}
			if ok {
				return candidate, nil
			}
		}
	}

	// 随机地址空间足够大，默认不设上限
	for i := 0; a.config.FallbackMaxAttempts <= 0 || i < a.config.FallbackMaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := a.random(slugRandomLength)
		ok, err := a.free(ctx, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}

	return "", code.ErrorSlugExhausted
}

func (a *slugAllocator) free(ctx context.Context, candidate string) (bool, error) {
	taken, err := a.repo.ExistsSlug(ctx, candidate)
	if err != nil {
		return false, err
	}
	return !taken, nil
}
