package service

import (
	"strings"
	"unicode"

	goaway "github.com/TwiN/go-away"
)

// ContentPolicy 内容审核能力
type ContentPolicy interface {
	IsOffensive(text string) bool
}

// inflections 允许跟在敏感词之后的词尾
var inflections = map[string]bool{
	"s": true, "es": true, "ed": true, "er": true, "ers": true, "in": true, "ing": true, "ings": true,
	"y": true, "ie": true, "ies": true, "ty": true, "head": true, "heads": true, "hole": true,
	"holes": true, "face": true, "bag": true, "bags": true, "wit": true, "wits": true,
}

// compoundPrefixes 允许出现在敏感词之前的前缀
var compoundPrefixes = map[string]bool{
	"bull": true, "mother": true, "dumb": true, "horse": true, "chicken": true,
	"dip": true, "jack": true, "smart": true, "holy": true,
}

type profanityPolicy struct {
	detector *goaway.ProfanityDetector
}

// NewContentPolicy builds the profanity detector. extraWords are added to the default dictionary,
// allowWords are never reported.
// NewContentPolicy 创建内容审核，extraWords 为额外敏感词，allowWords 为白名单
func NewContentPolicy(extraWords, allowWords []string) ContentPolicy {
	profanities := append([]string{}, goaway.DefaultProfanities...)
	profanities = appendWords(profanities, extraWords)

	falsePositives := append([]string{}, goaway.DefaultFalsePositives...)
	falsePositives = appendWords(falsePositives, allowWords)

	detector := goaway.NewProfanityDetector().
		WithCustomDictionary(profanities, falsePositives, goaway.DefaultFalseNegatives)
	return &profanityPolicy{detector: detector}
}

func appendWords(dst, words []string) []string {
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			dst = append(dst, w)
		}
	}
	return dst
}

// IsOffensive checks word by word; a dictionary entry hidden inside an ordinary word
// ("parse", "Essex", "assessment") does not count.
func (p *profanityPolicy) IsOffensive(text string) bool {
	for _, word := range strings.FieldsFunc(text, isWordBreak) {
		if p.offensiveWord(word) {
			return true
		}
	}
	return false
}

func isWordBreak(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '/', '\\', '[', ']', '{', '}', ':', ';', '=', ',', '\'', '"':
		return true
	}
	return false
}

// offensiveWord 判断单个词：敏感词需占据整个词，只允许常见词尾与复合前缀
func (p *profanityPolicy) offensiveWord(word string) bool {
	word = strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	if word == "" || !p.detector.IsProfane(word) {
		return false
	}

	in := []rune(word)
	out := []rune(p.detector.Censor(word))
	if len(in) != len(out) {
		return true
	}

	// 被遮盖的字符记为 '*'，其余保留字母数字
	var core strings.Builder
	for i, r := range in {
		switch {
		case out[i] == '*' && r != '*':
			core.WriteRune('*')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			core.WriteRune(unicode.ToLower(r))
		}
	}

	s := core.String()
	first := strings.IndexRune(s, '*')
	if first < 0 {
		return false
	}
	if first > 0 && !compoundPrefixes[s[:first]] {
		return false
	}
	rest := strings.TrimLeft(s[first:], "*")
	return rest == "" || inflections[rest]
}
