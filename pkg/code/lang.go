package code

import (
	"errors"
	"reflect"
	"strings"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

// Default language is English // 默认语言为英文
var lng = "en"

const FALLBACK_LNG = "en"

// GetMessage method returns the message in the global default language
// GetMessage 方法返回全局默认语言的消息
func (l lang) GetMessage() string {
	return l.GetMessageIn(lng)
}

// GetMessageIn returns the message for the given language, then the fallback language
// GetMessageIn 根据传入的语言返回相应的消息，无效时回退
func (l lang) GetMessageIn(language string) string {
	language = NormalizeLang(language)
	if language == "" {
		language = lng
	}
	val := reflect.ValueOf(l)
	field := val.FieldByName(language)
	// If the language field is valid and not empty, return the message in that language
	// 如果语言字段有效且非空，返回该语言的消息
	if field.IsValid() && field.String() != "" {
		return field.String()
	}
	return val.FieldByName(FALLBACK_LNG).String()
}

// NormalizeLang maps "zh-CN" style tags onto field names like "zh_cn".
func NormalizeLang(language string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
}

// GetSupportedLanguages function returns all languages supported by the lang type
// GetSupportedLanguages 函数返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// IsSupportedLang 判断语言是否受支持
func IsSupportedLang(language string) bool {
	language = NormalizeLang(language)
	for _, l := range GetSupportedLanguages() {
		if l == language {
			return true
		}
	}
	return false
}

// SetGlobalDefaultLang sets the global default language, called once at startup
// 设置全局默认语言，仅在启动时调用
func SetGlobalDefaultLang(language string) error {
	if IsSupportedLang(language) {
		lng = NormalizeLang(language)
		return nil
	}
	lng = FALLBACK_LNG
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global default language
// 获取全局默认语言
func GetGlobalDefaultLang() string {
	return lng
}
