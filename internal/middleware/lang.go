package middleware

import (
	"github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言只写入当前请求，不修改全局默认语言
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = code.NormalizeLang(lang)
		if !code.IsSupportedLang(lang) {
			lang = code.GetGlobalDefaultLang()
		}
		c.Set(app.LangKey, lang)

		if uni != nil {
			// 翻译器按语言主标签注册，如 zh_cn -> zh
			tag := lang
			if len(tag) > 2 {
				tag = tag[:2]
			}
			trans, found := uni.GetTranslator(tag)
			if !found {
				trans, _ = uni.GetTranslator("en")
			}
			c.Set("trans", trans)
		}

		c.Next()
	}
}
