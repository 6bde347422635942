package middleware

import (
	"strings"

	"github.com/haierkeys/start-page-service/pkg/code"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

// LangWithTranslator picks the request language from ?lang=, the lang header or Accept-Language
// LangWithTranslator 依次从 ?lang=、lang 请求头、Accept-Language 中选择请求语言
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	fallback, _ := uni.GetTranslator("en")

	return func(c *gin.Context) {
		lang := requestLang(c)

		base, _, _ := strings.Cut(lang, "_")
		if trans, found := uni.GetTranslator(lang); found {
			c.Set("trans", trans)
		} else if trans, found := uni.GetTranslator(base); found {
			c.Set("trans", trans)
		} else {
			c.Set("trans", fallback)
		}

		if base == "zh" {
			lang = "zh_cn"
		}
		_ = code.SetGlobalDefaultLang(lang)

		c.Next()
	}
}

// requestLang normalizes "zh-CN" to "zh_cn"
func requestLang(c *gin.Context) string {
	lang := c.Query("lang")
	if lang == "" {
		lang = c.GetHeader("lang")
	}
	if lang == "" {
		// Accept-Language: zh-CN,zh;q=0.9,en;q=0.8
		lang, _, _ = strings.Cut(c.GetHeader("Accept-Language"), ",")
		lang, _, _ = strings.Cut(lang, ";")
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "-", "_"))
}
