package code

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// lang holds the English and Chinese text of one message
// lang 保存一条消息的英文与中文文本
type lang struct {
	en    string
	zh_cn string
}

const FALLBACK_LNG = "en"

var supported = []string{"en", "zh_cn"}

var current atomic.Value

func init() {
	current.Store(FALLBACK_LNG)
}

// GetMessage returns the text in the active language, falling back to English
// GetMessage 返回当前语言的文本，缺失时回退为英文
func (l lang) GetMessage() string {
	if GetGlobalDefaultLang() == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages lists the language keys accepted by SetGlobalDefaultLang
func GetSupportedLanguages() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// SetGlobalDefaultLang switches the message language; unknown values reset to English
// SetGlobalDefaultLang 切换消息语言；未知语言会重置为英文并返回错误
func SetGlobalDefaultLang(language string) error {
	for _, l := range supported {
		if l == language {
			current.Store(l)
			return nil
		}
	}
	current.Store(FALLBACK_LNG)
	if language == "" {
		return nil
	}
	return errors.Errorf("unsupported language %q, using %s", language, FALLBACK_LNG)
}

func GetGlobalDefaultLang() string {
	return current.Load().(string)
}
