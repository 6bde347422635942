package code

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone_DoesNotLeakIntoTemplate(t *testing.T) {
	c := ErrorUpdateInstall.Clone().WithData("x").WithDetails("backend", "", "frontend")

	assert.Equal(t, []string{"backend", "frontend"}, c.Details())
	assert.True(t, c.HaveData())
	assert.False(t, ErrorUpdateInstall.HaveDetails())
	assert.Nil(t, ErrorUpdateInstall.Data())
	assert.Equal(t, http.StatusOK, c.StatusCode())
	assert.False(t, c.Status())
}

func TestDuplicateCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewError(ErrorUpdatePull.Code(), lang{en: "dup"})
	})
}

func TestMessageLanguage(t *testing.T) {
	defer SetGlobalDefaultLang(FALLBACK_LNG)

	assert.NoError(t, SetGlobalDefaultLang("zh_cn"))
	assert.Equal(t, "源码同步失败", ErrorUpdatePull.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, FALLBACK_LNG, GetGlobalDefaultLang())
	assert.Equal(t, "Source synchronization failed", ErrorUpdatePull.Error())

	// 英文缺失时不会回退到空字符串
	assert.Equal(t, "only en", lang{en: "only en"}.GetMessage())
}
