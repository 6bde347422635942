package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
)

// ValidError single field validation error // 单个字段校验错误
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString joins all messages for the Details field of a response
// ErrorsToString 拼接所有错误信息，用于响应的 Details 字段
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// ValidatorInterface gin binding validator that exposes its engine
// ValidatorInterface 暴露底层引擎的 gin 校验器
type ValidatorInterface interface {
	ValidateStruct(obj any) error
	Engine() any
}

// BindAndValid binds request parameters and validates them
// BindAndValid 绑定请求参数并校验
// Messages are translated with the translator placed in the context by the lang middleware
// 使用 lang 中间件放入 context 的翻译器翻译错误信息
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(validatorV10.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	var trans ut.Translator
	if t, exist := c.Get("trans"); exist {
		trans, _ = t.(ut.Translator)
	}

	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}

	return false, errs
}
