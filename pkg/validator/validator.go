// Package validator gin 请求参数校验器，基于 go-playground/validator/v10 并附带中英文翻译
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator implements gin's binding.StructValidator
// CustomValidator 实现 gin 的 binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	validate *validatorV10.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 校验结构体，指针与切片会被展开
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// Engine 返回底层的 *validator.Validate
func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validatorV10.New()
		v.validate.SetTagName("binding")

		// 错误信息中使用 json 字段名
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// NewTranslator registers en and zh messages on validate
// NewTranslator 为 validate 注册中英文错误信息，返回 UniversalTranslator
func NewTranslator(validate *validatorV10.Validate) (*ut.UniversalTranslator, error) {
	uni := ut.New(en.New(), en.New(), zh.New())

	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	return uni, nil
}
