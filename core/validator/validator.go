package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator 校验器接口
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error

	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error
}

// Validate 默认校验器，字段名取自 mapstructure 标签
var Validate = New()

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// ValidationErrors 一次校验产生的全部字段错误
type ValidationErrors []FieldError

// Error 以 "; " 拼接所有错误消息
func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

// validatorImpl 校验器实现
type validatorImpl struct {
	validator *validator.Validate
	trans     ut.Translator
}

// New 创建使用英文错误消息的校验器
func New() Validator {
	v := &validatorImpl{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}

	v.validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	if trans, found := uni.GetTranslator("en"); found {
		v.trans = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}

	return v
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.StructCtx(ctx, s))
}

// translate 将 validator 错误转换为 ValidationErrors
func (v *validatorImpl) translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	result := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Error()
		if v.trans != nil {
			msg = fe.Translate(v.trans)
		}
		result = append(result, FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: msg,
		})
	}
	return result
}
