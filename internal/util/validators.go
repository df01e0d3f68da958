package util

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator 返回表单校验器，字段名取自 form 标签
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterValidation("notblank", ValidateNotBlank)
		validate.RegisterValidation("slug", ValidateSlug)
	})
	return validate
}

// ValidateNotBlank 去掉空白后不能为空
func ValidateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateSlug 只允许字母、数字、下划线和连字符
func ValidateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// ValidateForm 校验表单，返回字段名到错误信息的映射；校验通过时返回 nil
func ValidateForm(form interface{}) map[string]string {
	err := Validator().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"__all__": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "alphanumunicode", "slug":
		return "Enter a valid value."
	case "eqfield":
		return "The two password fields didn't match."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}
