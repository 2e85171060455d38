package dto

import (
	"regexp"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	couponCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)
	slugPattern       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators 注册自定义校验规则（password / phone / couponcode / slug）
// 多次调用只注册一次
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		rules := map[string]validator.Func{
			"password":   validatePassword,
			"phone":      matchPattern(phonePattern),
			"couponcode": matchPattern(couponCodePattern),
			"slug":       matchPattern(slugPattern),
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// validatePassword 至少 8 位，包含大写、小写、数字和特殊字符
func validatePassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 || len(pw) > 72 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
