// Package validation 為 gin 的 binding 註冊自訂驗證規則，並將驗證錯誤轉為回應用的欄位錯誤。
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MinVehicleYear 可登記的最早出廠年份
const MinVehicleYear = 1900

var platePattern = regexp.MustCompile(`^[A-Z0-9\s]+$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// FieldError 單一欄位的驗證錯誤
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register 將自訂規則註冊到 gin 預設的 validator，重複呼叫只會註冊一次
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = configure(v)
	})
	return registerErr
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	rules := map[string]validator.Func{
		"plate":       validatePlate,
		"strongpwd":   validateStrongPassword,
		"vehicleyear": validateVehicleYear,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// fieldName 錯誤訊息使用 json / form 名稱而非 Go 欄位名稱
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validatePlate(fl validator.FieldLevel) bool {
	return platePattern.MatchString(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func validateVehicleYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinVehicleYear && year <= int64(MaxVehicleYear())
}

// MaxVehicleYear 可登記的最晚出廠年份（明年）
func MaxVehicleYear() int {
	return time.Now().Year() + 1
}

// IsStrongPassword 至少包含一個小寫字母、一個大寫字母與一個數字
func IsStrongPassword(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Errors 將 binding 回傳的錯誤轉為欄位錯誤清單
func Errors(err error) []FieldError {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
	)

	switch {
	case errors.As(err, &verrs):
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return out
	case errors.As(err, &typeErr):
		return []FieldError{{Field: typeErr.Field, Message: fmt.Sprintf("Must be of type %s", jsonType(typeErr.Type))}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return []FieldError{{Field: "body", Message: "Request body must be valid JSON"}}
	case errors.As(err, &numErr):
		return []FieldError{{Field: "query", Message: fmt.Sprintf("Invalid number %q", numErr.Num)}}
	default:
		return []FieldError{{Field: "request", Message: err.Error()}}
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email format"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", field)
	case "plate":
		return "Plate number must contain only uppercase letters, numbers, and spaces"
	case "strongpwd":
		return "Password must contain at least one lowercase letter, one uppercase letter, and one number"
	case "vehicleyear":
		return fmt.Sprintf("Year must be between %d and %d", MinVehicleYear, MaxVehicleYear())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		return t.String()
	}
}
