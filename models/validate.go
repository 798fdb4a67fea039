package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate, tüm request struct'ları için paylaşılan validator.
// validator.Validate thread-safe'dir ve struct bilgisini cache'ler.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// username: harf, rakam ve alt çizgi
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, ch := range fl.Field().String() {
			if !isValidUsernameChar(ch) {
				return false
			}
		}
		return true
	})

	// JSON adlarını hata mesajlarında kullan (ReceiverID yerine receiverId)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct, validator hatalarını tek satırlık okunabilir mesaja çevirir.
// Sadece ilk hatalı alan raporlanır.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return fmt.Errorf("%s can only contain letters, numbers, and underscores", field)
	case "url", "http_url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "nefield":
		return fmt.Errorf("%s must differ from %s", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
