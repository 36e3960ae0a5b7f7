// Package email нормализует и проверяет адреса электронной почты пользователей.
package email

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

// Tag имя правила валидатора для адресов почты.
const Tag = "email_addr"

// Шаблон допускает одну точку или подчёркивание в локальной части и один уровень домена.
var pattern = regexp.MustCompile(`^[a-z0-9]+[\._]?[a-z0-9]+[@]\w+[.]\w+$`)

// Normalize обрезает пробелы и приводит адрес к нижнему регистру.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Valid проверяет нормализованный адрес.
func Valid(addr string) bool {
	return pattern.MatchString(Normalize(addr))
}

// RegisterValidation регистрирует правило Tag в валидаторе.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return Valid(fl.Field().String())
	})
}
