// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/travel-booking/internal/lib/email"
	"github.com/magabrotheeeer/travel-booking/internal/services/auth"
	"github.com/magabrotheeeer/travel-booking/internal/services/booking"
	"github.com/magabrotheeeer/travel-booking/internal/services/cart"
	"github.com/magabrotheeeer/travel-booking/internal/services/catalog"
	"github.com/magabrotheeeer/travel-booking/internal/services/hotel"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case email.Tag:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid email address", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid URL", err.Field()))
		case "min", "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must have length %s %s", err.Field(), err.ActualTag(), err.Param()))
		case "gt", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be %s %s", err.Field(), err.ActualTag(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// Validate проверяет структуру и пишет 422 при нарушениях.
// Возвращает false, если ответ уже отправлен.
func Validate(w http.ResponseWriter, r *http.Request, v *validator.Validate, req any) bool {
	err := v.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	render.Status(r, http.StatusUnprocessableEntity)
	if errors.As(err, &verrs) {
		render.JSON(w, r, ValidationError(verrs))
	} else {
		render.JSON(w, r, Error("invalid request"))
	}
	return false
}

// StatusFor сопоставляет ошибку бизнес-логики или хранилища HTTP-статусу
// и сообщению, которое безопасно показать клиенту.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests, auth.ErrRateLimited.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, storage.ErrDuplicateEmail):
		return http.StatusConflict, "email is already registered"
	case errors.Is(err, storage.ErrNotAvailable):
		return http.StatusConflict, "not enough rooms available for these dates"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, hotel.ErrInvalidInput),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, booking.ErrInvalidDates),
		errors.Is(err, booking.ErrInvalidRooms):
		return http.StatusUnprocessableEntity, firstLine(err)
	case errors.Is(err, storage.ErrConstraintViolation):
		return http.StatusConflict, "request conflicts with existing data"
	case errors.Is(err, storage.ErrConnection):
		return http.StatusServiceUnavailable, "storage is unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Fail пишет ответ с ошибкой err, статус выбирается через StatusFor.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// firstLine отрезает обернутую причину, оставляя текст сентинела.
func firstLine(err error) string {
	for _, s := range []error{
		auth.ErrInvalidEmail, auth.ErrInvalidInput, auth.ErrPasswordTooLong, catalog.ErrInvalidInput, hotel.ErrInvalidInput,
		cart.ErrInvalidQuantity, booking.ErrInvalidDates, booking.ErrInvalidRooms,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}
