// Package login реализует HTTP-обработчик входа по почте и паролю.
//
// Неудачные попытки учитываются ограничителем сервиса auth: после порога
// в окне обработчик отвечает 429, не проверяя пароль.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/travel-booking/internal/http/request"
	"github.com/magabrotheeeer/travel-booking/internal/http/response"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// Service описывает вход в сервисе учетных записей.
type Service interface {
	SignIn(ctx context.Context, email, password string) (string, *models.UserProfile, error)
}

// Handler обрабатывает POST /signin.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, validate *validator.Validate) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет почту и пароль. После 5 неудач за 300 секунд вход блокируется.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummySignIn true "Учетные данные"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 429 {object} response.Response "Слишком много попыток"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /signin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySignIn
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	token, profile, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("login success", slog.Int64("user_id", profile.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  profile,
	}))
}
